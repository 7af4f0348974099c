// Package util provides small generic helpers shared by savvy packages:
// pointer helpers for optional settings and secret masking for display.
package util
