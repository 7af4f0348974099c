// Package errors provides the structured error type shared by savvy
// components, with machine-readable codes and retryable detection.
package errors
