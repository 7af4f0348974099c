// Package logger provides structured logging for savvy components using
// zerolog.
//
// Components depend only on the Sink interface (Info, Warn, Error), so any
// logger exposing those methods can be injected. *Logger is the default
// implementation and is always constructed locally; there is no package-level
// logger to mutate.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("billing").WithComponent("httpclient")
//	log.Info("request sent", logger.Fields("route", "/invoices"))
package logger
