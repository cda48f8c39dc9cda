// Package logging provides structured logging for IntelliPark Core.
//
// It wraps log/slog with the service defaults used everywhere in the
// binary: JSON or text output, level filtering, and service/version
// attributes on every record.
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	gateLog := logger.Component("gate")
//	gateLog.Info("run started", "mode", "entry")
//
// Plates are logged as-is; never log backend credentials or tokens.
package logging
