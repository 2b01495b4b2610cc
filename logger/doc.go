// Package logger provides structured logging built on zerolog.
//
// It is deliberately small: a Logger wrapper with component tagging and
// optional field maps, plus a Config with the usual ApplyDefaults/Validate
// pair. Fixture loading happens inside test processes, so the default format
// is console output; set Format to "json" for machine-readable logs.
//
//	log := logger.NewDefault("fixkit")
//	log.Info("fixtures loaded", logger.Fields("count", 3))
package logger
