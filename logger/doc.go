// Package logger provides structured logging for asreval built on zerolog.
//
// Logs go to stderr by default so that rendered comparisons and CSV output
// on stdout stay clean. Component loggers are obtained by name:
//
//	log := logger.Get("runner")
//	log.Info("job started", logger.Fields(logger.FieldJob, name))
package logger
