// Package logger provides structured logging for bugcrawl built on zerolog.
//
// A single Logger interface is used throughout the application so packages
// never depend on zerolog directly. Output goes to stderr as human-readable
// console lines; an optional log file receives the same events as JSON.
//
// The package keeps one global logger, initialized from the logging
// configuration at startup:
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    ...
//	}
//	log := logger.GetLogger()
//	log.WithField("key", "MANATEE-400").Info("downloading issue")
//
// Packages that receive a nil Logger fall back to the global instance.
package logger
