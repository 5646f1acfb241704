// Package logger provides structured logging for the feed packages using
// zerolog.
//
// Logs go to stderr by default because stdout carries the item stream when
// the feed runs as a command-line filter.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	logger.RegisterComponents(appLogger, logger.FeedComponents...)
//	log := logger.Get(logger.ComponentCollector)
//	log.Debug("command collector start", logger.Fields(logger.FieldRunID, id))
package logger
