// Package logging provides structured logging for PakRecharge.
//
// This package wraps a zap logger with package-level convenience functions
// and a few domain-specific helpers for form sessions and the HTTP server.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (every UI event, dropped timer callbacks)
//   - Info: Normal operations (submissions, outcomes, sessions, server start)
//   - Warn: Non-fatal issues (mDNS advertisement failed, bad websocket frames)
//   - Error: Failures that stop a command (listener errors, unreadable settings)
//
// # Silent By Default
//
// The interactive form owns the terminal, so logging is disabled unless a
// level is requested through --log-level or the PAKRECHARGE_LOG_LEVEL
// environment variable. Use --log-file to keep log output away from the form:
//
//	if err := logging.Initialize("debug", "/tmp/pakrecharge.log"); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("Top-up submitted",
//	    zap.String("network", "Jazz"),
//	    zap.String("amount", "500"),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
