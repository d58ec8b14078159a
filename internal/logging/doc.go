// Package logging provides structured logging for otpview.
//
// This package wraps a package-global zap logger with convenience functions
// used by the field, the terminal component and the autofill listener.
//
// # Log Levels
//
//   - Debug: Every edit and focus transition, discarded keystrokes
//   - Info: Autofill connections and accepted pushes
//   - Warn: Malformed autofill messages, failed mDNS announcements
//   - Error: Listener failures
//
// # Silent By Default
//
// The interactive prompt owns the terminal, so nothing is logged unless
// OTPVIEW_LOG_LEVEL is set. Output goes to stderr, or to the file named by
// OTPVIEW_LOG_FILE:
//
//	OTPVIEW_LOG_LEVEL=debug OTPVIEW_LOG_FILE=/tmp/otpview.log otpview
//
// # Codes Are Never Logged
//
// LogEdit records the value length and the number of filled cells, not the
// value. Use MaskCode when a code has to be referenced in a message.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and
// SetLogger are meant to be called once at startup.
package logging
