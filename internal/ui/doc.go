// Package ui provides the styled terminal output used by the otpview commands.
//
// Everything here follows a "print once" pattern: a command builds a Header
// or Result, renders it with Lipgloss and writes it through a Printer. The
// interactive code entry itself lives in package otpfield; this package only
// decorates what comes before and after it.
//
// # Components
//
//   - Header: command banner with an ordered list of parameters
//   - Result: success, warning or failure box with details and tips
//   - Printer: writes components to an io.Writer (os.Stdout by default)
//   - Printer.Confirm: warning box followed by a typed confirmation
//
// # Usage
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Chunk", "otpview chunk 123456",
//	    ui.Detail{Key: "Cells", Value: "6"},
//	)
//	p.PrintSuccess("Chunked", ui.Detail{Key: "Cells", Value: "1 2 3 4 5 6"})
//
// # Logging Integration
//
// zap logging is silent unless OTPVIEW_LOG_LEVEL is set, so the rendered
// boxes are the only output by default. When logging is enabled it goes to
// stderr (or OTPVIEW_LOG_FILE) and does not interleave with stdout.
package ui
