// Package otp implements the input state machine behind a segmented
// one-time-passcode field.
//
// A field is a fixed number of equal-width cells that together hold one
// logical value. The package owns everything that has real logic in such a
// control: splitting a flat value into cells, validating keystrokes, and the
// focus rules that move the caret forward while typing and back on deletion.
// Rendering is left to the caller (see package otpfield for the terminal
// component).
//
// # State
//
// A Machine holds exactly InputCount cell strings plus the focused index.
// Cells may be empty but are never absent, so joining them always yields the
// current flat value:
//
//	m, err := otp.NewMachine(otp.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	m.OnTextChange = func(v string) { fmt.Println("value:", v) }
//	m.CellTextChanged("1", 0) // cells: ["1" "" "" ""]
//
// # Focus Handles
//
// The machine never reads widget state. Each cell may have a FocusHandle
// mounted; the machine only ever calls Focus on it. A handle is free to call
// CellFocused back synchronously: every transition finishes updating state
// and notifying the host before it requests focus.
//
// # Errors
//
// Configuration is the only thing that can fail. NewMachine validates the
// config and returns a *ConfigError when, for example, a per-cell tint list
// does not match InputCount. Keystroke operations never return errors; input
// that is not allowed is discarded.
//
// # Thread Safety
//
// A Machine is not safe for concurrent use. It is meant to be driven from a
// single UI event loop.
package otp
