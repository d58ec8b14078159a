// Package otpfield renders an otp.Machine as a Bubble Tea component: a row
// of bordered single-line inputs, one per cell.
//
// Each cell is a bubbles textinput limited to the cell length. Key events go
// through the machine in the order a touch keyboard would deliver them: the
// raw key first (otp.Machine.KeyPress), then the settled text of the cell
// (otp.Machine.CellTextChanged). After every event the inputs are re-synced
// from the machine, so text the machine rejected disappears again.
//
// # Focus
//
// The machine moves focus through write-only handles. Here a handle only
// queues the cell index; once the machine has finished handling the event,
// the model focuses the queued cells in order and reports each one back with
// CellFocused, which is also what a click or tab does.
//
// # Messages
//
// Hosts drive the field with SetValueMsg, ClearMsg and FocusCellMsg. The
// field reports back with ValueChangedMsg, CellChangedMsg and, once every
// cell is full, CompletedMsg. Messages from one event arrive in order.
//
// # Keys
//
//   - digits and letters: typed into the focused cell, filtered by the
//     configured keyboard type
//   - backspace: deletes, and reaches back into a full previous cell
//   - tab, shift+tab, ←, →: move between cells
//   - ctrl+v and bracketed paste: paste the whole code
//   - ctrl+u: clear
//
// Mouse clicks focus the cell under the pointer when the host enables mouse
// reporting and tells the field where it is drawn (SetOrigin).
package otpfield
