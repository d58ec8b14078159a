package otp

import (
	"strings"

	"github.com/muurk/otpview/internal/logging"
)

// NoFocus is the focus index of a field where no cell has focus.
const NoFocus = -1

// Key identifies a raw key press delivered before the text settles.
type Key string

// KeyBackspace is the delete key. Every other key value counts as typing.
const KeyBackspace Key = "Backspace"

// FocusHandle is the write-only side of a cell widget: the machine asks it
// to take focus and never reads anything back from it.
type FocusHandle interface {
	Focus()
}

// FocusFunc adapts a function to FocusHandle.
type FocusFunc func()

// Focus calls f.
func (f FocusFunc) Focus() { f() }

// Machine is the focus/edit state machine of one field.
type Machine struct {
	cfg     Config
	palette Palette
	cells   []string
	focus   int
	handles []FocusHandle

	// OnTextChange receives the joined value after every accepted change.
	OnTextChange func(value string)
	// OnCellTextChange receives direct per-cell edits only; reach-back,
	// SetValue and Clear do not call it.
	OnCellTextChange func(text string, cellIndex int)
}

// NewMachine validates cfg and builds a machine whose cells hold
// cfg.DefaultValue. Focus starts on cell 0 when AutoFocus is set.
func NewMachine(cfg Config) (*Machine, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Machine{
		cfg:     cfg,
		palette: NewPalette(cfg.TintColor, cfg.OffTintColor, cfg.InputCount),
		cells:   Pad(Chunk(cfg.DefaultValue, cfg.InputCellLength, cfg.InputCount), cfg.InputCount),
		focus:   NoFocus,
		handles: make([]FocusHandle, cfg.InputCount),
	}
	if cfg.AutoFocus {
		m.focus = 0
	}
	return m, nil
}

// Mount registers the focus handle of cell i. With AutoFocus set, mounting
// cell 0 asks it to take focus.
func (m *Machine) Mount(i int, h FocusHandle) {
	if !m.inRange(i) {
		return
	}
	m.handles[i] = h
	if h != nil && i == 0 && m.cfg.AutoFocus {
		h.Focus()
	}
}

// CellTextChanged applies the settled text of cell i. Non-empty text that
// fails IsValidCellInput is dropped without any notification.
func (m *Machine) CellTextChanged(text string, i int) {
	if !m.inRange(i) {
		return
	}
	if text != "" && !IsValidCellInput(text) {
		logging.LogEdit("reject", i, m.cells)
		return
	}

	text = clip(text, m.cfg.InputCellLength)
	m.cells[i] = text
	logging.LogEdit("type", i, m.cells)

	m.notify(m.Value())
	if m.OnCellTextChange != nil {
		m.OnCellTextChange(text, i)
	}

	if runeLen(text) == m.cfg.InputCellLength && i != m.last() {
		m.requestFocus(i+1, "advance")
	}
}

// CellFocused records that cell i gained focus, e.g. from a tap. While the
// whole value is empty, focus is steered one cell back if that cell is empty.
func (m *Machine) CellFocused(i int) {
	if !m.inRange(i) {
		return
	}
	if i > 0 && m.cells[i-1] == "" && m.Value() == "" {
		m.requestFocus(i-1, "redirect")
		return
	}
	logging.LogFocus(m.focus, i, "focused")
	m.focus = i
}

// KeyPress handles a raw key on cell i, before any text change settles.
func (m *Machine) KeyPress(key Key, i int) {
	if !m.inRange(i) {
		return
	}
	val := m.cells[i]

	if key != KeyBackspace {
		if val != "" && i != m.last() {
			m.requestFocus(i+1, "key")
		}
		return
	}

	if i == 0 {
		return
	}
	prev := m.cells[i-1]
	if val == "" && runeLen(prev) == m.cfg.InputCellLength {
		m.cells[i-1] = dropLast(prev)
		logging.LogEdit("reach-back", i-1, m.cells)
		m.notify(m.Value())
		m.requestFocus(i-1, "reach-back")
	}
}

// SetValue replaces every cell with the chunks of value. Paste focuses the
// last cell; otherwise the cell at len(value)-1 is focused when it exists.
// The host is notified with value exactly as given.
func (m *Machine) SetValue(value string, isPaste bool) {
	m.cells = Pad(Chunk(value, m.cfg.InputCellLength, m.cfg.InputCount), m.cfg.InputCount)
	logging.LogEdit("set", NoFocus, m.cells)
	m.notify(value)

	target := runeLen(value) - 1
	if isPaste {
		target = m.last()
	}
	m.requestFocus(target, "set")
}

// Clear empties every cell and focuses the first one.
func (m *Machine) Clear() {
	m.cells = make([]string, m.cfg.InputCount)
	logging.LogEdit("clear", NoFocus, m.cells)
	m.notify("")
	m.requestFocus(0, "clear")
}

// Config returns the resolved configuration.
func (m *Machine) Config() Config {
	return m.cfg
}

// Len returns the number of cells.
func (m *Machine) Len() int {
	return len(m.cells)
}

// Cells returns a copy of the cell values.
func (m *Machine) Cells() []string {
	cp := make([]string, len(m.cells))
	copy(cp, m.cells)
	return cp
}

// Cell returns the value of cell i, or "" when i is out of range.
func (m *Machine) Cell(i int) string {
	if !m.inRange(i) {
		return ""
	}
	return m.cells[i]
}

// Value returns the joined cell values.
func (m *Machine) Value() string {
	return strings.Join(m.cells, "")
}

// Focus returns the focused cell index, or NoFocus.
func (m *Machine) Focus() int {
	return m.focus
}

// Blur drops focus from the field without touching any cell.
func (m *Machine) Blur() {
	m.focus = NoFocus
}

// Complete reports whether every cell is full.
func (m *Machine) Complete() bool {
	for _, c := range m.cells {
		if runeLen(c) != m.cfg.InputCellLength {
			return false
		}
	}
	return true
}

// BorderColor returns the tint of cell i when it is focused and its
// off-tint otherwise.
func (m *Machine) BorderColor(i int) Color {
	return m.palette.At(i, i == m.focus)
}

// Palette returns the resolved colors.
func (m *Machine) Palette() Palette {
	return m.palette
}

// CellID returns the stable identifier of cell i.
func (m *Machine) CellID(i int) string {
	return m.cfg.CellID(i)
}

func (m *Machine) notify(value string) {
	if m.OnTextChange != nil {
		m.OnTextChange(value)
	}
}

// requestFocus asks the handle of cell i to take focus. A missing handle or
// index is skipped.
func (m *Machine) requestFocus(i int, reason string) {
	if !m.inRange(i) || m.handles[i] == nil {
		logging.LogFocus(m.focus, i, reason+" skipped")
		return
	}
	logging.LogFocus(m.focus, i, reason)
	m.handles[i].Focus()
}

func (m *Machine) inRange(i int) bool {
	return i >= 0 && i < len(m.cells)
}

func (m *Machine) last() int {
	return len(m.cells) - 1
}
