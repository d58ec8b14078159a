package otpfield

import (
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/runeutil"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"go.uber.org/zap"

	"github.com/muurk/otpview/internal/logging"
	"github.com/muurk/otpview/internal/otp"
)

// Messages the host sends to the field.
type (
	// SetValueMsg replaces the whole value, as a paste or an autofill would.
	SetValueMsg struct {
		Value string
		Paste bool
	}

	// ClearMsg empties every cell and focuses the first one.
	ClearMsg struct{}

	// FocusCellMsg focuses cell Index as if it had been clicked.
	FocusCellMsg struct {
		Index int
	}
)

// Messages the field emits as commands.
type (
	// ValueChangedMsg carries the joined value after every accepted change.
	ValueChangedMsg struct {
		Value string
	}

	// CellChangedMsg carries a direct edit of one cell.
	CellChangedMsg struct {
		Text  string
		Index int
	}

	// CompletedMsg is sent once each time every cell becomes full.
	CompletedMsg struct {
		Value string
	}
)

type clipboardMsg string

type clipboardErrMsg struct{ err error }

// bridge collects what the machine asks for while it handles one event.
// Model values share it, so a copy of the model sees the same queue.
type bridge struct {
	focus []int
	out   []tea.Msg
}

// cellHandle is the focus handle of one cell: it only queues the request.
type cellHandle struct {
	b *bridge
	i int
}

func (h cellHandle) Focus() {
	h.b.focus = append(h.b.focus, h.i)
}

// Option configures a Model.
type Option func(*Model)

// WithCellStyle overrides the style of each cell box. The border color is
// still set per cell.
func WithCellStyle(s lipgloss.Style) Option {
	return func(m *Model) { m.cellStyle = s }
}

// WithContainerStyle overrides the style wrapped around the row of cells.
func WithContainerStyle(s lipgloss.Style) Option {
	return func(m *Model) { m.containerStyle = s }
}

// WithKeyMap replaces the default bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithShowIDs renders each cell's id under it.
func WithShowIDs(show bool) Option {
	return func(m *Model) { m.showIDs = show }
}

// WithHelp renders the key help under the cells.
func WithHelp(show bool) Option {
	return func(m *Model) { m.showHelp = show }
}

// Model is a Bubble Tea component rendering one otp.Machine as a row of
// single-line text inputs.
type Model struct {
	machine *otp.Machine
	inputs  []textinput.Model
	b       *bridge

	keys      KeyMap
	help      help.Model
	sanitizer runeutil.Sanitizer

	cellStyle      lipgloss.Style
	containerStyle lipgloss.Style
	showIDs        bool
	showHelp       bool

	originX, originY int
	completed        bool
	initCmd          tea.Cmd
}

// New builds a field for cfg. The config is validated by otp.NewMachine.
func New(cfg otp.Config, opts ...Option) (Model, error) {
	machine, err := otp.NewMachine(cfg)
	if err != nil {
		return Model{}, err
	}
	cfg = machine.Config()

	m := Model{
		machine:        machine,
		inputs:         make([]textinput.Model, cfg.InputCount),
		b:              &bridge{},
		keys:           DefaultKeyMap(),
		help:           help.New(),
		sanitizer:      runeutil.NewSanitizer(runeutil.ReplaceTabs(""), runeutil.ReplaceNewlines("")),
		cellStyle:      DefaultCellStyle,
		containerStyle: DefaultContainerStyle,
	}
	for _, opt := range opts {
		opt(&m)
	}
	if m.cellStyle.GetWidth() == 0 {
		// One column for the cursor past the last rune.
		m.cellStyle = m.cellStyle.Width(cfg.InputCellLength + 1 + m.cellStyle.GetHorizontalPadding())
	}

	palette := machine.Palette()
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = strings.Repeat("·", cfg.InputCellLength)
		ti.CharLimit = cfg.InputCellLength
		ti.Width = cfg.InputCellLength
		ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(palette.Tint(i)))
		ti.Cursor.SetMode(cursor.CursorStatic)
		m.inputs[i] = ti
	}

	b := m.b
	machine.OnTextChange = func(value string) {
		b.out = append(b.out, ValueChangedMsg{Value: value})
	}
	machine.OnCellTextChange = func(text string, i int) {
		b.out = append(b.out, CellChangedMsg{Text: text, Index: i})
	}
	for i := range m.inputs {
		machine.Mount(i, cellHandle{b: b, i: i})
	}

	m.completed = machine.Complete()
	m.initCmd = m.settle()
	return m, nil
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		if i := m.CellAt(msg.X-m.originX, msg.Y-m.originY); i >= 0 {
			return m.tap(i)
		}
		return m, nil

	case SetValueMsg:
		m.machine.SetValue(msg.Value, msg.Paste)
		return m, m.settle()

	case ClearMsg:
		m.machine.Clear()
		return m, m.settle()

	case FocusCellMsg:
		return m.tap(msg.Index)

	case clipboardMsg:
		return m.paste(string(msg))

	case clipboardErrMsg:
		logging.Warn("Clipboard read failed", zap.Error(msg.err))
		return m, nil
	}

	// Cursor blink and other textinput messages.
	var cmds []tea.Cmd
	for i := range m.inputs {
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Paste {
		return m.paste(string(msg.Runes))
	}

	switch {
	case key.Matches(msg, m.keys.Clear):
		m.machine.Clear()
		return m, m.settle()
	case key.Matches(msg, m.keys.Paste):
		return m, readClipboard
	case key.Matches(msg, m.keys.Next):
		return m.tap(m.machine.Focus() + 1)
	case key.Matches(msg, m.keys.Prev):
		return m.tap(m.machine.Focus() - 1)
	}

	i := m.machine.Focus()
	if i == otp.NoFocus {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyBackspace:
		m.machine.KeyPress(otp.KeyBackspace, i)
		return m.edit(msg, i)

	case tea.KeyRunes, tea.KeySpace:
		// Runes arriving together are typed one at a time so focus can
		// advance between them.
		var cmds []tea.Cmd
		for _, r := range m.keyboardRunes(msg.Runes) {
			i := m.machine.Focus()
			if i == otp.NoFocus {
				break
			}
			m.machine.KeyPress(otp.Key(string(r)), i)
			var cmd tea.Cmd
			m, cmd = m.edit(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}, i)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
		if len(cmds) == 0 {
			return m, nil
		}
		return m, tea.Sequence(cmds...)

	case tea.KeyLeft:
		if m.inputs[i].Position() == 0 && i > 0 {
			return m.tap(i - 1)
		}
		return m.edit(msg, i)

	case tea.KeyRight:
		if m.inputs[i].Position() >= len([]rune(m.inputs[i].Value())) && i < len(m.inputs)-1 {
			return m.tap(i + 1)
		}
		return m.edit(msg, i)

	case tea.KeyDelete, tea.KeyHome, tea.KeyEnd:
		return m.edit(msg, i)
	}

	return m, nil
}

// edit lets the text input of cell i handle msg and reports the new text.
func (m Model) edit(msg tea.KeyMsg, i int) (Model, tea.Cmd) {
	before := m.inputs[i].Value()
	var cmd tea.Cmd
	m.inputs[i], cmd = m.inputs[i].Update(msg)
	if after := m.inputs[i].Value(); after != before {
		m.machine.CellTextChanged(after, i)
	}
	return m, tea.Batch(cmd, m.settle())
}

// tap focuses cell i the way a click does.
func (m Model) tap(i int) (Model, tea.Cmd) {
	if i < 0 || i >= len(m.inputs) {
		return m, nil
	}
	m.b.focus = append(m.b.focus, i)
	return m, m.settle()
}

func (m Model) paste(text string) (Model, tea.Cmd) {
	code := m.cleanPaste(text)
	if code == "" {
		return m, nil
	}
	m.machine.SetValue(code, true)
	return m, m.settle()
}

// settle applies queued focus requests, copies the machine's cells into the
// text inputs and turns collected notifications into commands.
func (m *Model) settle() tea.Cmd {
	var cmds []tea.Cmd

	// Each redirect moves one cell left, so the chain is bounded by the
	// number of cells.
	for steps := 0; len(m.b.focus) > 0 && steps <= 2*len(m.inputs); steps++ {
		i := m.b.focus[0]
		m.b.focus = m.b.focus[1:]
		cmds = append(cmds, m.focusInput(i))
		m.machine.CellFocused(i)
	}
	m.b.focus = m.b.focus[:0]

	for i, text := range m.machine.Cells() {
		if m.inputs[i].Value() != text {
			m.inputs[i].SetValue(text)
			m.inputs[i].CursorEnd()
		}
	}

	out := m.b.out
	m.b.out = nil

	complete := m.machine.Complete()
	if complete && !m.completed {
		out = append(out, CompletedMsg{Value: m.machine.Value()})
	}
	m.completed = complete

	return tea.Batch(append(cmds, sequence(out))...)
}

func (m *Model) focusInput(i int) tea.Cmd {
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
			m.inputs[j].CursorEnd()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// keyboardRunes drops runes the configured keyboard could not type.
func (m Model) keyboardRunes(runes []rune) []rune {
	kb := m.machine.Config().KeyboardType
	out := make([]rune, 0, len(runes))
	for _, r := range runes {
		if kb.Accepts(r) {
			out = append(out, r)
		}
	}
	return out
}

// cleanPaste strips control runes, whitespace and anything the keyboard or
// the cell validator would refuse.
func (m Model) cleanPaste(text string) string {
	kb := m.machine.Config().KeyboardType
	var b strings.Builder
	for _, r := range m.sanitizer.Sanitize([]rune(text)) {
		if unicode.IsSpace(r) || !kb.Accepts(r) || !otp.IsValidCellInput(string(r)) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// View implements tea.Model
func (m Model) View() string {
	view := m.containerStyle.Render(m.renderRow())
	if m.showHelp {
		view = lipgloss.JoinVertical(lipgloss.Left, view, m.help.View(m.keys))
	}
	return view
}

func (m Model) renderRow() string {
	boxes := make([]string, len(m.inputs))
	for i := range m.inputs {
		boxes[i] = m.renderCell(i)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
}

func (m Model) renderCell(i int) string {
	style := m.cellStyle.BorderForeground(lipgloss.Color(m.machine.BorderColor(i)))
	box := style.Render(m.inputs[i].View())
	if m.showIDs {
		box = lipgloss.JoinVertical(lipgloss.Center, box, idStyle.Render(m.machine.CellID(i)))
	}
	return box
}

// CellAt returns the cell under column x, row y of the field's view, or -1.
func (m Model) CellAt(x, y int) int {
	left := m.containerStyle.GetMarginLeft() + m.containerStyle.GetBorderLeftSize() + m.containerStyle.GetPaddingLeft()
	top := m.containerStyle.GetMarginTop() + m.containerStyle.GetBorderTopSize() + m.containerStyle.GetPaddingTop()
	x -= left
	y -= top
	if x < 0 || y < 0 {
		return -1
	}

	for i := range m.inputs {
		lines := strings.Split(m.renderCell(i), "\n")
		if y >= len(lines) {
			return -1
		}
		w := 0
		for _, line := range lines {
			w = max(w, ansi.StringWidth(line))
		}
		if x < w {
			return i
		}
		x -= w
	}
	return -1
}

// SetOrigin records where the host draws the field, so mouse coordinates
// can be mapped to cells.
func (m *Model) SetOrigin(x, y int) {
	m.originX, m.originY = x, y
}

// Blur removes focus from every cell.
func (m *Model) Blur() {
	m.machine.Blur()
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

// Value returns the joined cell values.
func (m Model) Value() string {
	return m.machine.Value()
}

// Cells returns a copy of the cell values.
func (m Model) Cells() []string {
	return m.machine.Cells()
}

// Complete reports whether every cell is full.
func (m Model) Complete() bool {
	return m.machine.Complete()
}

// FocusIndex returns the focused cell, or otp.NoFocus.
func (m Model) FocusIndex() int {
	return m.machine.Focus()
}

// Config returns the resolved field configuration.
func (m Model) Config() otp.Config {
	return m.machine.Config()
}

// KeyMap returns the active bindings, e.g. for a host's combined help.
func (m Model) KeyMap() KeyMap {
	return m.keys
}

// sequence delivers msgs in order.
func sequence(msgs []tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(msgs))
	for i, msg := range msgs {
		msg := msg
		cmds[i] = func() tea.Msg { return msg }
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}

func readClipboard() tea.Msg {
	s, err := clipboard.ReadAll()
	if err != nil {
		return clipboardErrMsg{err}
	}
	return clipboardMsg(s)
}
