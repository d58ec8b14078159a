package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/otpview/internal/logging"
	"github.com/muurk/otpview/internal/otp"
	"github.com/muurk/otpview/internal/otpfield"
)

// AutofillMsg delivers a code pushed to the autofill listener. Send it to
// the running program with tea.Program.Send.
type AutofillMsg struct {
	Code  string
	Paste bool
	From  string
}

// promptKeyMap combines the field's bindings with the prompt's own.
type promptKeyMap struct {
	Field  otpfield.KeyMap
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view. Submit
// and quit come first so a narrow help line still shows them.
func (k promptKeyMap) ShortHelp() []key.Binding {
	return append([]key.Binding{k.Submit, k.Quit}, k.Field.ShortHelp()...)
}

// FullHelp returns keybindings for the expanded help view
func (k promptKeyMap) FullHelp() [][]key.Binding {
	return append(k.Field.FullHelp(), []key.Binding{k.Submit, k.Quit})
}

// PromptOptions configures a PromptModel
type PromptOptions struct {
	Title            string // Shown above the cells
	AutofillURL      string // Listener URL shown in the status line, if any
	SubmitOnComplete bool   // Finish as soon as every cell is full
}

// PromptModel hosts an otpfield.Model as a full-screen prompt. It finishes
// when the user submits a complete code or quits.
type PromptModel struct {
	Field otpfield.Model

	Title       string
	AutofillURL string
	Status      string
	statusStyle lipgloss.Style

	Submitted bool
	Aborted   bool

	submitOnComplete bool

	Width  int
	Height int

	Help help.Model
	Keys promptKeyMap
}

// NewPromptModel wraps field in a prompt.
func NewPromptModel(field otpfield.Model, opts PromptOptions) PromptModel {
	title := opts.Title
	if title == "" {
		title = "Enter your one-time code"
	}

	m := PromptModel{
		Field:            field,
		Title:            title,
		AutofillURL:      opts.AutofillURL,
		statusStyle:      StatusStyle,
		submitOnComplete: opts.SubmitOnComplete,
		Help:             help.New(),
		Keys: promptKeyMap{
			Field: field.KeyMap(),
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "submit"),
			),
			Quit: key.NewBinding(
				key.WithKeys("esc", "ctrl+c"),
				key.WithHelp("esc", "quit"),
			),
		},
	}
	if m.AutofillURL != "" {
		m.Status = "Autofill listening on " + m.AutofillURL
	}
	return m
}

// Init implements tea.Model
func (m PromptModel) Init() tea.Cmd {
	return m.Field.Init()
}

// Update implements tea.Model
func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = footerTextWidth(msg.Width)
		m.layout()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Quit):
			m.Aborted = true
			m.Field.Blur()
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Submit):
			if !m.Field.Complete() {
				m.setStatus("Fill every cell before submitting", StatusWarnStyle)
				return m, nil
			}
			return m.submit()
		}

	case AutofillMsg:
		from := msg.From
		if from == "" {
			from = "autofill"
		}
		if kb := m.Field.Config().KeyboardType; !fitsKeyboard(msg.Code, kb) {
			logging.Warn("Autofill code refused", zap.String("keyboard", string(kb)), zap.String("from", from))
			m.setStatus("Code from "+from+" does not fit a "+string(kb)+" keyboard", StatusWarnStyle)
			return m, nil
		}
		m.setStatus("Code received from "+from, StatusOKStyle)
		return m.forward(otpfield.SetValueMsg{Value: msg.Code, Paste: msg.Paste})

	case otpfield.ValueChangedMsg:
		logging.LogEdit("value", m.Field.FocusIndex(), m.Field.Cells())
		return m, nil

	case otpfield.CellChangedMsg:
		logging.Debug("Cell changed",
			zap.Int("cell", msg.Index),
			zap.Int("length", len([]rune(msg.Text))),
		)
		return m, nil

	case otpfield.CompletedMsg:
		logging.Debug("Field complete", zap.Int("length", len([]rune(msg.Value))))
		if m.submitOnComplete {
			return m.submit()
		}
		m.setStatus("Press enter to submit", StatusOKStyle)
		return m, nil
	}

	return m.forward(msg)
}

func (m PromptModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Field, cmd = m.Field.Update(msg)
	return m, cmd
}

func (m PromptModel) submit() (tea.Model, tea.Cmd) {
	m.Submitted = true
	m.Field.Blur()
	return m, tea.Quit
}

func (m *PromptModel) setStatus(text string, style lipgloss.Style) {
	m.Status = text
	m.statusStyle = style
}

// layout tells the field where its cells are drawn.
func (m *PromptModel) layout() {
	if m.Width <= 0 || m.Height <= 0 {
		return
	}
	x, y := ContentOrigin(m.Width)
	m.Field.SetOrigin(x, y+lipgloss.Height(RenderTitle(m.Title)))
}

// Value returns the code entered so far
func (m PromptModel) Value() string {
	return m.Field.Value()
}

// View implements tea.Model
func (m PromptModel) View() string {
	parts := []string{RenderTitle(m.Title), m.Field.View()}
	if m.Status != "" {
		parts = append(parts, "", m.statusStyle.Render(m.Status))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return RenderApplicationContainer(content, m.Help.View(m.Keys), m.Width, m.Height)
}

// fitsKeyboard reports whether every rune of code could be typed on kb.
func fitsKeyboard(code string, kb otp.KeyboardType) bool {
	for _, r := range code {
		if !kb.Accepts(r) {
			return false
		}
	}
	return true
}
