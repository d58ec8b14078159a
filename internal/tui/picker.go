package tui

import (
	"context"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/otpview/internal/autofill"
)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	endpoints []autofill.Endpoint
	err       error
}

// pickerKeyMap defines key bindings for the endpoint list
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualKeyMap defines key bindings for manual URL entry
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// endpointItem wraps an Endpoint for use with bubbles/list
type endpointItem struct {
	endpoint autofill.Endpoint
	manual   bool
}

func (e endpointItem) FilterValue() string {
	return e.endpoint.Instance + " " + e.endpoint.IP + " " + e.endpoint.Host
}

func (e endpointItem) Title() string {
	if e.manual {
		return "Manual: " + e.endpoint.Instance
	}
	return e.endpoint.Instance
}

func (e endpointItem) Description() string {
	parts := []string{net.JoinHostPort(e.endpoint.IP, fmt.Sprint(e.endpoint.Port))}
	if cells := e.endpoint.Text["cells"]; cells != "" {
		parts = append(parts, cells+" cells")
	}
	if kb := e.endpoint.Text["keyboard"]; kb != "" {
		parts = append(parts, kb)
	}
	return strings.Join(parts, " • ")
}

// endpointDelegate renders each endpoint as a small card
type endpointDelegate struct {
	width int
}

func (d endpointDelegate) Height() int { return 4 }

func (d endpointDelegate) Spacing() int { return 1 }

func (d endpointDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d endpointDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(endpointItem)
	if !ok {
		return
	}
	selected := index == m.Index()

	title := "  " + it.Title()
	if selected {
		title = SelectedItemStyle.Render("→ " + it.Title())
	}
	content := title + "\n" + StatusStyle.Render("  "+it.Description())

	cardWidth := min(max(d.width-6, MinTerminalWidth-6), MaxContentWidth-6)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SubtleColor).
		Padding(0, 1).
		MarginLeft(2).
		Width(cardWidth)
	if selected {
		card = card.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, card.Render(content))
}

// PickerModel lets the user choose an autofill listener found over mDNS,
// or type its address.
type PickerModel struct {
	Scanning  bool
	List      list.Model
	Selected  bool
	Cancelled bool
	Err       error

	ManualMode bool
	URLInput   textinput.Model

	Timeout       time.Duration
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          pickerKeyMap
	ManualKeys    manualKeyMap

	browse func(ctx context.Context, timeout time.Duration) ([]autofill.Endpoint, error)
}

// NewPickerModel creates a picker that browses for timeout.
func NewPickerModel(timeout time.Duration) PickerModel {
	if timeout <= 0 {
		timeout = autofill.DefaultBrowseTimeout
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "192.168.1.20:7391"
	urlInput.CharLimit = 256
	urlInput.Width = 40

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	l := list.New([]list.Item{}, endpointDelegate{width: MinTerminalWidth}, 0, 0)
	l.Title = "Autofill listeners"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = TitleStyle

	return PickerModel{
		List:        l,
		URLInput:    urlInput,
		Timeout:     timeout,
		Spinner:     s,
		ProgressBar: bar,
		Help:        help.New(),
		Keys: pickerKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "push here"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter address"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		browse: autofill.Browse,
	}
}

// Init starts the first scan
func (m PickerModel) Init() tea.Cmd {
	return m.startScan()
}

func (m PickerModel) startScan() tea.Cmd {
	browse, timeout := m.browse, m.Timeout
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			endpoints, err := browse(context.Background(), timeout)
			return scanCompleteMsg{endpoints: endpoints, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		if m.List.FilterState() != list.Filtering {
			if model, cmd, handled := m.updateNormalMode(msg); handled {
				return model, cmd
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Help.Width = msg.Width
		m.List.SetDelegate(endpointDelegate{width: msg.Width})
		m.List.SetWidth(msg.Width - 4)
		m.List.SetHeight(max(msg.Height-8, 5))

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()
		return m, nil

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, 0, len(msg.endpoints))
		for _, ep := range msg.endpoints {
			items = append(items, endpointItem{endpoint: ep})
		}
		return m, m.List.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	if !m.ManualMode && !m.Scanning {
		m.List, cmd = m.List.Update(msg)
	}
	return m, cmd
}

// updateNormalMode handles the list screen keys. handled is false for keys
// the list itself should see.
func (m PickerModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Cancelled = true
		return m, tea.Quit, true

	case key.Matches(msg, m.Keys.Enter):
		if m.List.SelectedItem() != nil {
			m.Selected = true
			return m, tea.Quit, true
		}
		return m, nil, true

	case key.Matches(msg, m.Keys.Rescan):
		if m.Scanning {
			return m, nil, true
		}
		m.Err = nil
		return m, tea.Batch(m.List.SetItems(nil), m.startScan()), true

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.URLInput.SetValue("")
		return m, m.URLInput.Focus(), true
	}
	return m, nil, false
}

// updateManualMode handles keyboard input in manual address entry
func (m PickerModel) updateManualMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		value := strings.TrimSpace(m.URLInput.Value())
		if value == "" {
			return m, nil
		}
		item := endpointItem{endpoint: manualEndpoint(value), manual: true}
		cmd := m.List.SetItems(append([]list.Item{item}, m.List.Items()...))
		m.List.Select(0)
		m.ManualMode = false
		m.URLInput.SetValue("")
		m.URLInput.Blur()
		return m, cmd
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// View renders the picker
func (m PickerModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content string
	var helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = m.Help.View(m.Keys)
	default:
		content = m.renderResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m PickerModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := min(1, elapsed.Seconds()/m.Timeout.Seconds())

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR AUTOFILL LISTENERS"),
		SubtitleStyle.Render("Looking for otpview prompts started with --advertise"),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m PickerModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		for _, tip := range autofill.GetTroubleshootingHint(m.Err) {
			b.WriteString("    • " + tip + "\n")
		}

	case len(m.List.Items()) == 0:
		b.WriteString("  ")
		b.WriteString(StatusWarnStyle.Render("⚠ No autofill listeners found"))
		b.WriteString("\n\n")
		for _, tip := range autofill.GetTroubleshootingHint(&autofill.Error{Type: autofill.ErrTypeNotFound}) {
			b.WriteString("    • " + tip + "\n")
		}
		b.WriteString("    • Press m to type the listener address\n")

	default:
		b.WriteString(m.List.View())
	}

	return b.String()
}

func (m PickerModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString(RenderSubtitle("Enter the listener address (host:port or ws:// URL)"))
	b.WriteString("\n\n  Address: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n")
	return b.String()
}

// SelectedEndpoint returns the chosen endpoint, if any
func (m PickerModel) SelectedEndpoint() (autofill.Endpoint, bool) {
	if !m.Selected {
		return autofill.Endpoint{}, false
	}
	it, ok := m.List.SelectedItem().(endpointItem)
	if !ok {
		return autofill.Endpoint{}, false
	}
	return it.endpoint, true
}

// URL returns the websocket URL of the chosen endpoint, or "".
func (m PickerModel) URL() string {
	ep, ok := m.SelectedEndpoint()
	if !ok {
		return ""
	}
	if u := ep.Text["url"]; u != "" {
		return u
	}
	return ep.URL()
}

// manualEndpoint turns a typed address into an endpoint. Full ws:// URLs
// are kept as they are.
func manualEndpoint(addr string) autofill.Endpoint {
	if strings.HasPrefix(addr, "ws://") || strings.HasPrefix(addr, "wss://") {
		return autofill.Endpoint{Instance: addr, Host: addr, Text: map[string]string{"url": addr}}
	}

	host, port := addr, autofill.DefaultListenPort
	if h, p, err := net.SplitHostPort(addr); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}

	return autofill.Endpoint{Instance: addr, Host: host, IP: host, Port: port, Text: map[string]string{}}
}
