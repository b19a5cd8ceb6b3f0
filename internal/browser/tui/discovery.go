package tui

import (
	"context"
	"fmt"
	"io"
	"net/url"
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

	"github.com/muurk/premiere/internal/discovery"
)

// ScanFunc browses the network for libraries.
type ScanFunc func(ctx context.Context) ([]*discovery.Library, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	libraries []*discovery.Library
	err       error
}

// libraryChosenMsg is sent when the user picks a library or enters a URL.
type libraryChosenMsg struct {
	name string
	url  string
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual URL entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (m manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{m.Confirm, m.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (m manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{m.Confirm, m.Cancel}}
}

// libraryItem wraps a Library for use with bubbles/list
type libraryItem struct {
	library *discovery.Library
}

func (i libraryItem) FilterValue() string {
	return i.library.Name + " " + i.library.IP + " " + i.library.Hostname
}

func (i libraryItem) Title() string { return i.library.Name }

func (i libraryItem) Description() string {
	return i.library.BaseURL()
}

// libraryDelegate renders one library per row.
type libraryDelegate struct{}

func (d libraryDelegate) Height() int { return 2 }

func (d libraryDelegate) Spacing() int { return 1 }

func (d libraryDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d libraryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	li, ok := item.(libraryItem)
	if !ok {
		return
	}
	lib := li.library

	scripts := "unknown"
	if n := lib.ScriptCount(); n >= 0 {
		scripts = fmt.Sprintf("%d scripts", n)
	}
	detail := fmt.Sprintf("    %s • %s", lib.BaseURL(), scripts)
	if v := lib.GetMetadata(discovery.TXTVersion); v != "" {
		detail += " • v" + v
	}

	title := "  " + lib.Name
	if index == m.Index() {
		title = SelectedMenuItemStyle.Render("→ " + lib.Name)
	}
	fmt.Fprint(w, title+"\n"+SubtitleStyle.Render(detail))
}

// DiscoveryModel is the library discovery screen
type DiscoveryModel struct {
	Scanning    bool
	LibraryList list.Model
	Err         error

	ManualMode bool
	URLInput   textinput.Model

	Scan    ScanFunc
	Timeout time.Duration

	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
}

// NewDiscoveryModel creates a new discovery screen model. Scans give up
// after timeout.
func NewDiscoveryModel(scan ScanFunc, timeout time.Duration) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	urlInput := textinput.New()
	urlInput.Placeholder = "http://192.168.1.20:8080"
	urlInput.CharLimit = 256
	urlInput.Width = 40

	progressBar := progress.New(progress.WithGradient("#5C4A1E", "#D4AF37"))
	progressBar.Width = 40

	libraryList := list.New([]list.Item{}, libraryDelegate{}, 0, 0)
	libraryList.Title = "Script Libraries"
	libraryList.SetShowStatusBar(false)
	libraryList.SetShowHelp(false)
	libraryList.SetFilteringEnabled(false)
	libraryList.Styles.Title = TitleStyle

	return DiscoveryModel{
		LibraryList: libraryList,
		URLInput:    urlInput,
		Scan:        scan,
		Timeout:     timeout,
		Spinner:     s,
		ProgressBar: progressBar,
		Help:        help.New(),
		Keys: discoveryKeyMap{
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
				key.WithHelp("enter", "open"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "enter URL"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
	}
}

// Init starts scanning immediately.
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	scan, timeout := m.Scan, m.Timeout
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		func() tea.Msg {
			if scan == nil {
				return scanCompleteMsg{}
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			libs, err := scan(ctx)
			return scanCompleteMsg{libraries: libs, err: err}
		},
		m.Spinner.Tick,
	)
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (DiscoveryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		if m.Scanning {
			if key.Matches(msg, m.Keys.Manual) {
				return m.enterManualMode(), nil
			}
			return m, nil
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.LibraryList.SetWidth(max(20, msg.Width-4))
		m.LibraryList.SetHeight(max(5, msg.Height-10))

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		items := make([]list.Item, len(msg.libraries))
		for i, lib := range msg.libraries {
			items[i] = libraryItem{library: lib}
		}
		m.LibraryList.SetItems(items)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Enter):
		if item, ok := m.LibraryList.SelectedItem().(libraryItem); ok {
			lib := item.library
			return m, func() tea.Msg { return libraryChosenMsg{name: lib.Name, url: lib.BaseURL()} }
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.LibraryList.SetItems([]list.Item{})
		m.Err = nil
		return m, m.startScan()

	case key.Matches(msg, m.Keys.Manual):
		return m.enterManualMode(), nil
	}

	var cmd tea.Cmd
	m.LibraryList, cmd = m.LibraryList.Update(msg)
	return m, cmd
}

func (m DiscoveryModel) enterManualMode() DiscoveryModel {
	m.ManualMode = true
	m.URLInput.SetValue("")
	m.URLInput.Focus()
	return m
}

func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.URLInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		raw := strings.TrimSpace(m.URLInput.Value())
		if raw == "" {
			return m, nil
		}
		base, err := normalizeURL(raw)
		if err != nil {
			m.Err = err
			return m, nil
		}
		m.Err = nil
		m.ManualMode = false
		m.URLInput.Blur()
		return m, func() tea.Msg { return libraryChosenMsg{name: base, url: base} }
	}

	var cmd tea.Cmd
	m.URLInput, cmd = m.URLInput.Update(msg)
	return m, cmd
}

// normalizeURL accepts "host:port" or a full http(s) URL.
func normalizeURL(raw string) (string, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid library URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid library URL: unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid library URL: missing host")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := max(m.Width, MinTerminalWidth)

	var content, helpText string
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

	return RenderApplicationContainer(content, BuildHeaderContent("discovery", false), helpText, m.Width, m.Height)
}

func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)
	fraction := 1.0
	if m.Timeout > 0 {
		fraction = min(1.0, elapsed.Seconds()/m.Timeout.Seconds())
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(m.Spinner.View()+" SEARCHING FOR LIBRARIES"),
		"",
		SubtitleStyle.Render("Browsing "+discovery.ServiceType+" on your network..."),
		"",
		m.ProgressBar.ViewAs(fraction),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %ds", int(elapsed.Seconds()))),
		"",
	)
	return lipgloss.Place(width-4, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m DiscoveryModel) renderResults() string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case m.Err != nil:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString(troubleshooting)

	case len(m.LibraryList.Items()) == 0:
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("⚠ No libraries found on your network"))
		b.WriteString("\n\n")
		b.WriteString(troubleshooting)

	default:
		b.WriteString(m.LibraryList.View())
	}

	return b.String()
}

const troubleshooting = `  Troubleshooting:
    • Start a library with 'premiere-server server'
    • Check the server was not started with --no-advertise
    • Multicast DNS may be blocked on this network; press 'm' to enter a URL
`

func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render("  Enter the library address"))
	b.WriteString("\n\n")
	b.WriteString("  URL: ")
	b.WriteString(m.URLInput.View())
	b.WriteString("\n")
	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(RenderError(m.Err.Error()))
	}
	return b.String()
}
