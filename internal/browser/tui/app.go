package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/client"
	"github.com/muurk/premiere/internal/config"
	"github.com/muurk/premiere/internal/discovery"
	"github.com/muurk/premiere/internal/logging"
	"github.com/muurk/premiere/internal/login"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenLogin     Screen = "login"
	ScreenLibrary   Screen = "library"
	ScreenDiscovery Screen = "discovery"
)

// libraryLoadedMsg reports the outcome of connecting to a library.
type libraryLoadedMsg struct {
	name    string
	url     string
	catalog *catalog.Catalog
	updates <-chan *catalog.Catalog
	err     error
}

// Options configures the browser.
type Options struct {
	// Catalog is shown unless discovery picks another library.
	Catalog *catalog.Catalog
	// Source labels where Catalog came from.
	Source string
	// Updates delivers reloaded snapshots of Catalog.
	Updates <-chan *catalog.Catalog

	CardWidth int
	Gap       int

	SkipLogin       bool
	DefaultUsername string
	// OnLogin receives the raw credentials typed on the login screen.
	OnLogin login.Callback

	// Discover shows the discovery screen after login.
	Discover        bool
	DiscoverTimeout time.Duration
	Scan            ScanFunc
	Connect         ConnectFunc

	// Context bounds library connections.
	Context context.Context
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	LoginModel     LoginModel
	LibraryModel   LibraryModel
	DiscoveryModel DiscoveryModel

	Username    string
	LibraryName string
	LibraryURL  string
	Connecting  bool

	opts    Options
	updates <-chan *catalog.Catalog

	Width  int
	Height int
}

// NewAppModel creates the browser with defaults filled in from opts.
func NewAppModel(opts Options) AppModel {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
		if opts.Source == "" {
			opts.Source = "built-in catalog"
		}
	}
	if opts.CardWidth <= 0 {
		opts.CardWidth = config.DefaultCardWidth
		if opts.Gap == 0 {
			opts.Gap = config.DefaultGap
		}
	}
	if opts.Gap < 0 {
		opts.Gap = config.DefaultGap
	}
	if opts.DiscoverTimeout <= 0 {
		opts.DiscoverTimeout = discovery.DefaultScanTimeout
	}
	if opts.Scan == nil {
		timeout := opts.DiscoverTimeout
		opts.Scan = func(ctx context.Context) ([]*discovery.Library, error) {
			s := discovery.NewScanner()
			s.Timeout = timeout
			return s.ScanForLibraries(ctx)
		}
	}
	if opts.Connect == nil {
		opts.Connect = ConnectLibrary
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := AppModel{
		opts:           opts,
		updates:        opts.Updates,
		LoginModel:     NewLoginModel(opts.OnLogin, opts.DefaultUsername),
		LibraryModel:   NewLibraryModel(opts.Catalog, opts.CardWidth, opts.Gap),
		DiscoveryModel: NewDiscoveryModel(opts.Scan, opts.DiscoverTimeout),
	}
	m.LibraryModel.Source = opts.Source
	m.LibraryModel.Live = opts.Updates != nil

	switch {
	case !opts.SkipLogin:
		m.CurrentScreen = ScreenLogin
	case opts.Discover:
		m.CurrentScreen = ScreenDiscovery
	default:
		m.CurrentScreen = ScreenLibrary
	}
	return m
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	var cmd tea.Cmd
	switch m.CurrentScreen {
	case ScreenLogin:
		cmd = m.LoginModel.Init()
	case ScreenDiscovery:
		cmd = m.DiscoveryModel.Init()
	case ScreenLibrary:
		cmd = m.LibraryModel.Init()
	}
	return tea.Batch(cmd, waitForCatalog(m.updates))
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		var cmd tea.Cmd
		m.LoginModel, _ = m.LoginModel.Update(msg)
		m.DiscoveryModel, _ = m.DiscoveryModel.Update(msg)
		m.LibraryModel, cmd = m.LibraryModel.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case loginDoneMsg:
		m.Username = msg.username
		logging.Debug("Login submitted", zap.String("username", msg.username))
		if m.opts.Discover {
			return m.transitionTo(ScreenDiscovery)
		}
		return m.transitionTo(ScreenLibrary)

	case libraryChosenMsg:
		m.Connecting = true
		return m, m.connect(msg.name, msg.url)

	case libraryLoadedMsg:
		m.Connecting = false
		if msg.err != nil {
			m.DiscoveryModel.Err = msg.err
			return m, nil
		}
		m.LibraryName, m.LibraryURL = msg.name, msg.url
		m.LibraryModel.Reload(msg.catalog)
		m.LibraryModel.Source = msg.name
		m.LibraryModel.Live = msg.updates != nil
		m.updates = msg.updates
		next, cmd := m.transitionTo(ScreenLibrary)
		return next, tea.Batch(cmd, waitForCatalog(msg.updates))

	case catalogUpdateMsg:
		m.LibraryModel.Reload(msg.catalog)
		return m, waitForCatalog(m.updates)

	case feedClosedMsg:
		m.LibraryModel.Live = false
		m.updates = nil
		return m, nil
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenLogin:
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			return m, tea.Quit
		}
		m.LoginModel, cmd = m.LoginModel.Update(msg)

	case ScreenDiscovery:
		if k, ok := msg.(tea.KeyMsg); ok && !m.DiscoveryModel.ManualMode && !m.Connecting {
			if k.String() == "q" || k.String() == "esc" {
				return m, tea.Quit
			}
		}
		if m.Connecting {
			if _, ok := msg.(tea.KeyMsg); ok {
				return m, nil
			}
		}
		m.DiscoveryModel, cmd = m.DiscoveryModel.Update(msg)

	case ScreenLibrary:
		if k, ok := msg.(tea.KeyMsg); ok && !m.LibraryModel.Controller.Viewing() {
			if k.String() == "q" || k.String() == "esc" {
				return m, tea.Quit
			}
		}
		m.LibraryModel, cmd = m.LibraryModel.Update(msg)
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen

	switch screen {
	case ScreenDiscovery:
		m.DiscoveryModel = NewDiscoveryModel(m.opts.Scan, m.opts.DiscoverTimeout)
		m.DiscoveryModel, _ = m.DiscoveryModel.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
		return m, m.DiscoveryModel.Init()
	case ScreenLibrary:
		return m, m.LibraryModel.Init()
	}
	return m, nil
}

func (m AppModel) connect(name, url string) tea.Cmd {
	ctx, connect := m.opts.Context, m.opts.Connect
	return func() tea.Msg {
		cat, updates, err := connect(ctx, url)
		if err != nil {
			logging.Warn("Failed to load library", zap.String("url", url), zap.Error(err))
			err = friendlyError(err)
		}
		return libraryLoadedMsg{name: name, url: url, catalog: cat, updates: updates, err: err}
	}
}

// friendlyError shortens client errors for display.
func friendlyError(err error) error {
	return errors.New(client.ShortMessage(err))
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenLogin:
		return m.LoginModel.View()
	case ScreenDiscovery:
		if m.Connecting {
			return RenderApplicationContainer(
				"\n  "+SpinnerStyle.Render("Connecting to library..."),
				BuildHeaderContent("discovery", false), "", m.Width, m.Height)
		}
		return m.DiscoveryModel.View()
	case ScreenLibrary:
		return m.LibraryModel.View()
	default:
		return "Unknown screen"
	}
}
