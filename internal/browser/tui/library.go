package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/carousel"
	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/logging"
	"github.com/muurk/premiere/internal/page"
)

// carouselFrameMsg advances the scroll animation by one frame.
type carouselFrameMsg struct{}

func carouselFrame() tea.Cmd {
	return tea.Tick(time.Second/carousel.FPS, func(time.Time) tea.Msg {
		return carouselFrameMsg{}
	})
}

// libraryKeyMap defines key bindings for the library screen
type libraryKeyMap struct {
	Left   key.Binding
	Right  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Select key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k libraryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Next, k.Select, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k libraryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right},
		{k.Next, k.Prev, k.Select, k.Quit},
	}
}

// modalKeyMap defines key bindings while a script is open
type modalKeyMap struct {
	Scroll key.Binding
	Page   key.Binding
	Close  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k modalKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.Page, k.Close}
}

// FullHelp returns keybindings for the expanded help view
func (k modalKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Scroll, k.Page, k.Close}}
}

// LibraryModel is the script library page: hero banner, card carousel and
// the script modal.
type LibraryModel struct {
	Catalog    *catalog.Catalog
	Carousel   *carousel.Carousel
	Controller *page.Controller
	Focus      int

	// Source describes where the catalog came from; Live is set while a
	// reload feed is attached.
	Source string
	Live   bool

	Width  int
	Height int

	animating bool
	modal     viewport.Model
	header    string

	Help      help.Model
	Keys      libraryKeyMap
	ModalKeys modalKeyMap
}

// NewLibraryModel creates the library page over cat with cards cardWidth
// cells wide and gap cells apart.
func NewLibraryModel(cat *catalog.Catalog, cardWidth, gap int) LibraryModel {
	if cat == nil {
		cat = catalog.Default()
	}
	layout := carousel.Layout{CardWidth: cardWidth, Gap: gap, ViewportWidth: MinTerminalWidth - 4}

	keys := libraryKeyMap{
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "scroll left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "scroll right"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next card"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous card"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "read script"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	modalKeys := modalKeyMap{
		Scroll: key.NewBinding(
			key.WithKeys("up", "down", "k", "j"),
			key.WithHelp("↑/↓", "scroll"),
		),
		Page: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("pgup/pgdn", "page"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "close"),
		),
	}

	return LibraryModel{
		Catalog:    cat,
		Carousel:   carousel.New(layout, cat.Len()),
		Controller: page.NewController(),
		modal:      viewport.New(0, 0),
		Help:       help.New(),
		Keys:       keys,
		ModalKeys:  modalKeys,
	}
}

// Init implements tea.Model.
func (m LibraryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m LibraryModel) Update(msg tea.Msg) (LibraryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Carousel.Resize(max(MinTerminalWidth, msg.Width) - 4)
		m.Carousel.Reveal(m.Focus)
		m.Carousel.Jump()
		m.sizeModal()
		return m, nil

	case carouselFrameMsg:
		if m.Carousel.Tick() {
			return m, carouselFrame()
		}
		m.animating = false
		return m, nil

	case catalogUpdateMsg:
		m.Reload(msg.catalog)
		return m, nil

	case tea.KeyMsg:
		if m.Controller.Viewing() {
			return m.updateModal(msg)
		}
		return m.updateStrip(msg)
	}

	return m, nil
}

func (m LibraryModel) updateStrip(msg tea.KeyMsg) (LibraryModel, tea.Cmd) {
	n := m.Catalog.Len()

	switch {
	case key.Matches(msg, m.Keys.Left):
		m.Carousel.ScrollLeft()
		m.Focus = m.focusInView()
	case key.Matches(msg, m.Keys.Right):
		m.Carousel.ScrollRight()
		m.Focus = m.focusInView()
	case key.Matches(msg, m.Keys.Next):
		if n > 0 {
			m.Focus = (m.Focus + 1) % n
			m.Carousel.Reveal(m.Focus)
		}
	case key.Matches(msg, m.Keys.Prev):
		if n > 0 {
			m.Focus = (m.Focus - 1 + n) % n
			m.Carousel.Reveal(m.Focus)
		}
	case key.Matches(msg, m.Keys.Select):
		m.Carousel.Select(m.Focus, func(i int) {
			m.Controller.Select(m.Catalog.At(i))
		})
		if m.Controller.Viewing() {
			m.openModal()
		}
		return m, nil
	default:
		return m, nil
	}

	cmd := m.animate()
	return m, cmd
}

func (m LibraryModel) updateModal(msg tea.KeyMsg) (LibraryModel, tea.Cmd) {
	if key.Matches(msg, m.ModalKeys.Close) {
		m.Controller.Close()
		return m, nil
	}
	var cmd tea.Cmd
	m.modal, cmd = m.modal.Update(msg)
	return m, cmd
}

// animate starts the frame ticker unless one is already running.
func (m *LibraryModel) animate() tea.Cmd {
	if m.animating || m.Carousel.Settled() {
		return nil
	}
	m.animating = true
	return carouselFrame()
}

// focusInView keeps the focused card inside the scroll target's window.
func (m LibraryModel) focusInView() int {
	n := m.Catalog.Len()
	if n == 0 {
		return 0
	}
	l := m.Carousel.Layout()
	step := l.Step()
	target := m.Carousel.Target()

	first := (target + step - 1) / step
	last := (target + l.ViewportWidth - l.CardWidth) / step
	last = min(n-1, max(first, last))
	return max(first, min(last, m.Focus))
}

// Reload swaps in a new catalog snapshot. An open modal keeps showing the
// record it was opened with.
func (m *LibraryModel) Reload(cat *catalog.Catalog) {
	if cat == nil {
		return
	}
	m.Catalog = cat
	m.Carousel.SetCount(cat.Len())
	m.Focus = max(0, min(m.Focus, cat.Len()-1))
	logging.Debug("Catalog reloaded", zap.Int("scripts", cat.Len()))
}

func (m *LibraryModel) modalSize() (int, int) {
	w := SafeModalWidth(90, max(m.Width, MinTerminalWidth))
	h := max(MinTerminalHeight, m.Height) - 4
	return w, h
}

func (m *LibraryModel) sizeModal() {
	w, h := m.modalSize()
	bodyHeight := max(3, h-4-lipgloss.Height(m.header)-2)
	m.modal.Width = w - 6
	m.modal.Height = bodyHeight
}

func (m *LibraryModel) openModal() {
	view, ok := page.ProjectModal(m.Controller.State())
	if !ok {
		return
	}
	w, _ := m.modalSize()
	m.header = renderMarkdown(view.Markdown(), w-6)
	m.sizeModal()
	m.modal.SetContent(TitleStyle.Render(page.PreviewHeading) + "\n\n" + view.Content)
	m.modal.GotoTop()
}

// renderMarkdown renders md with glamour, falling back to the raw text.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(max(20, width)),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.Trim(out, "\n")
}

// View renders the library page, with the modal on top when one is open.
func (m LibraryModel) View() string {
	if view, ok := page.ProjectModal(m.Controller.State()); ok {
		return m.renderModal(view)
	}

	header := BuildHeaderContent(m.Source, m.Live)
	return RenderApplicationContainer(m.renderPage(), header, m.Help.View(m.Keys), m.Width, m.Height)
}

func (m LibraryModel) renderPage() string {
	width := max(m.Width, MinTerminalWidth) - 4

	hero := lipgloss.JoinVertical(lipgloss.Center,
		HeroTitleStyle.Render(HeroTitle),
		SubtitleStyle.Render(HeroTagline),
		"",
		HeroHintStyle.Render(HeroHint+" ↓"),
		"",
	)
	hero = lipgloss.PlaceHorizontal(width, lipgloss.Center, hero)

	if m.Catalog.Len() == 0 {
		empty := WarningStyle.Render("⚠ This library has no scripts yet")
		return lipgloss.JoinVertical(lipgloss.Left, hero, lipgloss.PlaceHorizontal(width, lipgloss.Center, empty))
	}

	section := lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.JoinVertical(lipgloss.Center,
		TitleStyle.Render(SectionTitle),
		SubtitleStyle.Render(SectionSubtitle),
	))

	strip := renderStrip(m.Carousel, card.FromCatalog(m.Catalog), m.Focus)
	indicator := lipgloss.PlaceHorizontal(width, lipgloss.Center,
		SubtitleStyle.Render(scrollIndicator(m.Carousel, m.Focus)))

	return lipgloss.JoinVertical(lipgloss.Left, hero, section, "", strip, "", indicator)
}

func (m LibraryModel) renderModal(view page.ModalView) string {
	w, _ := m.modalSize()

	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		PrimaryButtonStyle.Render("⬇ "+view.Actions[0]),
		"  ",
		ButtonStyle.Render(view.Actions[1]),
	)

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.header,
		"",
		m.modal.View(),
		"",
		buttons,
		SubtitleStyle.Render(m.Help.View(m.ModalKeys)),
	)

	return RenderModal(ModalStyle.Width(w-2).Render(body), max(m.Width, MinTerminalWidth), max(m.Height, MinTerminalHeight))
}
