package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/premiere/internal/login"
	"github.com/muurk/premiere/internal/scene"
)

const sceneInterval = 80 * time.Millisecond

type sceneTickMsg struct{}

// loginDoneMsg is sent after the form has been submitted.
type loginDoneMsg struct {
	username string
}

func sceneTick() tea.Cmd {
	return tea.Tick(sceneInterval, func(time.Time) tea.Msg {
		return sceneTickMsg{}
	})
}

// loginKeyMap defines key bindings for the login screen
type loginKeyMap struct {
	Next   key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Next, k.Submit, k.Quit}}
}

// LoginModel is the decorative sign-in screen drawn over the marquee scene.
// It forwards whatever was typed to the form callback and never judges it.
type LoginModel struct {
	Inputs []textinput.Model
	Focus  int
	Form   *login.Form

	// T is the scene clock in seconds.
	T float64

	Width  int
	Height int

	Help help.Model
	Keys loginKeyMap
}

// NewLoginModel creates the login screen. The callback receives the raw
// username and password on submit.
func NewLoginModel(cb login.Callback, username string) LoginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.Prompt = "› "
	user.CharLimit = 0
	user.Width = 28
	user.SetValue(username)

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = "› "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 0
	pass.Width = 28

	m := LoginModel{
		Inputs: []textinput.Model{user, pass},
		Form:   login.NewForm(cb),
		Help:   help.New(),
		Keys: loginKeyMap{
			Next: key.NewBinding(
				key.WithKeys("tab", "shift+tab", "up", "down"),
				key.WithHelp("tab", "switch field"),
			),
			Submit: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "sign in"),
			),
			Quit: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "quit"),
			),
		},
	}
	if username != "" {
		m.Focus = 1
	}
	m.focusInputs()
	return m
}

// Init starts the cursor blink and the scene clock.
func (m LoginModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, sceneTick())
}

// Update handles messages and updates the model
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil

	case sceneTickMsg:
		m.T += sceneInterval.Seconds()
		return m, sceneTick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Next):
			m.Focus = (m.Focus + 1) % len(m.Inputs)
			m.focusInputs()
			return m, nil

		case key.Matches(msg, m.Keys.Submit):
			if m.Focus < len(m.Inputs)-1 {
				m.Focus++
				m.focusInputs()
				return m, nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.Inputs[m.Focus], cmd = m.Inputs[m.Focus].Update(msg)
	return m, cmd
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	username := m.Inputs[0].Value()
	m.Form.SetUsername(username)
	m.Form.SetPassword(m.Inputs[1].Value())
	m.Form.Submit()

	m.Inputs[1].SetValue("")
	m.Form.Reset()

	return m, func() tea.Msg { return loginDoneMsg{username: username} }
}

func (m *LoginModel) focusInputs() {
	for i := range m.Inputs {
		if i == m.Focus {
			m.Inputs[i].Focus()
			m.Inputs[i].PromptStyle = FocusedInputStyle
			m.Inputs[i].TextStyle = FocusedInputStyle
		} else {
			m.Inputs[i].Blur()
			m.Inputs[i].PromptStyle = BlurredInputStyle
			m.Inputs[i].TextStyle = BlurredInputStyle
		}
	}
}

// View renders the login panel centered over the animated scene.
func (m LoginModel) View() string {
	width := max(m.Width, MinTerminalWidth)
	height := max(m.Height, MinTerminalHeight)

	panel := lipgloss.JoinVertical(lipgloss.Center,
		TitleStyle.Render("🎬 "+AppName),
		SubtitleStyle.Render("Sign in to the script library"),
		"",
		LabelStyle.Render("Username")+m.Inputs[0].View(),
		LabelStyle.Render("Password")+m.Inputs[1].View(),
		"",
		PrimaryButtonStyle.Render("Sign In"),
		"",
		SubtitleStyle.Render(m.Help.View(m.Keys)),
	)
	panel = ModalStyle.Padding(1, 3).Render(panel)

	backdrop := SceneStyle.Render(strings.Join(scene.Frame(m.T, width, height), "\n"))

	return overlay(backdrop, panel, width, height)
}

// overlay places fg in the center of bg, line by line.
func overlay(bg, fg string, width, height int) string {
	bgLines := strings.Split(bg, "\n")
	fgLines := strings.Split(fg, "\n")

	top := max(0, (height-len(fgLines))/2)
	fgWidth := lipgloss.Width(fg)
	left := max(0, (width-fgWidth)/2)

	for i, l := range fgLines {
		row := top + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = strings.Repeat(" ", left) + l
	}
	return strings.Join(bgLines, "\n")
}
