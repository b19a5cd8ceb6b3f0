package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/premiere/internal/version"
)

// Application branding constants
const (
	AppName   = "PREMIERE"
	GitHubURL = "github.com/muurk/premiere"

	HeroTitle   = "Cinematic Scripts"
	HeroTagline = "Discover compelling stories from talented writers"
	HeroHint    = "Explore Scripts"

	SectionTitle    = "Featured Scripts"
	SectionSubtitle = "Explore our handpicked selection of exceptional screenplays"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 20
	CardHeight        = 11 // including borders
)

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#D4AF37") // Gold
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	AccentColor    = lipgloss.Color("#B22234") // Crimson
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red

	TextColor      = lipgloss.Color("#F5F0E6") // Ivory
	SubtleColor    = lipgloss.Color("#7A7A7A") // Gray
	BorderColor    = lipgloss.Color("#5C4A1E") // Dim gold
	HighlightColor = lipgloss.Color("#FFD966") // Bright gold
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	HeroTitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(1, 0, 0, 0)

	HeroHintStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(AccentColor).
			Bold(true).
			Padding(0, 2)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ErrorColor)

	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Card styles apply to already-clipped card text.
	CardStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	FocusedCardStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Width(10)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	SceneStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 2)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(lipgloss.Color("238")).
			Padding(0, 2)

	PrimaryButtonStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Background(AccentColor).
				Bold(true).
				Padding(0, 2)

	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true)
)

// RenderError renders an error message
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// BuildHeaderContent creates header content with app name, the catalog source
// and the project URL.
func BuildHeaderContent(source string, live bool) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " v" + AppVersion())

	parts := []string{left}
	if source != "" {
		parts = append(parts, "  ", SubtitleStyle.Render(source))
	}
	if live {
		parts = append(parts, " ", LiveBadgeStyle.Render("● live"))
	}
	parts = append(parts, "  ", lipgloss.NewStyle().Foreground(SubtleColor).Render(GitHubURL))

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// RenderApplicationContainer wraps every screen in the same frame: header,
// content area and a help footer, filling the terminal.
func RenderApplicationContainer(content, header, footerText string, terminalWidth, terminalHeight int) string {
	terminalWidth = max(terminalWidth, MinTerminalWidth)
	terminalHeight = max(terminalHeight, MinTerminalHeight)

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	styledHeader := headerStyle.Render(header)
	styledFooter := footerStyle.Render(footerText)

	// Footer stays pinned to the bottom.
	contentHeight := max(0, terminalHeight-2-lipgloss.Height(styledHeader)-lipgloss.Height(styledFooter))
	styledContent := lipgloss.NewStyle().
		Width(terminalWidth - 4).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	inner := lipgloss.JoinVertical(lipgloss.Left, styledHeader, styledContent, styledFooter)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// RenderModal centers modal content on a dimmed backdrop.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("236")),
	)
}

// SafeModalWidth keeps modals inside the terminal.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	return min(requestedWidth, max(40, terminalWidth-4))
}
