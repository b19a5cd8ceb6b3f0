package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled value in a header or result box. Fields render in
// the order given.
type Field struct {
	Key   string
	Value string
}

// F is shorthand for a Field literal.
func F(key, value string) Field {
	return Field{Key: key, Value: value}
}

// RenderHeader renders a command banner: title, command line and parameters.
func RenderHeader(title, command string, params []Field, width int) string {
	width = max(width, MinTerminalWidth)

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(title)),
		HeaderCommandStyle.Render(command),
	)

	if len(params) == 0 {
		return BorderStyle(width).Render(top)
	}

	keyWidth := 0
	for _, p := range params {
		keyWidth = max(keyWidth, lipgloss.Width(p.Key)+1)
	}

	lines := make([]string, 0, len(params))
	for _, p := range params {
		key := ParamKeyStyle.Render(padRight(p.Key+":", keyWidth))
		lines = append(lines, key+" "+ParamValueStyle.Render(p.Value))
	}

	divider := RenderHorizontalDivider(max(10, width-6), "─")
	content := lipgloss.JoinVertical(lipgloss.Left, top, divider, strings.Join(lines, "\n"))
	return BorderStyle(width).Render(content)
}

func padRight(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}
