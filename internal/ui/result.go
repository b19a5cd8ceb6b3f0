package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType indicates success or failure
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result is a success, failure or warning box.
type Result struct {
	Type    ResultType
	Title   string
	Details []Field
	Error   error
	Hints   []string // Troubleshooting tips (failure results)
}

// Render returns the styled result box at the given width.
func (r *Result) Render(width int) string {
	width = max(width, MinTerminalWidth)

	var (
		titleStyle lipgloss.Style
		color      lipgloss.Color
		label      string
	)
	switch r.Type {
	case ResultFailure:
		titleStyle, color, label = ErrorTitleStyle, ErrorColor, FailureMarker+"  FAILED"
	case ResultWarning:
		titleStyle, color, label = WarningTitleStyle, WarningColor, WarningMarker+"  WARNING"
	default:
		titleStyle, color, label = SuccessTitleStyle, SuccessColor, SuccessMarker+"  SUCCESS"
	}

	lines := []string{titleStyle.Render(label + "  ─  " + r.Title), ""}

	if r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("Error: "+r.Error.Error()), "")
	}

	for _, d := range r.Details {
		lines = append(lines, ResultKeyStyle.Render(d.Key+":")+" "+ResultValueStyle.Render(d.Value))
	}
	if len(r.Details) > 0 {
		lines = append(lines, "")
	}

	if len(r.Hints) > 0 {
		hint := []string{HintTitleStyle.Render("Troubleshooting:"), ""}
		for _, tip := range r.Hints {
			hint = append(hint, HintItemStyle.Render("• "+tip))
		}
		lines = append(lines, HintBoxStyle(width).Render(strings.Join(hint, "\n")))
	}

	return ResultBoxStyle(width, color).Render(strings.TrimRight(strings.Join(lines, "\n"), "\n"))
}
