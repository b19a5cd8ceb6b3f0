package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/discovery"
)

// Printer writes styled, non-interactive output.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer that writes to w.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width.
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

// Width returns the width used for rendering
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Field) {
	p.Println(RenderHeader(title, command, params, p.width))
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Field) {
	r := &Result{Type: ResultSuccess, Title: title, Details: details}
	p.Println(r.Render(p.width))
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Field) {
	r := &Result{Type: ResultWarning, Title: title, Details: details}
	p.Println(r.Render(p.width))
}

// PrintError prints an error result box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, hints ...string) {
	r := &Result{Type: ResultFailure, Title: title, Error: err, Hints: hints}
	p.Println(r.Render(p.width))
}

// PrintCatalog prints one row per script in catalog order.
func (p *Printer) PrintCatalog(c *catalog.Catalog) {
	p.Println(RenderCatalogTable(card.FromCatalog(c), p.width))
}

// PrintScript prints a script's header and its full text.
func (p *Printer) PrintScript(r catalog.Record) {
	p.Println(RenderScript(r, p.width))
}

// PrintLibraries prints discovered libraries.
func (p *Printer) PrintLibraries(libs []*discovery.Library) {
	if len(libs) == 0 {
		p.Println(HintItemStyle.Render("  No libraries found."))
		return
	}
	rows := make([][]string, 0, len(libs))
	for _, l := range libs {
		scripts := "?"
		if n := l.ScriptCount(); n >= 0 {
			scripts = fmt.Sprint(n)
		}
		rows = append(rows, []string{l.Name, l.BaseURL(), scripts, l.GetMetadata(discovery.TXTVersion)})
	}
	p.Println(renderTable([]string{"NAME", "URL", "SCRIPTS", "VERSION"}, rows))
}

// RenderCatalogTable renders script summaries as an aligned table. The
// description column is cut to fit width.
func RenderCatalogTable(props []card.Props, width int) string {
	rows := make([][]string, 0, len(props))
	fixed := 0
	for _, c := range props {
		row := []string{c.ID, c.Title, c.Genre, c.Duration, c.Author}
		rows = append(rows, row)
		fixed = max(fixed, rowWidth(row))
	}

	descWidth := max(10, width-fixed-2*5)
	for i, c := range props {
		rows[i] = append(rows[i], card.Excerpt(c.Description, 1, descWidth))
	}
	return renderTable([]string{"ID", "TITLE", "GENRE", "LENGTH", "AUTHOR", "LOGLINE"}, rows)
}

func rowWidth(row []string) int {
	w := 0
	for _, cell := range row {
		w += lipgloss.Width(cell)
	}
	return w
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(ColumnHeaderStyle.Render(padRight(h, widths[i])))
		if i < len(headers)-1 {
			b.WriteString("  ")
		}
	}
	for _, row := range rows {
		b.WriteString("\n")
		for i, cell := range row {
			if i < len(row)-1 {
				cell = padRight(cell, widths[i]) + "  "
			}
			b.WriteString(ResultValueStyle.Render(cell))
		}
	}
	return b.String()
}

// RenderScript renders a record as markdown through glamour: badges, title,
// logline, then the screenplay in a preformatted block.
func RenderScript(r catalog.Record, width int) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", r.Title)
	fmt.Fprintf(&md, "`%s` · %s · by %s\n\n", r.Genre, r.Duration, r.Author)
	if r.Description != "" {
		fmt.Fprintf(&md, "> %s\n\n", r.Description)
	}
	if r.Content != "" {
		fmt.Fprintf(&md, "```\n%s\n```\n", r.Content)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return md.String()
	}
	out, err := renderer.Render(md.String())
	if err != nil {
		return md.String()
	}
	return out
}
