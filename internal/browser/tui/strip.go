package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/carousel"
)

// renderCard draws one card as plain text lines of exactly width cells.
// Styling is applied after clipping so partial cards stay aligned.
func renderCard(p card.Props, width int) []string {
	inner := max(1, width-4)

	row := func(s string) string {
		return "│ " + fitCells(s, inner) + " │"
	}

	lines := []string{
		"╭" + strings.Repeat("─", width-2) + "╮",
		row("[" + p.Genre + "]"),
		row(""),
		row(strings.ToUpper(p.Title)),
		row(p.Duration + " · " + p.Author),
		row(""),
	}
	excerpt := strings.Split(card.Excerpt(p.Description, 2, inner), "\n")
	for len(excerpt) < 2 {
		excerpt = append(excerpt, "")
	}
	for _, l := range excerpt {
		lines = append(lines, row(l))
	}
	lines = append(lines,
		row(""),
		row("▶ Read script"),
		"╰"+strings.Repeat("─", width-2)+"╯",
	)
	return lines
}

// fitCells truncates or pads s to exactly width cells.
func fitCells(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}

// cutCells returns the cells [from, to) of s.
func cutCells(s string, from, to int) string {
	if from >= to {
		return ""
	}
	var b strings.Builder
	pos := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if pos >= from && pos+w <= to {
			b.WriteRune(r)
		}
		pos += w
		if pos >= to {
			break
		}
	}
	return b.String()
}

// renderStrip lays out the visible cards at the carousel's current offset.
// Cards cut by the viewport edges are clipped.
func renderStrip(c *carousel.Carousel, props []card.Props, focus int) string {
	layout := c.Layout()
	first, last := c.Visible()
	if first >= last {
		return ""
	}

	rendered := make(map[int][]string, last-first)
	for i := first; i < last; i++ {
		rendered[i] = renderCard(props[i], layout.CardWidth)
	}

	out := make([]string, CardHeight)
	for line := range out {
		var b strings.Builder
		cursor := 0
		for i := first; i < last; i++ {
			start := c.CardStart(i)
			from := max(0, -start)
			to := min(layout.CardWidth, layout.ViewportWidth-start)
			if from >= to {
				continue
			}
			if lead := start + from - cursor; lead > 0 {
				b.WriteString(strings.Repeat(" ", lead))
			}
			style := CardStyle
			if i == focus {
				style = FocusedCardStyle
			}
			b.WriteString(style.Render(cutCells(rendered[i][line], from, to)))
			cursor = start + to
		}
		out[line] = b.String()
	}
	return strings.Join(out, "\n")
}

// scrollIndicator renders a position marker under the strip, e.g. "◀ 2/4 ▶".
func scrollIndicator(c *carousel.Carousel, focus int) string {
	n := c.Count()
	if n == 0 {
		return ""
	}
	left, right := "◁", "▷"
	if c.Target() > 0 {
		left = "◀"
	}
	if c.Target() < c.Layout().MaxOffset(n) {
		right = "▶"
	}
	return fmt.Sprintf("%s %d/%d %s", left, focus+1, n, right)
}
