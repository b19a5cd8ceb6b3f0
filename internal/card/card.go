// Package card defines the display contract of a script card: the summary of
// one catalog record shown in the carousel.
package card

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/muurk/premiere/internal/catalog"
)

// Props is everything a card shows. The full script text is deliberately
// absent; it only appears in the modal.
type Props struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	Duration    string `json:"duration"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// FromRecord maps a record onto the card contract field by field.
func FromRecord(r catalog.Record) Props {
	return Props{
		ID:          r.ID,
		Title:       r.Title,
		Genre:       r.Genre,
		Duration:    r.Duration,
		Author:      r.Author,
		Description: r.Description,
		Image:       r.Image,
	}
}

// FromCatalog maps every record of c, in order.
func FromCatalog(c *catalog.Catalog) []Props {
	records := c.All()
	out := make([]Props, len(records))
	for i, r := range records {
		out[i] = FromRecord(r)
	}
	return out
}

// Card is a stateless view of one record. Activating it emits the
// selection signal and nothing else.
type Card struct {
	Props    Props
	OnSelect func()
}

// New creates a card for r that calls onSelect when activated.
func New(r catalog.Record, onSelect func()) Card {
	return Card{Props: FromRecord(r), OnSelect: onSelect}
}

// Activate emits the selection signal.
func (c Card) Activate() {
	if c.OnSelect != nil {
		c.OnSelect()
	}
}

// Excerpt word-wraps desc to width cells and keeps at most lines lines,
// ending a clamped excerpt with an ellipsis.
func Excerpt(desc string, lines, width int) string {
	if lines <= 0 || width <= 0 {
		return ""
	}

	words := strings.Fields(desc)
	var out []string
	var cur string

	for _, w := range words {
		switch {
		case cur == "":
			cur = w
		case runewidth.StringWidth(cur)+1+runewidth.StringWidth(w) <= width:
			cur += " " + w
		default:
			out = append(out, cur)
			cur = w
		}
	}
	if cur != "" {
		out = append(out, cur)
	}

	for i := range out {
		out[i] = runewidth.Truncate(out[i], width, "…")
	}

	if len(out) <= lines {
		return strings.Join(out, "\n")
	}

	out = out[:lines]
	last := out[lines-1]
	if runewidth.StringWidth(last)+1 > width {
		last = runewidth.Truncate(last, width-1, "")
	}
	last += "…"
	out[lines-1] = last
	return strings.Join(out, "\n")
}
