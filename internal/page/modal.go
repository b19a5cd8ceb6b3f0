package page

import (
	"fmt"
	"strings"
)

// Modal action labels.
const (
	ActionDownload = "Download Script"
	ActionShare    = "Share"
	PreviewHeading = "Script Preview"
)

// ModalView is everything the script modal displays.
type ModalView struct {
	ID          string
	Title       string
	Genre       string
	Duration    string
	Author      string
	Description string
	Content     string
	Actions     []string
}

// ProjectModal derives the modal from the page state. It returns false when
// there is nothing to show, in which case the modal renders nothing.
func ProjectModal(s State) (ModalView, bool) {
	if s.Selected == nil || !s.IsOpen {
		return ModalView{}, false
	}
	r := s.Selected
	return ModalView{
		ID:          r.ID,
		Title:       r.Title,
		Genre:       r.Genre,
		Duration:    r.Duration,
		Author:      r.Author,
		Description: r.Description,
		Content:     r.Content,
		Actions:     []string{ActionDownload, ActionShare},
	}, true
}

// Markdown renders the modal header (badges, title and description) as a
// markdown document for terminal renderers.
func (v ModalView) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "`%s` · %s · %s\n\n", v.Genre, v.Duration, v.Author)
	fmt.Fprintf(&b, "# %s\n\n", v.Title)
	if v.Description != "" {
		fmt.Fprintf(&b, "%s\n", v.Description)
	}
	return b.String()
}
