package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/catalog"
	"github.com/muurk/premiere/internal/page"
)

// sized returns a library page whose carousel viewport is 60 cells wide:
// four 30-cell cards 2 apart give a max offset of 66.
func sized(t *testing.T) LibraryModel {
	t.Helper()
	m := NewLibraryModel(catalog.Default(), 30, 2)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 64, Height: 30})
	require.Equal(t, 60, m.Carousel.Layout().ViewportWidth)
	return m
}

func TestScrollRightClampsAtEnd(t *testing.T) {
	m := sized(t)

	var cmd tea.Cmd
	m, cmd = m.Update(keyRight)
	assert.Equal(t, 32, m.Carousel.Target())
	assert.Equal(t, 1, m.Focus)
	require.NotNil(t, cmd, "scrolling starts the animation")

	for range 4 {
		m, _ = m.Update(keyRight)
	}
	assert.Equal(t, 66, m.Carousel.Target())
	assert.Equal(t, 3, m.Focus)

	m, _ = m.Update(keyLeft)
	assert.Equal(t, 34, m.Carousel.Target())
	assert.Equal(t, 2, m.Focus)

	for range 5 {
		m, _ = m.Update(keyLeft)
	}
	assert.Equal(t, 0, m.Carousel.Target())
	assert.Equal(t, 0, m.Focus)
}

func TestScrollAnimationSettles(t *testing.T) {
	m := sized(t)
	m, cmd := m.Update(keyRight)
	require.NotNil(t, cmd)

	// a second scroll while animating does not start another ticker
	m, cmd = m.Update(keyRight)
	assert.Nil(t, cmd)

	for i := 0; i < 10*60; i++ {
		m, cmd = m.Update(carouselFrameMsg{})
		if cmd == nil {
			break
		}
	}
	assert.Nil(t, cmd)
	assert.True(t, m.Carousel.Settled())
	assert.Equal(t, 64.0, m.Carousel.Offset())
}

func TestTabRevealsFocusedCard(t *testing.T) {
	m := sized(t)
	for range 3 {
		m, _ = m.Update(keyTab)
	}
	assert.Equal(t, 3, m.Focus)
	assert.Equal(t, 66, m.Carousel.Target())

	m, _ = m.Update(keyTab)
	assert.Equal(t, 0, m.Focus, "tab wraps to the first card")
	assert.Equal(t, 0, m.Carousel.Target())
}

func TestEnterSelectsFocusedRecord(t *testing.T) {
	m := sized(t)
	m, _ = m.Update(keyTab)
	before := m.Carousel.Target()
	assert.Equal(t, 2, before, "tab reveals the partly hidden second card")
	m, _ = m.Update(keyEnter)

	view, ok := page.ProjectModal(m.Controller.State())
	require.True(t, ok)
	assert.Equal(t, "Coffee Shop Serenade", view.Title)
	assert.Equal(t, catalog.Default().At(1).Content, view.Content)

	// arrows scroll the modal, not the carousel
	m, _ = m.Update(keyRight)
	assert.Equal(t, before, m.Carousel.Target())
	assert.Equal(t, 1, m.Focus)
}

func TestEmptyCatalog(t *testing.T) {
	m := NewLibraryModel(&catalog.Catalog{}, 30, 2)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	m, _ = m.Update(keyTab)
	m, _ = m.Update(keyEnter)
	assert.False(t, m.Controller.Viewing())
	assert.Contains(t, m.View(), "no scripts")
}

func TestRenderCardWidth(t *testing.T) {
	for _, p := range card.FromCatalog(catalog.Default()) {
		lines := renderCard(p, 30)
		require.Len(t, lines, CardHeight)
		for _, l := range lines {
			assert.Equal(t, 30, runewidth.StringWidth(l), "line %q", l)
		}
	}
}

func TestRenderStripFillsViewport(t *testing.T) {
	m := sized(t)
	strip := renderStrip(m.Carousel, card.FromCatalog(m.Catalog), m.Focus)
	lines := strings.Split(strip, "\n")
	require.Len(t, lines, CardHeight)
	for _, l := range lines {
		assert.Equal(t, 60, lipgloss.Width(l))
	}

	m, _ = m.Update(keyRight)
	m.Carousel.Jump()
	strip = renderStrip(m.Carousel, card.FromCatalog(m.Catalog), m.Focus)
	assert.Contains(t, strip, "COFFEE SHOP SERENADE")
	assert.NotContains(t, strip, "MIDNIGHT IN THE ALLEY")
}

func TestCutCells(t *testing.T) {
	tests := []struct {
		in       string
		from, to int
		want     string
	}{
		{"abcdef", 0, 3, "abc"},
		{"abcdef", 2, 6, "cdef"},
		{"abcdef", 4, 4, ""},
		{"╭──╮", 1, 3, "──"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cutCells(tt.in, tt.from, tt.to))
	}
}

func TestScrollIndicator(t *testing.T) {
	m := sized(t)
	assert.Equal(t, "◁ 1/4 ▶", scrollIndicator(m.Carousel, 0))

	for range 3 {
		m, _ = m.Update(keyRight)
	}
	assert.Equal(t, "◀ 4/4 ▷", scrollIndicator(m.Carousel, m.Focus))
}

func TestSceneTickAdvancesClock(t *testing.T) {
	m := NewLoginModel(nil, "")
	m, cmd := m.Update(sceneTickMsg{})
	require.NotNil(t, cmd)
	assert.InDelta(t, (80 * time.Millisecond).Seconds(), m.T, 1e-9)
}
