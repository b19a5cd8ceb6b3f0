// Package carousel models a horizontally scrolling strip of fixed-width
// cards: page-sized scroll steps, clamping to the strip's natural bounds and
// a spring-animated scroll position.
package carousel

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// FPS is the frame rate the scroll animation is tuned for. Callers tick the
// carousel once per frame.
const FPS = 60

const (
	springFrequency = 6.0
	springDamping   = 1.0 // critically damped: no overshoot past the clamp
	settleEpsilon   = 0.5
)

// Layout describes the geometry of the strip in arbitrary units
// (pixels in the reference layout, terminal cells in the browser).
type Layout struct {
	CardWidth     int
	Gap           int
	ViewportWidth int
}

// ReferenceLayout is the web layout the card sizes come from:
// 320 wide cards, 20 apart, in a 1280 wide container.
func ReferenceLayout() Layout {
	return Layout{CardWidth: 320, Gap: 20, ViewportWidth: 1280}
}

// Step is the distance of one scroll action: one card plus one gap.
func (l Layout) Step() int {
	return l.CardWidth + l.Gap
}

// ContentWidth is the total width of n cards laid out with gaps.
func (l Layout) ContentWidth(n int) int {
	if n <= 0 {
		return 0
	}
	return n*l.CardWidth + (n-1)*l.Gap
}

// MaxOffset is the largest scroll offset for n cards.
func (l Layout) MaxOffset(n int) int {
	return max(0, l.ContentWidth(n)-l.ViewportWidth)
}

// Carousel tracks the scroll position over count cards. It holds no
// selection state; Select only forwards.
type Carousel struct {
	layout Layout
	count  int

	target   int
	position float64
	velocity float64
	spring   harmonica.Spring
}

// New creates a carousel at offset zero.
func New(layout Layout, count int) *Carousel {
	return &Carousel{
		layout: layout,
		count:  count,
		spring: harmonica.NewSpring(harmonica.FPS(FPS), springFrequency, springDamping),
	}
}

// Layout returns the current geometry.
func (c *Carousel) Layout() Layout {
	return c.layout
}

// Count returns the number of cards.
func (c *Carousel) Count() int {
	return c.count
}

// ScrollLeft moves the target back by one step, stopping at zero.
func (c *Carousel) ScrollLeft() {
	c.setTarget(c.target - c.layout.Step())
}

// ScrollRight moves the target forward by one step, stopping at the end
// of the strip.
func (c *Carousel) ScrollRight() {
	c.setTarget(c.target + c.layout.Step())
}

// ScrollTo sets the target so that card i starts at the left edge, within
// bounds.
func (c *Carousel) ScrollTo(i int) {
	c.setTarget(i * c.layout.Step())
}

// Reveal scrolls the minimum amount needed for card i to be fully visible.
func (c *Carousel) Reveal(i int) {
	if i < 0 || i >= c.count {
		return
	}
	start := i * c.layout.Step()
	end := start + c.layout.CardWidth
	switch {
	case start < c.target:
		c.setTarget(start)
	case end > c.target+c.layout.ViewportWidth:
		c.setTarget(end - c.layout.ViewportWidth)
	}
}

func (c *Carousel) setTarget(t int) {
	c.target = clamp(t, 0, c.layout.MaxOffset(c.count))
}

// Target is where the scroll animation is heading.
func (c *Carousel) Target() int {
	return c.target
}

// Offset is the current, possibly mid-animation, scroll position.
func (c *Carousel) Offset() float64 {
	return c.position
}

// Tick advances the animation by one frame and reports whether it is still
// moving.
func (c *Carousel) Tick() bool {
	if c.Settled() {
		return false
	}
	c.position, c.velocity = c.spring.Update(c.position, c.velocity, float64(c.target))
	if math.Abs(c.position-float64(c.target)) < settleEpsilon && math.Abs(c.velocity) < settleEpsilon {
		c.Jump()
		return false
	}
	return true
}

// Settled reports whether the position has reached the target.
func (c *Carousel) Settled() bool {
	return c.position == float64(c.target) && c.velocity == 0
}

// Jump finishes the animation immediately.
func (c *Carousel) Jump() {
	c.position = float64(c.target)
	c.velocity = 0
}

// Resize changes the viewport width and re-clamps the scroll position.
func (c *Carousel) Resize(viewportWidth int) {
	c.layout.ViewportWidth = viewportWidth
	c.setTarget(c.target)
	if c.position > float64(c.target) {
		c.Jump()
	}
}

// SetCount changes the number of cards (after a catalog reload) and
// re-clamps the scroll position.
func (c *Carousel) SetCount(n int) {
	c.count = max(0, n)
	c.setTarget(c.target)
	if c.position > float64(c.target) {
		c.Jump()
	}
}

// Visible returns the half-open index range [first, last) of cards that
// intersect the viewport at the current position.
func (c *Carousel) Visible() (first, last int) {
	if c.count == 0 || c.layout.Step() <= 0 {
		return 0, 0
	}
	off := int(math.Round(c.position))
	step := c.layout.Step()

	// card i spans [i*step, i*step+CardWidth)
	first = max(0, floorDiv(off-c.layout.CardWidth, step)+1)
	last = min(c.count, ceilDiv(off+c.layout.ViewportWidth, step))
	if first > last {
		first = last
	}
	return first, last
}

// CardStart is the position of card i within the viewport at the current
// offset. Negative values mean the card is partly scrolled out on the left.
func (c *Carousel) CardStart(i int) int {
	return i*c.layout.Step() - int(math.Round(c.position))
}

// Select forwards card i to fn. Out-of-range indexes are ignored.
func (c *Carousel) Select(i int, fn func(int)) {
	if i < 0 || i >= c.count || fn == nil {
		return
	}
	fn(i)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}
