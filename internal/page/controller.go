package page

import (
	"github.com/muurk/premiere/internal/catalog"
)

// State is the page-level record of which script is shown and whether the
// modal is open. IsOpen implies Selected is non-nil.
type State struct {
	Selected *catalog.Record
	IsOpen   bool
}

// Idle reports whether nothing is being viewed.
func (s State) Idle() bool {
	return s.Selected == nil && !s.IsOpen
}

// Controller owns the selection state. It is mutated only through Select
// and Close and is meant to be driven from a single event loop.
type Controller struct {
	state State

	// OnChange, when set, observes every transition.
	OnChange func(State)
}

// NewController creates a controller in the idle state.
func NewController() *Controller {
	return &Controller{}
}

// Select shows r. It is valid from any state; selecting while another
// script is open replaces it. The record is not checked against any catalog.
func (c *Controller) Select(r catalog.Record) {
	c.state = State{Selected: &r, IsOpen: true}
	c.notify()
}

// Close returns to idle, discarding the selection. Closing an idle page
// is a no-op apart from notifying the observer.
func (c *Controller) Close() {
	c.state = State{}
	c.notify()
}

// State returns a snapshot of the current state. The returned record is a
// copy; changing it does not affect the controller.
func (c *Controller) State() State {
	s := c.state
	if s.Selected != nil {
		r := *s.Selected
		s.Selected = &r
	}
	return s
}

// Viewing reports whether a script is open.
func (c *Controller) Viewing() bool {
	return c.state.IsOpen
}

func (c *Controller) notify() {
	if c.OnChange != nil {
		c.OnChange(c.State())
	}
}
