// Package scene draws the animated marquee behind the login view: two
// bobbing tickets in a slowly turning field of gold particles.
package scene

import (
	"math"
	"math/rand/v2"
	"strings"
)

const (
	// ParticleCount is the number of particles in the default scene.
	ParticleCount = 50

	defaultSeed = 1977

	bobRate   = 0.3
	tiltRate  = 0.5
	tiltScale = 0.1
	spinRate  = 0.1

	ticketLabel = "[ ADMIT ONE ]"
)

// Ticket is a floating ticket anchored at (X, Y) in normalised [0,1] screen
// coordinates.
type Ticket struct {
	X, Y      float64
	Amplitude float64
	Phase     float64
}

// Pose returns the ticket's vertical position and tilt at time t (seconds).
func (tk Ticket) Pose(t float64) (y, tilt float64) {
	y = tk.Y + math.Sin(bobRate*t+tk.Phase)*tk.Amplitude
	tilt = math.Sin(tiltRate*t+tk.Phase) * tiltScale
	return y, tilt
}

// Particle is a point in the unit cube centred on the origin.
type Particle struct {
	X, Y, Z float64
}

// Rotate turns p about the vertical axis by angle radians.
func (p Particle) Rotate(angle float64) Particle {
	sin, cos := math.Sincos(angle)
	return Particle{
		X: p.X*cos - p.Z*sin,
		Y: p.Y,
		Z: p.X*sin + p.Z*cos,
	}
}

// Scene is a fixed arrangement of tickets and particles.
type Scene struct {
	Tickets   []Ticket
	Particles []Particle
}

// New builds a scene with n particles placed from seed. The same seed always
// gives the same scene.
func New(seed uint64, n int) *Scene {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = Particle{
			X: rng.Float64()*2 - 1,
			Y: rng.Float64()*2 - 1,
			Z: rng.Float64()*2 - 1,
		}
	}
	return &Scene{
		Tickets: []Ticket{
			{X: 0.25, Y: 0.45, Amplitude: 0.08},
			{X: 0.62, Y: 0.55, Amplitude: 0.08, Phase: math.Pi / 2},
		},
		Particles: ps,
	}
}

var defaultScene = New(defaultSeed, ParticleCount)

// Frame renders the default scene at time t.
func Frame(t float64, width, height int) []string {
	return defaultScene.Frame(t, width, height)
}

// Frame renders the scene at time t onto a width x height character grid.
// Near particles draw brighter than far ones; tickets draw over particles.
func (s *Scene) Frame(t float64, width, height int) []string {
	if width <= 0 || height <= 0 {
		return nil
	}

	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", width))
	}

	angle := spinRate * t
	for _, p := range s.Particles {
		r := p.Rotate(angle)
		col := project(r.X, width)
		row := project(r.Y, height)
		glyph := '·'
		if r.Z > 0.3 {
			glyph = '*'
		} else if r.Z < -0.3 {
			glyph = '.'
		}
		grid[row][col] = glyph
	}

	for _, tk := range s.Tickets {
		y, tilt := tk.Pose(t)
		drawTicket(grid, tk.X, y, tilt)
	}

	lines := make([]string, height)
	for i, row := range grid {
		lines[i] = string(row)
	}
	return lines
}

// project maps v in [-1,1] onto [0,n).
func project(v float64, n int) int {
	i := int(math.Round((v + 1) / 2 * float64(n-1)))
	return max(0, min(n-1, i))
}

// drawTicket writes the ticket label centred on (x, y). A noticeable tilt
// drops one half of the label by a row.
func drawTicket(grid [][]rune, x, y, tilt float64) {
	height := len(grid)
	width := len(grid[0])
	label := []rune(ticketLabel)

	row := int(math.Round(y * float64(height-1)))
	start := int(math.Round(x*float64(width-1))) - len(label)/2

	for i, ch := range label {
		r := row
		switch {
		case tilt > 0.05 && i >= len(label)/2:
			r++
		case tilt < -0.05 && i < len(label)/2:
			r++
		}
		c := start + i
		if r < 0 || r >= height || c < 0 || c >= width {
			continue
		}
		grid[r][c] = ch
	}
}
