package scene

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketPose(t *testing.T) {
	tk := Ticket{X: 0.5, Y: 0.5, Amplitude: 0.1}

	y, tilt := tk.Pose(0)
	assert.InDelta(t, 0.5, y, 1e-9)
	assert.InDelta(t, 0, tilt, 1e-9)

	// sin(0.3t) peaks at t = pi/0.6
	y, _ = tk.Pose(math.Pi / 0.6)
	assert.InDelta(t, 0.6, y, 1e-9)

	// sin(0.5t) peaks at t = pi
	_, tilt = tk.Pose(math.Pi)
	assert.InDelta(t, 0.1, tilt, 1e-9)
}

func TestRotatePreservesDistance(t *testing.T) {
	p := Particle{X: 0.3, Y: -0.2, Z: 0.7}
	for _, a := range []float64{0, 0.5, math.Pi, 4} {
		r := p.Rotate(a)
		assert.InDelta(t, math.Hypot(p.X, p.Z), math.Hypot(r.X, r.Z), 1e-9)
		assert.Equal(t, p.Y, r.Y)
	}
}

func TestNewIsDeterministic(t *testing.T) {
	a := New(42, ParticleCount)
	b := New(42, ParticleCount)
	c := New(43, ParticleCount)

	require.Len(t, a.Particles, ParticleCount)
	assert.Equal(t, a.Particles, b.Particles)
	assert.NotEqual(t, a.Particles, c.Particles)

	for _, p := range a.Particles {
		assert.True(t, p.X >= -1 && p.X <= 1)
		assert.True(t, p.Y >= -1 && p.Y <= 1)
		assert.True(t, p.Z >= -1 && p.Z <= 1)
	}
}

func TestFrameDimensions(t *testing.T) {
	lines := Frame(3.2, 60, 12)
	require.Len(t, lines, 12)
	for _, l := range lines {
		assert.Equal(t, 60, utf8.RuneCountInString(l))
	}
	assert.Contains(t, strings.Join(lines, "\n"), "ADMIT")
}

func TestFrameEmptyGrid(t *testing.T) {
	assert.Nil(t, Frame(0, 0, 10))
	assert.Nil(t, Frame(0, 10, 0))
}

func TestFrameTinyGrid(t *testing.T) {
	assert.NotPanics(t, func() { Frame(1, 1, 1) })
}

func TestFrameAnimates(t *testing.T) {
	assert.NotEqual(t, Frame(0, 60, 12), Frame(5, 60, 12))
	assert.Equal(t, Frame(2, 60, 12), Frame(2, 60, 12))
}
