// Package anim provides a tick-driven tween for animating layout offsets.
package anim

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the frame interval, roughly 30fps.
const DefaultInterval = 33 * time.Millisecond

// TickMsg triggers animation frame advancement.
type TickMsg struct {
	ID string
}

// Tween animates a value toward a target over a fixed duration with an
// ease-in-ease-out curve. Retargeting mid-flight restarts the animation
// from the current value, so opposing animations hand off smoothly.
type Tween struct {
	id       string
	from     float64
	to       float64
	value    float64
	frame    int
	frames   int
	interval time.Duration
	active   bool
}

// New creates a tween resting at 0, animating over the given duration.
func New(duration time.Duration) Tween {
	return NewWithInterval(duration, DefaultInterval)
}

// NewWithInterval creates a tween with an explicit frame interval.
func NewWithInterval(duration, interval time.Duration) Tween {
	if interval <= 0 {
		interval = DefaultInterval
	}
	frames := int(duration / interval)
	if frames < 1 {
		frames = 1
	}
	return Tween{
		id:       generateID(),
		frames:   frames,
		interval: interval,
	}
}

// ID returns the tween's unique identifier, used to match tick messages.
func (t Tween) ID() string {
	return t.id
}

func generateID() string {
	return time.Now().Format("20060102150405.000000")
}

// SetTarget starts animating from the current value toward target and
// returns the command that drives the first frame. A target equal to the
// current value deactivates the tween.
func (t *Tween) SetTarget(target float64) tea.Cmd {
	if target == t.value {
		t.to = target
		t.active = false
		return nil
	}
	t.from = t.value
	t.to = target
	t.frame = 0
	t.active = true
	return t.tick()
}

func (t Tween) tick() tea.Cmd {
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: t.id}
	})
}

// Update advances the animation on matching tick messages.
func (t Tween) Update(msg tea.Msg) (Tween, tea.Cmd) {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != t.id || !t.active {
		return t, nil
	}

	t.frame++
	if t.frame >= t.frames {
		t.value = t.to
		t.active = false
		return t, nil
	}

	p := easeInOutQuad(float64(t.frame) / float64(t.frames))
	t.value = t.from + (t.to-t.from)*p
	return t, t.tick()
}

// Value returns the current animated value.
func (t Tween) Value() float64 {
	return t.value
}

// Target returns the value the tween is heading toward.
func (t Tween) Target() float64 {
	return t.to
}

// IsActive reports whether the animation is still running.
func (t Tween) IsActive() bool {
	return t.active
}

// easeInOutQuad accelerates through the first half of the animation and
// decelerates through the second.
func easeInOutQuad(p float64) float64 {
	if p < 0.5 {
		return 2 * p * p
	}
	q := -2*p + 2
	return 1 - q*q/2
}
