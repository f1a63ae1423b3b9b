// Package keyboard keeps the chat input area pinned above the on-screen
// keyboard. It subscribes to the host's keyboard notifications once per
// screen lifetime and animates the input area's bottom offset in response.
package keyboard

import (
	"context"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohsinalimat/chatui/anim"
	"github.com/mohsinalimat/chatui/pubsub"
)

// AnimationDuration matches the platform keyboard slide.
const AnimationDuration = 300 * time.Millisecond

// NotificationMsg delivers a keyboard notification into the update loop.
type NotificationMsg struct {
	Event pubsub.Event[pubsub.KeyboardEvent]
}

// Avoider is the keyboard avoidance controller. It owns the notification
// subscription and the offset animation. The subscription is registered
// exactly once on Activate and released exactly once on Teardown; skipping
// the teardown would leave the broker delivering into a dead screen.
type Avoider struct {
	broker *pubsub.KeyboardBroker
	events <-chan pubsub.Event[pubsub.KeyboardEvent]
	cancel context.CancelFunc

	tween anim.Tween

	viewHeight     int
	safeAreaBottom int
}

// NewAvoider creates a controller publishing offsets for the given broker.
func NewAvoider(broker *pubsub.KeyboardBroker) *Avoider {
	return &Avoider{
		broker: broker,
		tween:  anim.New(AnimationDuration),
	}
}

// SetGeometry records the screen's height and the bottom safe-area edge.
// The keyboard already covers the safe-area inset, so the avoidance offset
// subtracts it.
func (a *Avoider) SetGeometry(viewHeight, safeAreaBottom int) {
	a.viewHeight = viewHeight
	a.safeAreaBottom = safeAreaBottom
}

// Activate subscribes to keyboard notifications and returns the command
// that waits for the first one. Calling Activate on an active controller is
// a no-op.
func (a *Avoider) Activate(ctx context.Context) tea.Cmd {
	if a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.events = a.broker.Subscribe(ctx)
	return a.Listen()
}

// Teardown releases the subscription. Safe to call more than once.
func (a *Avoider) Teardown() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

// Active reports whether the subscription is live.
func (a *Avoider) Active() bool {
	return a.cancel != nil
}

// Listen returns a command that waits for the next notification. It
// resolves to nil once the subscription channel closes, which ends the
// listen loop.
func (a *Avoider) Listen() tea.Cmd {
	events := a.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return NotificationMsg{Event: ev}
	}
}

// Handle reacts to a keyboard notification and returns the animation
// command. A will-show without geometry is malformed and ignored.
func (a *Avoider) Handle(ev pubsub.Event[pubsub.KeyboardEvent]) tea.Cmd {
	switch ev.Name {
	case pubsub.WillShowNotification:
		g := ev.Payload.Geometry
		if g == nil {
			return nil
		}
		offset := g.Height - (a.viewHeight - a.safeAreaBottom)
		return a.tween.SetTarget(float64(-offset))

	case pubsub.WillHideNotification:
		return a.tween.SetTarget(0)
	}
	return nil
}

// Tick returns the message that advances the offset animation by one
// frame, for hosts that drive frames themselves instead of waiting on the
// scheduled tick.
func (a *Avoider) Tick() anim.TickMsg {
	return anim.TickMsg{ID: a.tween.ID()}
}

// Update advances the offset animation.
func (a *Avoider) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	a.tween, cmd = a.tween.Update(msg)
	return cmd
}

// Offset returns the current bottom offset in rows. Zero or negative; a
// negative offset lifts the input area above the keyboard.
func (a *Avoider) Offset() int {
	return int(math.Round(a.tween.Value()))
}

// TargetOffset returns the offset the animation is heading toward.
func (a *Avoider) TargetOffset() int {
	return int(math.Round(a.tween.Target()))
}

// Animating reports whether an offset animation is in flight.
func (a *Avoider) Animating() bool {
	return a.tween.IsActive()
}
