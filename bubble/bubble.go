// Package bubble renders individual chat messages. Each message gets one of
// two visual templates, outgoing or incoming, selected by who sent it. A
// bubble caches its rendered output and only re-renders when restyled or
// when the available width changes.
package bubble

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/mohsinalimat/chatui/store"
	"github.com/mohsinalimat/chatui/styles"
)

// Component is the interface shared by both message templates.
type Component interface {
	// ID returns the unique identifier for this bubble.
	ID() string

	// Message returns the message this bubble renders.
	Message() store.Message

	// Restyle applies the per-template colors from a resolved style and
	// invalidates the render cache.
	Restyle(r styles.Resolved)

	// Render returns the rendered bubble for the given width. Uses
	// cached output when nothing changed.
	Render(width int) string

	// IsDirty returns whether the bubble needs re-rendering.
	IsDirty() bool
}

// New selects the template for a message: outgoing when the local user sent
// it, incoming otherwise.
func New(id string, msg store.Message, r styles.Resolved) Component {
	if msg.IsSender {
		return NewOutgoing(id, msg, r)
	}
	return NewIncoming(id, msg, r)
}

// baseBubble provides caching and dirty tracking shared by both templates.
type baseBubble struct {
	id            string
	msg           store.Message
	bubbleColor   lipgloss.Color
	textColor     lipgloss.Color
	dateColor     lipgloss.Color
	padding       int
	dirty         bool
	rendered      string
	renderedWidth int
	mu            sync.RWMutex
}

func (b *baseBubble) ID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.id
}

func (b *baseBubble) Message() store.Message {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.msg
}

func (b *baseBubble) IsDirty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.dirty
}

// restyle stores the new colors and marks the cache stale.
// Caller must hold the write lock.
func (b *baseBubble) restyle(bubbleColor, textColor, dateColor lipgloss.Color, padding int) {
	b.bubbleColor = bubbleColor
	b.textColor = textColor
	b.dateColor = dateColor
	b.padding = padding
	b.dirty = true
	b.rendered = ""
}

// checkCache returns the cached render if still valid.
// Caller must hold at least the read lock.
func (b *baseBubble) checkCache(width int) (string, bool) {
	if !b.dirty && b.rendered != "" && b.renderedWidth == width {
		return b.rendered, true
	}
	return "", false
}

// updateCache stores the rendered output.
// Caller must hold the write lock.
func (b *baseBubble) updateCache(rendered string, width int) {
	b.rendered = rendered
	b.renderedWidth = width
	b.dirty = false
}

// bubbleWidth fits the bubble to its content, capped at three quarters of
// the row so the other party's column stays visible.
func (b *baseBubble) bubbleWidth(content string, width int) int {
	maxWidth := width * 3 / 4
	if maxWidth < 8 {
		maxWidth = 8
	}

	longest := 0
	for _, line := range strings.Split(content, "\n") {
		if w := ansi.StringWidth(line); w > longest {
			longest = w
		}
	}

	w := longest + 2*b.padding
	if w > maxWidth {
		w = maxWidth
	}
	return w
}

// bubbleStyle builds the lipgloss style for the bubble body.
func (b *baseBubble) bubbleStyle(content string, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(b.bubbleColor).
		Foreground(b.textColor).
		Padding(0, b.padding).
		Width(b.bubbleWidth(content, width))
}

// dateLine renders the optional date string under the bubble.
func (b *baseBubble) dateLine() string {
	if b.msg.DateString == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(b.dateColor).Render(b.msg.DateString)
}

// OutgoingBubble renders messages the local user sent, right-aligned.
type OutgoingBubble struct {
	baseBubble
}

// NewOutgoing creates an outgoing message bubble.
func NewOutgoing(id string, msg store.Message, r styles.Resolved) *OutgoingBubble {
	ob := &OutgoingBubble{baseBubble: baseBubble{id: id, msg: msg}}
	ob.Restyle(r)
	return ob
}

// Restyle applies outgoing colors from the resolved style.
func (b *OutgoingBubble) Restyle(r styles.Resolved) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restyle(r.OutgoingBubbleColor, r.OutgoingTextColor, r.DateColor, r.BubblePadding)
}

// Render returns the right-aligned outgoing bubble.
func (b *OutgoingBubble) Render(width int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cached, ok := b.checkCache(width); ok {
		return cached
	}

	body := b.bubbleStyle(b.msg.Text, width).Render(b.msg.Text)
	out := lipgloss.PlaceHorizontal(width, lipgloss.Right, body)

	if date := b.dateLine(); date != "" {
		out += "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Right, date)
	}

	b.updateCache(out, width)
	return out
}

// IncomingBubble renders messages from the other party, left-aligned, with
// markdown formatting applied to the text.
type IncomingBubble struct {
	baseBubble
}

// NewIncoming creates an incoming message bubble.
func NewIncoming(id string, msg store.Message, r styles.Resolved) *IncomingBubble {
	ib := &IncomingBubble{baseBubble: baseBubble{id: id, msg: msg}}
	ib.Restyle(r)
	return ib
}

// Restyle applies incoming colors from the resolved style.
func (b *IncomingBubble) Restyle(r styles.Resolved) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.restyle(r.IncomingBubbleColor, r.IncomingTextColor, r.DateColor, r.BubblePadding)
}

// Render returns the left-aligned incoming bubble.
func (b *IncomingBubble) Render(width int) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cached, ok := b.checkCache(width); ok {
		return cached
	}

	content := b.msg.Text
	if renderer := GetMarkdownRenderer(b.bubbleWidth(content, width)); renderer != nil {
		if md, err := renderer.Render(content); err == nil {
			content = strings.TrimSpace(md)
		}
	}

	out := b.bubbleStyle(content, width).Render(content)

	if date := b.dateLine(); date != "" {
		out += "\n" + date
	}

	b.updateCache(out, width)
	return out
}
