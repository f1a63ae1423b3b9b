// Package chatui provides a reusable terminal chat screen: a scrollable
// message list, a text input area with a send action, and keyboard
// avoidance driven by host-published notifications. Hosts inject every
// message themselves, sent and received alike; the widget has no transport.
package chatui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/mohsinalimat/chatui/anim"
	"github.com/mohsinalimat/chatui/bubble"
	"github.com/mohsinalimat/chatui/input"
	"github.com/mohsinalimat/chatui/keyboard"
	"github.com/mohsinalimat/chatui/pubsub"
	"github.com/mohsinalimat/chatui/store"
	"github.com/mohsinalimat/chatui/styles"
)

// Options are behavior toggles read at event time, never cached.
type Options struct {
	// HideKeyboardOnScroll blurs the input when the message list starts
	// scrolling.
	HideKeyboardOnScroll bool
	// HideKeyboardOnTap blurs the input when the message list is
	// clicked.
	HideKeyboardOnTap bool
}

// Config describes a chat screen to build.
type Config struct {
	// Broker delivers keyboard notifications. Nil creates a private
	// broker nobody publishes to, which disables avoidance.
	Broker *pubsub.KeyboardBroker
	// Hint is the input placeholder text.
	Hint string
	// Style is the initial appearance; zero value means all defaults.
	Style styles.Style
	// Options are the initial behavior toggles.
	Options Options
	// SafeAreaBottom reserves rows for host chrome at the screen bottom.
	SafeAreaBottom int
	// Theme supplies defaults for unset style fields. Nil uses the
	// current theme.
	Theme *styles.Theme
	// OnSend is called after a message the user sent was appended. The
	// host uses it to hand the text to whatever delivers it.
	OnSend func(store.Message)
}

// AddMessageMsg asks the screen to append a message. Hosts send it through
// tea.Program.Send to inject incoming messages.
type AddMessageMsg struct {
	Message store.Message
}

// Screen is the chat screen model.
type Screen struct {
	// Components
	store    *store.Store
	bubbles  []bubble.Component
	viewport viewport.Model
	input    input.Field
	avoider  *keyboard.Avoider
	broker   *pubsub.KeyboardBroker
	keyMap   KeyMap

	// Appearance
	theme    *styles.Theme
	style    styles.Style
	resolved styles.Resolved

	// State
	options        Options
	onSend         func(store.Message)
	ctx            context.Context
	safeAreaBottom int
	width          int
	height         int
	ready          bool

	// Transcript dump content (for exit)
	transcript string
}

// New creates a chat screen from the config.
func New(cfg Config) Screen {
	broker := cfg.Broker
	if broker == nil {
		broker = pubsub.NewKeyboardBroker()
	}
	theme := cfg.Theme
	if theme == nil {
		theme = styles.CurrentTheme()
	}
	resolved := cfg.Style.Resolve(theme)

	return Screen{
		store:          store.New(),
		input:          input.New(cfg.Hint, resolved),
		avoider:        keyboard.NewAvoider(broker),
		broker:         broker,
		keyMap:         DefaultKeyMap(),
		theme:          theme,
		style:          cfg.Style,
		resolved:       resolved,
		options:        cfg.Options,
		onSend:         cfg.OnSend,
		safeAreaBottom: cfg.SafeAreaBottom,
		ctx:            context.Background(),
	}
}

// SetContext sets the context bounding the screen's notification
// subscription.
func (m *Screen) SetContext(ctx context.Context) {
	if ctx != nil {
		m.ctx = ctx
	}
}

// Init activates the screen: the keyboard subscription is registered here,
// exactly once per screen lifetime.
func (m Screen) Init() tea.Cmd {
	return m.avoider.Activate(m.ctx)
}

// Teardown releases the keyboard subscription. It runs when the user quits
// the screen; hosts embedding the model elsewhere must call it themselves.
func (m *Screen) Teardown() {
	m.avoider.Teardown()
}

// AddMessage appends a message to the store, renders its bubble, and
// scrolls the list to the new last row. The scroll is skipped when the new
// row is the only row, so the very first message never auto-scrolls.
func (m *Screen) AddMessage(msg store.Message) {
	idx := m.store.Append(msg)
	m.bubbles = append(m.bubbles, bubble.New(uuid.NewString(), msg, m.resolved))

	if !m.ready {
		return
	}
	m.refreshContent()
	if lastRow := idx; lastRow > 0 {
		m.viewport.GotoBottom()
	}
}

// Style returns the current style.
func (m Screen) Style() styles.Style {
	return m.style
}

// SetStyle replaces the style wholesale and reapplies every field to the
// live components. There is no diffing; unset fields resolve against the
// theme each pass.
func (m *Screen) SetStyle(s styles.Style) {
	m.style = s
	m.resolved = s.Resolve(m.theme)

	m.input.Restyle(m.resolved)
	for _, b := range m.bubbles {
		b.Restyle(m.resolved)
	}
	if m.ready {
		m.refreshContent()
	}
}

// Options returns the current behavior toggles.
func (m Screen) Options() Options {
	return m.options
}

// SetOptions replaces the behavior toggles. They are consulted live at
// event time, so nothing needs reapplying.
func (m *Screen) SetOptions(o Options) {
	m.options = o
}

// Count returns the number of messages on screen.
func (m Screen) Count() int {
	return m.store.Count()
}

// Message returns the i-th message, oldest first.
func (m Screen) Message(i int) store.Message {
	return m.store.Get(i)
}

// InputState returns the input field's display mode.
func (m Screen) InputState() input.State {
	return m.input.State()
}

// Update handles messages and updates the model.
func (m Screen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.avoider.SetGeometry(msg.Height, msg.Height-m.safeAreaBottom)
		return m.handleResize(), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case keyboard.NotificationMsg:
		return m.handleNotification(msg)

	case anim.TickMsg:
		if cmd := m.avoider.Update(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		// The offset moved, so the input area and viewport reflow.
		m = m.handleResize()
		return m, tea.Batch(cmds...)

	case AddMessageMsg:
		m.AddMessage(msg.Message)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleNotification reacts to a keyboard geometry notification.
func (m Screen) handleNotification(msg keyboard.NotificationMsg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if cmd := m.avoider.Handle(msg.Event); cmd != nil {
		cmds = append(cmds, cmd)
		// The keyboard is claiming or releasing rows; keep the last
		// message visible while the input area moves.
		if msg.Event.Name == pubsub.WillShowNotification && m.ready {
			m.viewport.GotoBottom()
		}
	}

	// Re-arm the listener for the next notification.
	if m.avoider.Active() {
		cmds = append(cmds, m.avoider.Listen())
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes keyboard input.
func (m Screen) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.transcript = m.renderTranscript()
		m.Teardown()
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Send) && m.input.Focused():
		if sent, ok := m.input.Send(); ok {
			m.AddMessage(sent)
			if m.onSend != nil {
				onSend := m.onSend
				return m, func() tea.Msg {
					onSend(sent)
					return nil
				}
			}
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Newline) && m.input.Focused():
		m.input.InsertNewline()
		return m.handleResize(), nil

	case key.Matches(msg, m.keyMap.ToggleFocus):
		if m.input.Focused() {
			m.blurInput()
			return m, nil
		}
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, m.keyMap.Blur) && m.input.Focused():
		m.blurInput()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp), key.Matches(msg, m.keyMap.PageDown):
		// Options are consulted at event time, not cached.
		if m.options.HideKeyboardOnScroll && m.input.Focused() {
			m.blurInput()
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.input.Focused() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m = m.handleResize()
		return m, cmd
	}

	// Unfocused keys scroll the list.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleMouse processes wheel scrolling and taps on the message list.
func (m Screen) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case tea.MouseActionMotion:
		return m, nil

	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if m.options.HideKeyboardOnScroll && m.input.Focused() {
				m.blurInput()
			}
		case tea.MouseButtonLeft:
			if m.options.HideKeyboardOnTap && m.input.Focused() && msg.Y < m.viewport.Height {
				m.blurInput()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// blurInput dismisses the keyboard: the field blurs and, through its own
// state machine, may revert to the placeholder.
func (m *Screen) blurInput() {
	m.input.Blur()
	m.broker.Publish(pubsub.Event[pubsub.KeyboardEvent]{
		Name: pubsub.WillHideNotification,
	})
}

// handleResize adjusts layout when the window or input area changes.
func (m Screen) handleResize() Screen {
	if m.width == 0 || m.height == 0 {
		return m
	}

	spacer := -m.avoider.Offset()
	if spacer < 0 {
		spacer = 0
	}

	inputHeight := m.input.Height() + 2 // border rows
	viewportHeight := m.height - inputHeight - spacer - m.safeAreaBottom
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	if !m.ready {
		m.viewport = viewport.New(m.width, viewportHeight)
		m.viewport.MouseWheelEnabled = true
		m.viewport.MouseWheelDelta = 3
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = viewportHeight
	}

	label := m.sendLabelView()
	m.input.SetWidth(m.width - 4 - lipgloss.Width(label) - 1)
	m.refreshContent()

	return m
}

// refreshContent renders all bubbles into the viewport.
func (m *Screen) refreshContent() {
	if !m.ready {
		return
	}

	width := m.viewport.Width
	var b strings.Builder
	for i, cmp := range m.bubbles {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(cmp.Render(width))
	}
	m.viewport.SetContent(b.String())
}

// View renders the screen.
func (m Screen) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	sections := []string{
		m.viewport.View(),
		m.inputView(),
	}

	spacer := -m.avoider.Offset()
	if spacer > 0 {
		sections = append(sections, strings.Repeat("\n", spacer-1))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// inputView renders the bordered input area with the send label.
func (m Screen) inputView() string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.resolved.InputBorderColor).
		Padding(0, 1)

	if !m.input.Focused() {
		border = border.BorderForeground(m.theme.Border)
	}

	row := lipgloss.JoinHorizontal(
		lipgloss.Bottom,
		m.input.View(),
		" "+m.sendLabelView(),
	)

	return border.Width(m.width - 2).Render(row)
}

// sendLabelView renders the send button text.
func (m Screen) sendLabelView() string {
	return lipgloss.NewStyle().
		Foreground(m.resolved.SendLabelColor).
		Bold(true).
		Render(m.resolved.SendLabel)
}

// renderTranscript generates content for terminal scrollback after exit.
func (m Screen) renderTranscript() string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n\n")

	for _, msg := range m.store.All() {
		if msg.IsSender {
			sb.WriteString(fmt.Sprintf("> %s\n", msg.Text))
		} else {
			sb.WriteString(fmt.Sprintf("  %s\n", msg.Text))
		}
		if msg.DateString != "" {
			sb.WriteString(fmt.Sprintf("  (%s)\n", msg.DateString))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(strings.Repeat("─", 60))
	sb.WriteString("\n")

	return sb.String()
}

// Transcript returns the content dumped to scrollback on exit.
func (m Screen) Transcript() string {
	return m.transcript
}

// Run starts the chat screen and blocks until the user quits. It returns
// the session transcript.
func Run(ctx context.Context, cfg Config) (string, error) {
	p := NewProgram(ctx, cfg)
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("running chat screen: %w", err)
	}
	return final.(Screen).Transcript(), nil
}

// NewProgram builds the Bubble Tea program for a chat screen. Hosts keep
// the program handle to inject incoming messages with Send.
func NewProgram(ctx context.Context, cfg Config) *tea.Program {
	model := New(cfg)
	model.SetContext(ctx)

	return tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
}
