package chatui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohsinalimat/chatui/input"
	"github.com/mohsinalimat/chatui/keyboard"
	"github.com/mohsinalimat/chatui/pubsub"
	"github.com/mohsinalimat/chatui/store"
	"github.com/mohsinalimat/chatui/styles"
)

// initScreen sizes a screen for testing.
func initScreen(m Screen, width, height int) Screen {
	model, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return model.(Screen)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and returns the updated screen.
func press(m Screen, msg tea.KeyMsg) Screen {
	model, _ := m.Update(msg)
	return model.(Screen)
}

func TestNew(t *testing.T) {
	m := New(Config{Hint: "Aa"})

	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0", m.Count())
	}
	if m.InputState() != input.StatePlaceholder {
		t.Errorf("InputState = %v, want StatePlaceholder", m.InputState())
	}
	if m.Options() != (Options{}) {
		t.Errorf("Options = %+v, want zero", m.Options())
	}
}

func TestUpdate_WindowSizeMsg(t *testing.T) {
	m := New(Config{})

	if m.ready {
		t.Error("screen should not be ready before WindowSizeMsg")
	}

	m = initScreen(m, 80, 24)

	if !m.ready {
		t.Error("screen should be ready after WindowSizeMsg")
	}
	if m.width != 80 || m.height != 24 {
		t.Errorf("size = %dx%d, want 80x24", m.width, m.height)
	}
}

func TestAddMessage_CountAndOrder(t *testing.T) {
	m := New(Config{})
	m = initScreen(m, 80, 24)

	texts := []string{"first", "second", "third"}
	for i, txt := range texts {
		m.AddMessage(store.Message{Text: txt, IsSender: i%2 == 0})
	}

	if m.Count() != len(texts) {
		t.Fatalf("Count = %d, want %d", m.Count(), len(texts))
	}
	for i, txt := range texts {
		if got := m.Message(i).Text; got != txt {
			t.Errorf("Message(%d).Text = %q, want %q", i, got, txt)
		}
	}
}

func TestAddMessage_BeforeFirstLayout(t *testing.T) {
	m := New(Config{})

	// The host may inject messages before the first resize arrives.
	m.AddMessage(store.Message{Text: "early"})
	if m.Count() != 1 {
		t.Errorf("Count = %d, want 1", m.Count())
	}

	m = initScreen(m, 80, 24)
	if !strings.Contains(m.View(), "early") {
		t.Error("pre-layout message should appear after layout")
	}
}

func TestAddMessage_FirstRowNeverAutoScrolls(t *testing.T) {
	m := New(Config{})
	m = initScreen(m, 40, 8)

	tall := strings.Repeat("line\n", 12) + "end"

	// The first insert skips the scroll even when the content is taller
	// than the viewport.
	m.AddMessage(store.Message{Text: tall, IsSender: true})
	if m.viewport.YOffset != 0 {
		t.Errorf("first insert scrolled to YOffset %d, want 0", m.viewport.YOffset)
	}

	// The second insert scrolls to the bottom.
	m.AddMessage(store.Message{Text: tall, IsSender: false})
	if m.viewport.YOffset == 0 {
		t.Error("second insert should scroll the list")
	}
}

func TestSendFlow(t *testing.T) {
	m := New(Config{Hint: "Aa"})
	m = initScreen(m, 80, 24)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab}) // focus
	m = press(m, keyRunes("hello"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter}) // send

	if m.Count() != 1 {
		t.Fatalf("Count = %d, want 1", m.Count())
	}
	got := m.Message(0)
	if !got.IsSender {
		t.Error("sent message should have IsSender set")
	}
	if got.Text != "hello" {
		t.Errorf("Text = %q, want %q", got.Text, "hello")
	}

	// Sending clears the text but stays in the editing state.
	if m.InputState() != input.StateEditing {
		t.Errorf("InputState = %v, want StateEditing after send", m.InputState())
	}
}

func TestSend_WhitespaceOnlyIgnored(t *testing.T) {
	m := New(Config{})
	m = initScreen(m, 80, 24)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m = press(m, keyRunes("  "))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if m.Count() != 0 {
		t.Errorf("Count = %d, want 0 after whitespace-only send", m.Count())
	}
}

func TestBlur_EmptyInputRevertsToPlaceholder(t *testing.T) {
	m := New(Config{Hint: "Aa"})
	m = initScreen(m, 80, 24)

	m = press(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.InputState() != input.StateEditing {
		t.Fatalf("InputState = %v, want StateEditing", m.InputState())
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.InputState() != input.StatePlaceholder {
		t.Errorf("InputState = %v, want StatePlaceholder", m.InputState())
	}
}

func TestSetStyle_OnlyTouchedFieldChanges(t *testing.T) {
	m := New(Config{})
	m = initScreen(m, 80, 24)

	m.AddMessage(store.Message{Text: "theirs", IsSender: false})
	m.AddMessage(store.Message{Text: "mine", IsSender: true})

	incomingBefore := m.bubbles[0].Render(m.viewport.Width)
	outgoingBefore := m.bubbles[1].Render(m.viewport.Width)

	m.SetStyle(styles.Style{OutgoingBubbleColor: "#ff0000"})

	if got := m.bubbles[0].Render(m.viewport.Width); got != incomingBefore {
		t.Error("incoming bubble changed when only the outgoing color was set")
	}
	if got := m.bubbles[1].Render(m.viewport.Width); got == outgoingBefore {
		t.Error("outgoing bubble should change")
	}
}

func TestSetOptions_ConsultedAtEventTime(t *testing.T) {
	m := New(Config{})
	m = initScreen(m, 80, 24)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})

	// Option off: scrolling leaves the input focused.
	m = press(m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.InputState() != input.StateEditing {
		t.Fatal("input should stay focused with the option off")
	}

	// Flip the option after the fact; the next scroll sees it.
	m.SetOptions(Options{HideKeyboardOnScroll: true})
	m = press(m, tea.KeyMsg{Type: tea.KeyPgDown})
	if m.InputState() != input.StatePlaceholder {
		t.Error("scroll should dismiss the keyboard with the option on")
	}
}

func TestHideKeyboardOnTap(t *testing.T) {
	m := New(Config{Options: Options{HideKeyboardOnTap: true}})
	m = initScreen(m, 80, 24)
	m = press(m, tea.KeyMsg{Type: tea.KeyTab})

	model, _ := m.Update(tea.MouseMsg{
		X: 5, Y: 2,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	m = model.(Screen)

	if m.InputState() != input.StatePlaceholder {
		t.Error("tap on the list should dismiss the keyboard")
	}
}

func TestKeyboardNotification_AdjustsLayout(t *testing.T) {
	broker := pubsub.NewKeyboardBroker()
	m := New(Config{Broker: broker, SafeAreaBottom: 1})
	m = initScreen(m, 40, 20)

	heightBefore := m.viewport.Height

	ev := pubsub.Event[pubsub.KeyboardEvent]{
		Name:    pubsub.WillShowNotification,
		Payload: pubsub.KeyboardEvent{Geometry: &pubsub.Geometry{Height: 6}},
	}
	model, cmd := m.Update(keyboard.NotificationMsg{Event: ev})
	m = model.(Screen)
	if cmd == nil {
		t.Fatal("will-show should start the offset animation")
	}

	// Drive the animation through the model until it settles.
	for i := 0; i < 1000 && m.avoider.Animating(); i++ {
		model, _ = m.Update(m.avoider.Tick())
		m = model.(Screen)
	}
	if m.avoider.Animating() {
		t.Fatal("offset animation never settled")
	}

	// offset = 6 - (20 - 19) = 5 rows claimed by the keyboard.
	if got := m.avoider.Offset(); got != -5 {
		t.Errorf("Offset = %d, want -5", got)
	}
	if m.viewport.Height != heightBefore-5 {
		t.Errorf("viewport height = %d, want %d", m.viewport.Height, heightBefore-5)
	}

	// Will-hide restores the original layout.
	model, _ = m.Update(keyboard.NotificationMsg{
		Event: pubsub.Event[pubsub.KeyboardEvent]{Name: pubsub.WillHideNotification},
	})
	m = model.(Screen)
	for i := 0; i < 1000 && m.avoider.Animating(); i++ {
		model, _ = m.Update(m.avoider.Tick())
		m = model.(Screen)
	}
	if got := m.avoider.Offset(); got != 0 {
		t.Errorf("Offset = %d after will-hide, want 0", got)
	}
	if m.viewport.Height != heightBefore {
		t.Errorf("viewport height = %d, want %d restored", m.viewport.Height, heightBefore)
	}
}

func TestMalformedNotification_NoLayoutChange(t *testing.T) {
	m := New(Config{})
	m = initScreen(m, 40, 20)

	heightBefore := m.viewport.Height

	model, _ := m.Update(keyboard.NotificationMsg{
		Event: pubsub.Event[pubsub.KeyboardEvent]{Name: pubsub.WillShowNotification},
	})
	m = model.(Screen)

	if m.viewport.Height != heightBefore {
		t.Error("malformed will-show must not move the layout")
	}
	if m.avoider.Animating() {
		t.Error("malformed will-show must not start an animation")
	}
}

func TestInitAndQuit_SubscriptionLifecycle(t *testing.T) {
	broker := pubsub.NewKeyboardBroker()
	m := New(Config{Broker: broker})

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should return the listen command")
	}
	if broker.SubscriberCount() != 1 {
		t.Fatalf("SubscriberCount = %d after Init, want 1", broker.SubscriberCount())
	}
	if !m.avoider.Active() {
		t.Error("avoider should be active after Init")
	}

	m = initScreen(m, 80, 24)
	m.AddMessage(store.Message{Text: "bye", IsSender: true})

	model, quitCmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = model.(Screen)
	if quitCmd == nil {
		t.Fatal("quit should return tea.Quit")
	}
	if m.avoider.Active() {
		t.Error("quit should tear down the subscription")
	}
	if !strings.Contains(m.Transcript(), "bye") {
		t.Error("transcript should contain the conversation")
	}
}

func TestView_ContainsSendLabel(t *testing.T) {
	m := New(Config{Style: styles.Style{SendLabel: "Post"}})
	m = initScreen(m, 80, 24)

	if !strings.Contains(m.View(), "Post") {
		t.Error("view should render the configured send label")
	}
}
