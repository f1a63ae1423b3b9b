// Package input manages the chat screen's text entry field: a textarea
// with an explicit placeholder-versus-editing state machine and the send
// guard. The hint text is shown as the field's real value in a muted color,
// matching the classic placeholder behavior where focus clears it.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mohsinalimat/chatui/store"
	"github.com/mohsinalimat/chatui/styles"
)

// State is the input field's display mode.
type State int

const (
	// StatePlaceholder shows the hint text in the placeholder color.
	StatePlaceholder State = iota
	// StateEditing shows user text in the normal text color.
	StateEditing
)

// DefaultHint is the hint text when the host does not configure one.
const DefaultHint = "Type a message..."

const (
	minHeight = 1
	maxHeight = 4
)

// Field is the input field controller.
type Field struct {
	textarea textarea.Model
	state    State
	hint     string

	textColor        lipgloss.Color
	placeholderColor lipgloss.Color
}

// New creates a field in the placeholder state showing the hint. An empty
// hint falls back to DefaultHint.
func New(hint string, r styles.Resolved) Field {
	if hint == "" {
		hint = DefaultHint
	}

	ta := textarea.New()
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetHeight(minHeight)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.SetValue(hint)

	f := Field{
		textarea: ta,
		state:    StatePlaceholder,
		hint:     hint,
	}
	f.Restyle(r)
	return f
}

// State returns the current display mode.
func (f Field) State() State {
	return f.state
}

// Hint returns the configured placeholder text.
func (f Field) Hint() string {
	return f.hint
}

// Value returns the field's current text. In the placeholder state this is
// the hint.
func (f Field) Value() string {
	return f.textarea.Value()
}

// Focused reports whether the textarea has focus.
func (f Field) Focused() bool {
	return f.textarea.Focused()
}

// Focus gives the field focus. Entering from the placeholder state clears
// the hint and switches to the normal text color.
func (f *Field) Focus() tea.Cmd {
	if f.state == StatePlaceholder {
		f.textarea.Reset()
		f.state = StateEditing
		f.applyTextColor()
	}
	return f.textarea.Focus()
}

// Blur removes focus. When the remaining text is empty after trimming
// whitespace and line breaks, the field reverts to the placeholder;
// otherwise the user's text stays put.
func (f *Field) Blur() {
	f.textarea.Blur()
	if strings.TrimSpace(f.textarea.Value()) == "" {
		f.textarea.SetValue(f.hint)
		f.state = StatePlaceholder
		f.applyTextColor()
	}
}

// Send validates the current text and returns the message to append. The
// send is rejected when the trimmed text is empty or when the text equals
// the hint exactly, which guards against a focus/state desync. A accepted
// send clears the text but deliberately does not revert to the placeholder
// state; only a genuine blur with empty text does that.
func (f *Field) Send() (store.Message, bool) {
	text := f.textarea.Value()
	if strings.TrimSpace(text) == "" || text == f.hint {
		return store.Message{}, false
	}

	f.textarea.Reset()
	f.updateHeight()

	return store.Message{Text: text, IsSender: true}, true
}

// Restyle applies the text and placeholder colors from a resolved style.
func (f *Field) Restyle(r styles.Resolved) {
	f.textColor = r.TextColor
	f.placeholderColor = r.PlaceholderColor
	f.applyTextColor()
}

func (f *Field) applyTextColor() {
	color := f.textColor
	if f.state == StatePlaceholder {
		color = f.placeholderColor
	}
	style := lipgloss.NewStyle().Foreground(color)
	f.textarea.FocusedStyle.Text = style
	f.textarea.BlurredStyle.Text = style
}

// SetWidth sets the textarea width.
func (f *Field) SetWidth(w int) {
	f.textarea.SetWidth(w)
}

// Height returns the textarea's current height in rows.
func (f Field) Height() int {
	return f.textarea.Height()
}

// updateHeight grows the field with its content, one row per line up to
// maxHeight.
func (f *Field) updateHeight() {
	lineCount := strings.Count(f.textarea.Value(), "\n") + 1

	desired := lineCount
	if desired < minHeight {
		desired = minHeight
	}
	if desired > maxHeight {
		desired = maxHeight
	}

	if f.textarea.Height() != desired {
		f.textarea.SetHeight(desired)
	}
}

// Update forwards messages to the textarea while editing and keeps the
// height in step with the content.
func (f Field) Update(msg tea.Msg) (Field, tea.Cmd) {
	if f.state != StateEditing {
		return f, nil
	}
	var cmd tea.Cmd
	f.textarea, cmd = f.textarea.Update(msg)
	f.updateHeight()
	return f, cmd
}

// View renders the field.
func (f Field) View() string {
	return f.textarea.View()
}

// InsertNewline inserts a line break at the cursor.
func (f *Field) InsertNewline() {
	f.textarea.InsertRune('\n')
	f.updateHeight()
}
