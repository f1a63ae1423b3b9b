// Package styles provides theming for the chat screen: a default palette
// and a partially-specifiable Style whose unset fields resolve against the
// palette at apply-time.
package styles

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme defines the fallback color palette for the chat screen.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color

	FgBase   lipgloss.Color
	FgMuted  lipgloss.Color
	FgSubtle lipgloss.Color

	BgBase        lipgloss.Color
	BgBaseLighter lipgloss.Color
	Border        lipgloss.Color

	OutgoingBubble lipgloss.Color
	IncomingBubble lipgloss.Color
}

// DefaultTheme returns the default dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#a78bfa"),
		Secondary: lipgloss.Color("#67e8f9"),

		FgBase:   lipgloss.Color("#f4f4f5"),
		FgMuted:  lipgloss.Color("#a1a1aa"),
		FgSubtle: lipgloss.Color("#52525b"),

		BgBase:        lipgloss.Color("#18181b"),
		BgBaseLighter: lipgloss.Color("#27272a"),
		Border:        lipgloss.Color("#3f3f46"),

		OutgoingBubble: lipgloss.Color("#2563eb"),
		IncomingBubble: lipgloss.Color("#27272a"),
	}
}

// currentTheme is the active theme.
var currentTheme = DefaultTheme()

// CurrentTheme returns the current theme.
func CurrentTheme() *Theme {
	return currentTheme
}

// SetTheme sets the current theme.
func SetTheme(t *Theme) {
	currentTheme = t
}

// Style is the host-facing appearance configuration. Every field is
// optional; an empty color or nil pointer means "use the theme default".
// Fields are independent of each other and are only read when the style is
// applied to a live screen.
type Style struct {
	// TextColor is the input text color while editing.
	TextColor string `yaml:"text_color"`
	// PlaceholderColor is the hint text color while the input is empty.
	PlaceholderColor string `yaml:"placeholder_color"`
	// DateColor is the color of the date line under a bubble.
	DateColor string `yaml:"date_color"`

	// OutgoingBubbleColor and OutgoingTextColor style messages the local
	// user sent.
	OutgoingBubbleColor string `yaml:"outgoing_bubble_color"`
	OutgoingTextColor   string `yaml:"outgoing_text_color"`

	// IncomingBubbleColor and IncomingTextColor style messages from the
	// other party.
	IncomingBubbleColor string `yaml:"incoming_bubble_color"`
	IncomingTextColor   string `yaml:"incoming_text_color"`

	// SendLabel is the send button text; SendLabelColor its color.
	SendLabel      string `yaml:"send_label"`
	SendLabelColor string `yaml:"send_label_color"`

	// InputBorderColor frames the input area.
	InputBorderColor string `yaml:"input_border_color"`

	// BubblePadding is the horizontal padding inside a bubble.
	BubblePadding *int `yaml:"bubble_padding"`
}

// Resolved is a Style with every field concretized against a theme. It is
// produced at apply-time so a partially specified Style never has to carry
// defaults itself.
type Resolved struct {
	TextColor        lipgloss.Color
	PlaceholderColor lipgloss.Color
	DateColor        lipgloss.Color

	OutgoingBubbleColor lipgloss.Color
	OutgoingTextColor   lipgloss.Color
	IncomingBubbleColor lipgloss.Color
	IncomingTextColor   lipgloss.Color

	SendLabel      string
	SendLabelColor lipgloss.Color

	InputBorderColor lipgloss.Color

	BubblePadding int
}

// DefaultSendLabel is the send button text when the style leaves it unset.
const DefaultSendLabel = "Send"

// Resolve fills in every unset field from the theme. A nil theme resolves
// against the current theme.
func (s Style) Resolve(theme *Theme) Resolved {
	if theme == nil {
		theme = CurrentTheme()
	}

	r := Resolved{
		TextColor:        pick(s.TextColor, theme.FgBase),
		PlaceholderColor: pick(s.PlaceholderColor, theme.FgMuted),
		DateColor:        pick(s.DateColor, theme.FgSubtle),

		OutgoingBubbleColor: pick(s.OutgoingBubbleColor, theme.OutgoingBubble),
		OutgoingTextColor:   pick(s.OutgoingTextColor, theme.FgBase),
		IncomingBubbleColor: pick(s.IncomingBubbleColor, theme.IncomingBubble),
		IncomingTextColor:   pick(s.IncomingTextColor, theme.FgBase),

		SendLabel:      s.SendLabel,
		SendLabelColor: pick(s.SendLabelColor, theme.Primary),

		InputBorderColor: pick(s.InputBorderColor, theme.Primary),

		BubblePadding: 1,
	}

	if r.SendLabel == "" {
		r.SendLabel = DefaultSendLabel
	}
	if s.BubblePadding != nil && *s.BubblePadding >= 0 {
		r.BubblePadding = *s.BubblePadding
	}

	return r
}

func pick(set string, fallback lipgloss.Color) lipgloss.Color {
	if set == "" {
		return fallback
	}
	return lipgloss.Color(set)
}

// Load reads a Style from a YAML theme file.
func Load(path string) (Style, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Style{}, fmt.Errorf("reading theme file: %w", err)
	}
	var s Style
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Style{}, fmt.Errorf("parsing theme file: %w", err)
	}
	return s, nil
}
