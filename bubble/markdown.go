package bubble

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererCache stores glamour renderers by wrap width so bubbles at a
// stable width never rebuild one.
var rendererCache sync.Map // map[int]*glamour.TermRenderer

// GetMarkdownRenderer returns a cached glamour renderer for the given wrap
// width. Width is clamped to 20-120 to keep the cache bounded.
func GetMarkdownRenderer(width int) *glamour.TermRenderer {
	width = clamp(width, 20, 120)

	if r, ok := rendererCache.Load(width); ok {
		return r.(*glamour.TermRenderer)
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}

	// May race with another goroutine storing the same width; either
	// renderer is valid.
	rendererCache.Store(width, r)
	return r
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
