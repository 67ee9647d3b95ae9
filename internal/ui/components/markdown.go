package components

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"golang.org/x/term"
)

// MarkdownRenderer caches a glamour renderer for one wrap width and
// recreates it when the width changes.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

func noteStyle() ansi.StyleConfig {
	style := glamourstyles.NoTTYStyleConfig
	if term.IsTerminal(int(os.Stdout.Fd())) {
		style = glamourstyles.DarkStyleConfig
	}
	style.Document.Margin = uintPtr(0)
	return style
}

func uintPtr(v uint) *uint { return &v }

// Render renders session notes as markdown. It returns the input unchanged
// when rendering fails or width is not positive.
func (r *MarkdownRenderer) Render(content string, width int) string {
	if width <= 0 || strings.TrimSpace(content) == "" {
		return content
	}
	if r.renderer == nil || r.width != width {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStyles(noteStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return content
		}
		r.renderer = renderer
		r.width = width
	}
	out, err := r.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(out, "\n")
}
