package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// mdRenderer renders markdown to terminal-formatted output.
var mdRenderer *glamour.TermRenderer

func initMarkdownRenderer(width int) {
	if width < 20 {
		width = 20
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return
	}

	mdRenderer = r
}

// renderMarkdown renders text through glamour, falling back to the raw text
// when no renderer is available or rendering fails.
func renderMarkdown(text string) string {
	if mdRenderer == nil {
		return text
	}

	rendered, err := mdRenderer.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimRight(rendered, "\n")
}
