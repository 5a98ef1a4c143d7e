package model

import (
	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/electr1fy0/lexicon/config"
)

func renderMarkdown(md string, width int) (string, error) {
	if width < 40 {
		width = 40
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return "", err
	}
	return r.Render(md)
}

func renderMarkdownToANSI(md string, width int) string {
	if width < 40 {
		width = 40
	}
	return string(markdown.Render(md, width-4, 2))
}

// renderNote draws a note for the detail pane. glamour falls back to the
// lighter ANSI renderer if it fails.
func renderNote(md string, width int, mode string) string {
	if md == "" {
		return helpStyle.Render("No notes yet. Press tab to write some.")
	}
	switch mode {
	case config.RenderPlain:
		if width < 20 {
			width = 20
		}
		return wordwrap.String(md, width-2)
	case config.RenderANSI:
		return renderMarkdownToANSI(md, width)
	default:
		if out, err := renderMarkdown(md, width); err == nil {
			return out
		}
		return renderMarkdownToANSI(md, width)
	}
}
