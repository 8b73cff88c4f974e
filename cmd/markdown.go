package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
)

// wordWrap is the terminal width glamour wraps paragraphs at.
const wordWrap = 120

// printMarkdown prints md to out, styled when out is a terminal.
func printMarkdown(md string) {
	fmt.Fprint(out, renderMarkdown(md, isTerminal()))
}

// isTerminal reports whether out is a terminal.
func isTerminal() bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderMarkdown returns md as is, or styled for the terminal. A styling
// failure falls back to the raw markdown.
func renderMarkdown(md string, terminal bool) string {
	if !terminal {
		return md
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wordWrap))
	if err != nil {
		return md
	}
	styled, err := r.Render(md)
	if err != nil {
		return md
	}
	return styled
}
