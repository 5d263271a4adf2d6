package tui

import (
	"os"

	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/format"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const defaultWidth = 80

// RenderOption configures NewRenderer.
type RenderOption func(*renderConfig)

type renderConfig struct {
	style string
	width int
}

// WithStyle forces a glamour standard style ("dark", "light", "notty", ...).
func WithStyle(style string) RenderOption {
	return func(c *renderConfig) {
		c.style = style
	}
}

// WithWidth sets the word wrap width.
func WithWidth(width int) RenderOption {
	return func(c *renderConfig) {
		c.width = width
	}
}

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background unless WithStyle is given.
func NewRenderer(opts ...RenderOption) (func(string) (string, error), error) {
	cfg := renderConfig{width: TerminalWidth(os.Stdout)}
	for _, opt := range opts {
		opt(&cfg)
	}

	styleOpt := glamour.WithAutoStyle()
	if cfg.style != "" {
		styleOpt = glamour.WithStandardStyle(cfg.style)
	}

	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(cfg.width),
	)
	if err != nil {
		return nil, err
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// RenderSolution renders the markdown report of a solution.
func RenderSolution(sol *domain.Solution, opts ...RenderOption) (string, error) {
	render, err := NewRenderer(opts...)
	if err != nil {
		return "", err
	}
	return render(format.Markdown(sol))
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// TerminalWidth returns the width of f, or 80 when it is not a terminal.
func TerminalWidth(f *os.File) int {
	if !IsTerminal(f) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
