package tui

import (
	"github.com/charmbracelet/glamour"

	"github.com/aretw0/tracer/pkg/runner"
)

// NewRenderer returns a prompt renderer formatting markdown with glamour,
// wrapped at width columns (0 keeps glamour's default).
func NewRenderer(width int) (runner.ContentRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithAutoStyle()}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return r.Render, nil
}
