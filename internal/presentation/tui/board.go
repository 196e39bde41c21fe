package tui

import (
	"fmt"
	"io"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
)

// Board is a model.Renderer printing one line per structural change of the
// live run, for terminals without a graphical view.
type Board struct {
	w io.Writer
}

// NewBoard creates a Board writing to w.
func NewBoard(w io.Writer) *Board {
	return &Board{w: w}
}

func (b *Board) Place(n model.Node) {
	fmt.Fprintf(b.w, "  + %s (%s)\n", n.Name(), n.Element())
}

func (b *Board) Update(p *model.Path) {
	fmt.Fprintf(b.w, "  ~ %s = %s\n", p.Name(), p.Value())
}

func (b *Board) Drop(e domain.Element) {
	fmt.Fprintf(b.w, "  - %s\n", e)
}
