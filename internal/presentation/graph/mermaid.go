// Package graph renders the data structures of a run as Mermaid diagrams.
package graph

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/tracer/pkg/domain"
	"github.com/aretw0/tracer/pkg/model"
)

// Overlay contains dynamic state data to visualize on the diagram.
type Overlay struct {
	// Current lists the elements the pending step is about.
	Current []domain.Element
}

// GenerateMermaid produces a Mermaid flowchart of every live node of a.
// It applies semantic styling:
// - Vertex: ((Circle))
// - Node nested in another node's slot: [[Subroutine]]
// - Default: [Rectangle], one row per visible slot
// Refs and addresses become labeled arrows, embedded nodes a plain link and
// graph edges a link (an arrow when directed).
func GenerateMermaid(a *model.Arena, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	nodes := a.Nodes()
	for _, n := range nodes {
		opener, closer := "[", "]"
		switch {
		case isVertex(n):
			opener, closer = "((", "))"
		case !n.TopLevel():
			opener, closer = "[[", "]]"
		}

		rows := []string{escape(n.Name())}
		for _, key := range n.Keys() {
			p := n.Get(key)
			if p == nil {
				continue
			}
			if linked(p.Value()) {
				rows = append(rows, escape(key))
				continue
			}
			rows = append(rows, escape(key+": "+p.Value().String()))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(n), opener, strings.Join(rows, "<br/>"), closer)
	}

	for _, n := range nodes {
		for _, key := range n.Keys() {
			p := n.Get(key)
			if p == nil {
				continue
			}
			v := p.Value()
			switch v.Kind() {
			case model.KindRef:
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(n), escape(key), nodeID(v.Node()))
			case model.KindAddr:
				target := v.Path()
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", nodeID(n), escape(key+" → &"+target.Name()), nodeID(target.Owner()))
			case model.KindEmbedded:
				fmt.Fprintf(&sb, "    %s --- %s\n", nodeID(n), nodeID(v.Node()))
			}
		}
	}

	for _, e := range a.Edges() {
		link := "---"
		if e.Directed() {
			link = "-->"
		}
		if label := e.Label(); !label.IsNil() {
			link = fmt.Sprintf("-- \"%s\" %s", escape(label.String()), link)
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", nodeID(e.From()), link, nodeID(e.To()))
	}

	if overlay != nil && len(overlay.Current) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		var marked []string
		for _, el := range overlay.Current {
			id := owner(a, el)
			if id != "" && !slices.Contains(marked, id) {
				marked = append(marked, id)
				fmt.Fprintf(&sb, "    class %s current;\n", id)
			}
		}
	}

	return sb.String()
}

// owner returns the diagram node an element is drawn in, or "" when it has none.
func owner(a *model.Arena, el domain.Element) string {
	v, ok := a.Lookup(el)
	if !ok {
		return ""
	}
	switch v.Kind() {
	case model.KindAddr:
		return nodeID(v.Path().Owner())
	case model.KindRef, model.KindEmbedded:
		return nodeID(v.Node())
	case model.KindEdge:
		return nodeID(v.Edge().From())
	}
	return ""
}

func linked(v model.Value) bool {
	switch v.Kind() {
	case model.KindRef, model.KindAddr, model.KindEmbedded:
		return true
	}
	return false
}

func isVertex(n model.Node) bool {
	_, ok := n.(*model.Vertex)
	return ok
}

func nodeID(n model.Node) string {
	return fmt.Sprintf("n%d", n.ID())
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
