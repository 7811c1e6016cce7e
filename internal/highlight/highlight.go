// Package highlight derives focus-based visual emphasis for a render graph.
package highlight

import "github.com/gyxcit/simdecision/internal/layout"

// Highlight returns a copy of the graph with everything outside the 1-hop
// neighborhood of focusID dimmed. The neighborhood is focusID itself plus
// every node that shares an edge with it; this is not a transitive closure.
// Nothing is removed, so spatial context is preserved. An empty focusID is
// the identity: the graph is returned at full emphasis.
func Highlight(g *layout.Graph, focusID string) *layout.Graph {
	out := g.Clone()
	if focusID == "" {
		return out
	}

	keep := map[string]bool{focusID: true}
	for _, e := range g.Edges {
		if e.Source == focusID {
			keep[e.Target] = true
		}
		if e.Target == focusID {
			keep[e.Source] = true
		}
	}

	// A focused component keeps its owning entity box active.
	if n := g.Node(focusID); n != nil && n.Parent != "" {
		keep[n.Parent] = true
	}

	for i := range out.Nodes {
		if !keep[out.Nodes[i].ID] {
			out.Nodes[i].Opacity = layout.OpacityDimmed
		}
	}
	for i := range out.Edges {
		e := &out.Edges[i]
		if e.Source != focusID && e.Target != focusID {
			e.Opacity = layout.OpacityDimmed
		}
	}
	return out
}
