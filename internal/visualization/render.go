// Package visualization renders layout graphs in various output formats and
// serves them over a local HTTP API.
package visualization

import (
	"fmt"
	"strings"

	"github.com/gyxcit/simdecision/internal/layout"
)

// Format specifies the output format for graph rendering.
type Format string

const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// RenderDOT produces a Graphviz DOT representation of a layout graph.
// Grouped entities become clusters; disabled and dimmed elements render
// with dashed or faded styles so the DOT output mirrors the canvas.
func RenderDOT(g *layout.Graph, grouped bool) string {
	var b strings.Builder
	b.WriteString("digraph simdecision {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=filled, fontname=\"Helvetica\"];\n")
	b.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n\n")

	if grouped {
		renderClusters(&b, g)
	} else {
		for _, node := range g.Nodes {
			if node.Kind != layout.NodeComponent {
				continue
			}
			writeComponentNode(&b, node)
		}
	}
	b.WriteString("\n")

	for _, edge := range g.Edges {
		style := "solid"
		if edge.Opacity < layout.OpacityFull {
			style = "dashed"
		}
		b.WriteString(fmt.Sprintf("  %q -> %q [label=%q, color=%q, style=%s];\n",
			edge.Source, edge.Target, edge.Label, edge.Color, style))
	}

	b.WriteString("}\n")
	return b.String()
}

// renderClusters writes one subgraph cluster per entity node, with its
// component nodes inside.
func renderClusters(b *strings.Builder, g *layout.Graph) {
	for i, entity := range g.Nodes {
		if entity.Kind != layout.NodeEntity {
			continue
		}
		fmt.Fprintf(b, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(b, "    label=%q;\n", entity.Label)
		b.WriteString("    style=rounded;\n")
		for _, node := range g.Nodes {
			if node.Kind != layout.NodeComponent || node.Parent != entity.ID {
				continue
			}
			b.WriteString("  ")
			writeComponentNode(b, node)
		}
		b.WriteString("  }\n")
	}
}

func writeComponentNode(b *strings.Builder, node layout.Node) {
	fill := "lightsteelblue"
	if node.Opacity < layout.OpacityFull {
		fill = "lightgray"
	}
	fmt.Fprintf(b, "  %q [label=%q, fillcolor=%q];\n", node.ID, node.Label, fill)
}

// RenderJSON produces a JSON-ready graph representation with nodes and
// edges arrays plus any unresolved influence references.
func RenderJSON(g *layout.Graph) map[string]interface{} {
	jsonNodes := make([]map[string]interface{}, 0, len(g.Nodes))
	for _, node := range g.Nodes {
		entry := map[string]interface{}{
			"id":      node.ID,
			"kind":    string(node.Kind),
			"label":   node.Label,
			"x":       node.X,
			"y":       node.Y,
			"width":   node.Width,
			"height":  node.Height,
			"opacity": node.Opacity,
		}
		if node.Parent != "" {
			entry["parent"] = node.Parent
		}
		jsonNodes = append(jsonNodes, entry)
	}

	jsonEdges := make([]map[string]interface{}, 0, len(g.Edges))
	for _, edge := range g.Edges {
		jsonEdges = append(jsonEdges, map[string]interface{}{
			"id":      edge.ID,
			"source":  edge.Source,
			"target":  edge.Target,
			"kind":    string(edge.Kind),
			"label":   edge.Label,
			"color":   edge.Color,
			"opacity": edge.Opacity,
		})
	}

	jsonUnresolved := make([]map[string]interface{}, 0, len(g.Unresolved))
	for _, u := range g.Unresolved {
		jsonUnresolved = append(jsonUnresolved, map[string]interface{}{
			"component": u.Component,
			"from":      u.From,
		})
	}

	return map[string]interface{}{
		"nodes":      jsonNodes,
		"edges":      jsonEdges,
		"unresolved": jsonUnresolved,
		"node_count": len(jsonNodes),
		"edge_count": len(jsonEdges),
	}
}
