// Package layout derives a renderable graph (nodes, edges, geometry) from a
// canonical model plus a geometry cache. Layout is a pure function: the same
// model, cache, and grouping flag always produce the same output, and cached
// user-applied geometry always wins over computed defaults so recomputation
// never destroys a prior spatial arrangement.
package layout

import (
	"fmt"
	"sort"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/resolve"
)

// Geometry constants. Entity width grows with component count beyond four;
// height always reserves at least four component rows.
const (
	entityBaseWidth    = 450.0
	entityWidthStep    = 60.0
	entityHeaderHeight = 50.0
	entityPadding      = 30.0
	entityTileGap      = 60.0
	componentHeight    = 60.0
	componentGap       = 20.0
	minComponentRows   = 4
)

// Opacity levels used in the render graph.
const (
	OpacityFull     = 1.0
	OpacityDisabled = 0.35
	OpacityDimmed   = 0.2
)

// NodeKind distinguishes entity boxes from component nodes.
type NodeKind string

const (
	NodeEntity    NodeKind = "entity"
	NodeComponent NodeKind = "component"
)

// Node is a positioned box in the render graph. Component nodes carry the
// owning entity in Parent when entities are visually grouped.
type Node struct {
	ID      string   `json:"id"`
	Kind    NodeKind `json:"kind"`
	Label   string   `json:"label"`
	Parent  string   `json:"parent,omitempty"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Opacity float64  `json:"opacity"`
}

// Edge is a directed influence rendering. Identity is derived from the
// (source, target, kind) composite, never from call order.
type Edge struct {
	ID      string              `json:"id"`
	Source  string              `json:"source"`
	Target  string              `json:"target"`
	Kind    model.InfluenceKind `json:"kind"`
	Label   string              `json:"label"`
	Color   string              `json:"color"`
	Opacity float64             `json:"opacity"`
}

// UnresolvedRef records an influence endpoint that could not be resolved.
// The corresponding edge is omitted; the model itself is not rejected.
type UnresolvedRef struct {
	Component string `json:"component"`
	From      string `json:"from"`
}

// Graph is the derived render graph.
type Graph struct {
	Nodes      []Node          `json:"nodes"`
	Edges      []Edge          `json:"edges"`
	Unresolved []UnresolvedRef `json:"unresolved,omitempty"`
}

// edgeColors is a three-way categorical encoding keyed by influence kind:
// reinforcing, opposing, and self-referential (decay/ratio) relationships.
var edgeColors = map[model.InfluenceKind]string{
	model.KindPositive: "mediumseagreen",
	model.KindNegative: "tomato",
	model.KindDecay:    "steelblue",
	model.KindRatio:    "steelblue",
}

// EntitySize computes the default box size for an entity with n components.
func EntitySize(n int) (width, height float64) {
	extra := n - minComponentRows
	if extra < 0 {
		extra = 0
	}
	rows := n
	if rows < minComponentRows {
		rows = minComponentRows
	}
	width = entityBaseWidth + float64(extra)*entityWidthStep
	height = entityHeaderHeight + (componentHeight+componentGap)*float64(rows) + 2*entityPadding
	return width, height
}

// Layout derives the render graph. When groupEntities is true, entities tile
// left to right with a fixed gap and components stack inside their parent,
// clipped to its extent. When false, components are independent nodes placed
// from the free-position cache, falling back to their entity's nominal slot.
func Layout(m *model.SystemModel, cache *Cache, groupEntities bool) *Graph {
	if cache == nil {
		cache = NewCache()
	}
	g := &Graph{}
	idx := resolve.BuildIndex(m)

	entityNames := make([]string, 0, len(m.Entities))
	for name := range m.Entities {
		entityNames = append(entityNames, name)
	}
	sort.Strings(entityNames)

	x := 0.0
	for _, entityName := range entityNames {
		e := m.Entities[entityName]

		compNames := make([]string, 0, len(e.Components))
		for name := range e.Components {
			compNames = append(compNames, name)
		}
		sort.Strings(compNames)

		width, height := EntitySize(len(compNames))
		if size, ok := cache.EntitySizes[entityName]; ok {
			width, height = size.Width, size.Height
		}

		if groupEntities {
			g.Nodes = append(g.Nodes, Node{
				ID:      entityName,
				Kind:    NodeEntity,
				Label:   entityName,
				X:       x,
				Y:       0,
				Width:   width,
				Height:  height,
				Opacity: OpacityFull,
			})
		}

		compWidth := width - 2*entityPadding
		for i, compName := range compNames {
			path := model.JoinPath(entityName, compName)
			cx := x + entityPadding
			cy := entityHeaderHeight + entityPadding + float64(i)*(componentHeight+componentGap)

			if groupEntities {
				// Clip to the parent's extent.
				if maxY := height - entityPadding - componentHeight; cy > maxY {
					cy = maxY
				}
			} else if pos, ok := cache.FreePositions[path]; ok {
				cx, cy = pos.X, pos.Y
			}

			node := Node{
				ID:      path,
				Kind:    NodeComponent,
				Label:   compName,
				X:       cx,
				Y:       cy,
				Width:   compWidth,
				Height:  componentHeight,
				Opacity: OpacityFull,
			}
			if groupEntities {
				node.Parent = entityName
			}
			g.Nodes = append(g.Nodes, node)
		}

		x += width + entityTileGap
	}

	g.deriveEdges(m, idx, entityNames)
	return g
}

// deriveEdges emits one edge per resolvable influence, enabled or not.
// Disabled influences are rendered at reduced opacity rather than hidden so
// suppressed relationships stay visible.
func (g *Graph) deriveEdges(m *model.SystemModel, idx resolve.ShortNameIndex, entityNames []string) {
	seen := make(map[string]bool)
	for _, entityName := range entityNames {
		e := m.Entities[entityName]

		compNames := make([]string, 0, len(e.Components))
		for name := range e.Components {
			compNames = append(compNames, name)
		}
		sort.Strings(compNames)

		for _, compName := range compNames {
			c := e.Components[compName]
			target := model.JoinPath(entityName, compName)
			for _, inf := range c.Influences {
				source, ok := resolve.Resolve(m, inf.From, entityName, compName, idx)
				if !ok {
					g.Unresolved = append(g.Unresolved, UnresolvedRef{Component: target, From: inf.From})
					continue
				}

				id := fmt.Sprintf("%s->%s:%s", source, target, inf.Kind)
				if seen[id] {
					continue
				}
				seen[id] = true

				opacity := OpacityFull
				if !inf.Enabled {
					opacity = OpacityDisabled
				}
				g.Edges = append(g.Edges, Edge{
					ID:      id,
					Source:  source,
					Target:  target,
					Kind:    inf.Kind,
					Label:   fmt.Sprintf("%+.2f", inf.Coef),
					Color:   edgeColors[inf.Kind],
					Opacity: opacity,
				})
			}
		}
	}
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	return &Graph{
		Nodes:      append([]Node(nil), g.Nodes...),
		Edges:      append([]Edge(nil), g.Edges...),
		Unresolved: append([]UnresolvedRef(nil), g.Unresolved...),
	}
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
