package layout

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/gyxcit/simdecision/internal/model"
)

// buildModel constructs a Tank/Valve model with one influence.
func buildModel() *model.SystemModel {
	m := model.New()
	m.Entities["Tank"] = &model.Entity{
		Components: map[string]*model.Component{
			"level": {
				Type:    model.TypeState,
				Initial: 0.5,
				Influences: []model.Influence{
					{From: "Valve.open", Coef: 0.1, Kind: model.KindPositive, Function: model.FuncLinear, Enabled: true},
				},
			},
		},
	}
	m.Entities["Valve"] = &model.Entity{
		Components: map[string]*model.Component{
			"open": {Type: model.TypeConstant, Initial: 1},
		},
	}
	return m
}

func TestEntitySize(t *testing.T) {
	tests := []struct {
		n          int
		wantWidth  float64
		wantHeight float64
	}{
		{0, 450, 430},
		{1, 450, 430},
		{4, 450, 430},
		{5, 510, 510},
		{6, 570, 590},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			width, height := EntitySize(tt.n)
			if width != tt.wantWidth {
				t.Errorf("width = %g, want %g", width, tt.wantWidth)
			}
			if height != tt.wantHeight {
				t.Errorf("height = %g, want %g", height, tt.wantHeight)
			}
		})
	}
}

// TestLayoutIdempotent verifies the same inputs always derive the same graph.
func TestLayoutIdempotent(t *testing.T) {
	m := buildModel()
	cache := NewCache()

	first := Layout(m, cache, true)
	for i := 0; i < 10; i++ {
		again := Layout(m, cache, true)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("layout pass %d differs from first pass", i)
		}
	}
}

func TestLayoutGrouped(t *testing.T) {
	g := Layout(buildModel(), nil, true)

	// Two entity nodes plus two component nodes.
	if len(g.Nodes) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(g.Nodes))
	}

	tank := g.Node("Tank")
	if tank == nil || tank.Kind != NodeEntity {
		t.Fatal("missing Tank entity node")
	}
	level := g.Node("Tank.level")
	if level == nil || level.Kind != NodeComponent {
		t.Fatal("missing Tank.level component node")
	}
	if level.Parent != "Tank" {
		t.Errorf("grouped component parent = %q, want Tank", level.Parent)
	}

	// Entities tile left to right in sorted order with a fixed gap.
	valve := g.Node("Valve")
	if valve.X != tank.X+tank.Width+entityTileGap {
		t.Errorf("Valve.X = %g, want %g", valve.X, tank.X+tank.Width+entityTileGap)
	}

	// Components sit inside the parent's padding.
	if level.X != tank.X+entityPadding {
		t.Errorf("component X = %g, want %g", level.X, tank.X+entityPadding)
	}
	if level.Y != entityHeaderHeight+entityPadding {
		t.Errorf("component Y = %g, want %g", level.Y, entityHeaderHeight+entityPadding)
	}
}

func TestLayoutUngrouped(t *testing.T) {
	g := Layout(buildModel(), nil, false)

	// No entity nodes, only components.
	for _, node := range g.Nodes {
		if node.Kind == NodeEntity {
			t.Fatalf("ungrouped layout produced an entity node: %s", node.ID)
		}
		if node.Parent != "" {
			t.Fatalf("ungrouped component has a parent: %s", node.ID)
		}
	}
	if len(g.Nodes) != 2 {
		t.Fatalf("expected 2 component nodes, got %d", len(g.Nodes))
	}
}

// TestCachePrecedence verifies cached geometry always wins over computed
// defaults.
func TestCachePrecedence(t *testing.T) {
	m := buildModel()

	cache := NewCache()
	cache.SetEntitySize("Tank", 900, 700)
	cache.SetFreePosition("Tank.level", 123, 456)

	grouped := Layout(m, cache, true)
	tank := grouped.Node("Tank")
	if tank.Width != 900 || tank.Height != 700 {
		t.Errorf("cached entity size ignored: %gx%g", tank.Width, tank.Height)
	}

	ungrouped := Layout(m, cache, false)
	level := ungrouped.Node("Tank.level")
	if level.X != 123 || level.Y != 456 {
		t.Errorf("cached free position ignored: (%g, %g)", level.X, level.Y)
	}
}

func TestDisabledInfluenceOpacity(t *testing.T) {
	m := buildModel()
	m.Entities["Tank"].Components["level"].Influences[0].Enabled = false

	g := Layout(m, nil, true)
	if len(g.Edges) != 1 {
		t.Fatalf("disabled influence should still render an edge, got %d", len(g.Edges))
	}
	if g.Edges[0].Opacity != OpacityDisabled {
		t.Errorf("disabled edge opacity = %g, want %g", g.Edges[0].Opacity, OpacityDisabled)
	}
}

func TestUnresolvedInfluenceSkipped(t *testing.T) {
	m := buildModel()
	c := m.Entities["Tank"].Components["level"]
	c.Influences = append(c.Influences, model.Influence{
		From: "Ghost.var", Coef: 0.1, Kind: model.KindPositive, Function: model.FuncLinear, Enabled: true,
	})

	g := Layout(m, nil, true)
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge (unresolved skipped), got %d", len(g.Edges))
	}
	if len(g.Unresolved) != 1 {
		t.Fatalf("expected 1 unresolved ref, got %d", len(g.Unresolved))
	}
	u := g.Unresolved[0]
	if u.Component != "Tank.level" || u.From != "Ghost.var" {
		t.Errorf("unresolved ref = %+v", u)
	}
}

func TestEdgeIdentityAndDedup(t *testing.T) {
	m := buildModel()
	c := m.Entities["Tank"].Components["level"]
	// Duplicate (source, target, kind): only one edge.
	c.Influences = append(c.Influences, c.Influences[0])

	g := Layout(m, nil, true)
	if len(g.Edges) != 1 {
		t.Fatalf("duplicate (source,target,kind) should dedup, got %d edges", len(g.Edges))
	}
	e := g.Edges[0]
	if e.ID != "Valve.open->Tank.level:positive" {
		t.Errorf("edge id = %q", e.ID)
	}
	if e.Color != "mediumseagreen" {
		t.Errorf("positive edge color = %q", e.Color)
	}
	if e.Label != "+0.10" {
		t.Errorf("edge label = %q", e.Label)
	}
}

func TestEdgeColors(t *testing.T) {
	m := buildModel()
	c := m.Entities["Tank"].Components["level"]
	c.Influences = []model.Influence{
		{From: "Valve.open", Coef: 0.1, Kind: model.KindNegative, Function: model.FuncLinear, Enabled: true},
		{From: "self", Coef: 0.05, Kind: model.KindDecay, Function: model.FuncLinear, Enabled: true},
	}

	g := Layout(m, nil, true)
	if len(g.Edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(g.Edges))
	}
	colors := map[model.InfluenceKind]string{}
	for _, e := range g.Edges {
		colors[e.Kind] = e.Color
	}
	if colors[model.KindNegative] != "tomato" {
		t.Errorf("negative color = %q", colors[model.KindNegative])
	}
	if colors[model.KindDecay] != "steelblue" {
		t.Errorf("decay color = %q", colors[model.KindDecay])
	}
}

func TestSelfReferenceEdge(t *testing.T) {
	m := buildModel()
	c := m.Entities["Tank"].Components["level"]
	c.Influences = []model.Influence{
		{From: "self", Coef: 0.05, Kind: model.KindDecay, Function: model.FuncLinear, Enabled: true},
	}

	g := Layout(m, nil, true)
	if len(g.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(g.Edges))
	}
	if g.Edges[0].Source != "Tank.level" || g.Edges[0].Target != "Tank.level" {
		t.Errorf("self edge endpoints: %s -> %s", g.Edges[0].Source, g.Edges[0].Target)
	}
}

func TestComponentClipping(t *testing.T) {
	// Shrink the cached entity height so later components would overflow.
	m := model.New()
	comps := map[string]*model.Component{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f"} {
		comps[name] = &model.Component{Type: model.TypeState}
	}
	m.Entities["Big"] = &model.Entity{Components: comps}

	cache := NewCache()
	cache.SetEntitySize("Big", 450, 200)

	g := Layout(m, cache, true)
	maxY := 200.0 - entityPadding - componentHeight
	for _, node := range g.Nodes {
		if node.Kind != NodeComponent {
			continue
		}
		if node.Y > maxY {
			t.Errorf("component %s at Y=%g exceeds parent clip %g", node.ID, node.Y, maxY)
		}
	}
}
