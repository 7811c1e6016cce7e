package proposal

import (
	"io"
	"log/slog"
	"testing"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/store"
)

func newStore(t *testing.T) *store.ModelStore {
	t.Helper()
	s := store.New(nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.AddComponent("Tank", "level", model.ComponentSpec{Type: model.TypeState, Initial: 0.5})
	s.AddComponent("Valve", "open", model.ComponentSpec{Type: model.TypeConstant, Initial: 1})
	return s
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestApplyFieldChanges(t *testing.T) {
	s := newStore(t)

	p := &Proposal{
		Changes: []FieldChange{
			{Path: "Tank.level", Field: "initial", OldValue: 0.5, NewValue: 0.8},
			{Path: "Tank.level", Field: "min", NewValue: 0},
			{Path: "Tank.level", Field: "max", NewValue: 1},
			{Path: "simulation", Field: "dt", NewValue: 0.05},
			{Path: "simulation", Field: "steps", NewValue: 500},
		},
	}

	if err := Apply(s, p, nil); err != nil {
		t.Fatal(err)
	}

	m := s.Model()
	c := m.Entities["Tank"].Components["level"]
	if c.Initial != 0.8 || c.Min == nil || *c.Min != 0 || c.Max == nil || *c.Max != 1 {
		t.Errorf("field changes not applied: %+v", c)
	}
	if m.Simulation.DT != 0.05 || m.Simulation.Steps != 500 {
		t.Errorf("simulation changes not applied: %+v", m.Simulation)
	}
}

// TestApplyApprovalGate verifies structural changes replay only when their
// index was approved.
func TestApplyApprovalGate(t *testing.T) {
	s := newStore(t)

	p := &Proposal{
		OtherChanges: []AdditionalChange{
			{Op: OpCreateEntity, Entity: "Pump", Description: "feed pump"},
			{Op: OpAddInfluence, Path: "Tank.level", Influence: &model.InfluenceSpec{From: "Valve.open"}},
			{Op: OpRemoveEntity, Entity: "Valve"},
		},
	}

	// Approve the entity creation and the influence, reject the removal.
	if err := Apply(s, p, []int{0, 1}); err != nil {
		t.Fatal(err)
	}

	m := s.Model()
	if _, ok := m.Entities["Pump"]; !ok {
		t.Error("approved create_entity not applied")
	}
	if n := len(m.Entities["Tank"].Components["level"].Influences); n != 1 {
		t.Errorf("approved add_influence not applied: %d influences", n)
	}
	if _, ok := m.Entities["Valve"]; !ok {
		t.Error("unapproved remove_entity was applied")
	}
}

func TestApplyNothingApproved(t *testing.T) {
	s := newStore(t)

	p := &Proposal{
		OtherChanges: []AdditionalChange{
			{Op: OpRemoveEntity, Entity: "Tank"},
		},
	}

	if err := Apply(s, p, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Model().Entities["Tank"]; !ok {
		t.Error("nothing was approved yet Tank is gone")
	}
}

func TestApplyStructuralOps(t *testing.T) {
	s := newStore(t)

	p := &Proposal{
		OtherChanges: []AdditionalChange{
			{Op: OpAddComponent, Entity: "Tank", Name: "pressure", Component: &model.ComponentSpec{Type: model.TypeState, Initial: 1}},
			{Op: OpAddInfluence, Path: "Tank.level", Influence: &model.InfluenceSpec{From: "Valve.open", Coef: floatPtr(0.3)}},
			{Op: OpUpdateInfluence, Path: "Tank.level", Index: intPtr(0), Influence: &model.InfluenceSpec{Coef: floatPtr(0.7)}},
			{Op: OpSetParameter, Path: "Tank.level", Value: floatPtr(0.25)},
			{Op: OpRemoveComponent, Entity: "Valve", Name: "open"},
		},
	}

	if err := Apply(s, p, []int{0, 1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}

	m := s.Model()
	if _, ok := m.Entities["Tank"].Components["pressure"]; !ok {
		t.Error("add_component not applied")
	}
	level := m.Entities["Tank"].Components["level"]
	if level.Initial != 0.25 {
		t.Errorf("set_parameter not applied: %g", level.Initial)
	}
	// Removing Valve.open scrubs the influence that referenced it.
	if n := len(level.Influences); n != 0 {
		t.Errorf("expected influence scrubbed after component removal, got %d", n)
	}
	if _, ok := m.Entities["Valve"].Components["open"]; ok {
		t.Error("remove_component not applied")
	}
}

func TestApplyUpdateInfluenceCoef(t *testing.T) {
	s := newStore(t)
	if err := s.AddInfluence("Tank.level", model.InfluenceSpec{From: "Valve.open"}); err != nil {
		t.Fatal(err)
	}

	p := &Proposal{
		OtherChanges: []AdditionalChange{
			{Op: OpUpdateInfluence, Path: "Tank.level", Index: intPtr(0), Influence: &model.InfluenceSpec{Coef: floatPtr(0.9)}},
		},
	}
	if err := Apply(s, p, []int{0}); err != nil {
		t.Fatal(err)
	}

	inf := s.Model().Entities["Tank"].Components["level"].Influences[0]
	if inf.Coef != 0.9 {
		t.Errorf("coef = %g, want 0.9", inf.Coef)
	}
	// From was not in the patch and must survive.
	if inf.From != "Valve.open" {
		t.Errorf("from changed unexpectedly: %q", inf.From)
	}
}

func TestApplyReportsFailure(t *testing.T) {
	s := newStore(t)

	p := &Proposal{
		Changes: []FieldChange{
			{Path: "Ghost.var", Field: "initial", NewValue: 1},
		},
	}
	if err := Apply(s, p, nil); err == nil {
		t.Error("applying to a missing component should error")
	}
}
