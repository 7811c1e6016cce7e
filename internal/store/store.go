// Package store owns the single canonical model instance and exposes
// validated, invariant-preserving mutation operations. It is the only
// writer; every other component receives deep-copied snapshots.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/persist"
)

// ModelStore routes all mutation through one gateway. Each operation runs
// to completion before another can observe intermediate state, and each
// produces a new consistent model or leaves the old one unchanged. Every
// successful mutation persists a full snapshot before returning; a
// persistence failure is logged and swallowed — the in-memory model stays
// authoritative.
type ModelStore struct {
	mu     sync.RWMutex
	model  *model.SystemModel
	snap   persist.Store
	logger *slog.Logger
}

// New creates a ModelStore over an initial model. A nil model starts empty.
// snap may be nil, disabling persistence (used in tests).
func New(m *model.SystemModel, snap persist.Store, logger *slog.Logger) *ModelStore {
	if m == nil {
		m = model.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ModelStore{model: m, snap: snap, logger: logger}
}

// Open creates a ModelStore from the latest persisted snapshot, or an empty
// model when none exists. Snapshot read failures are logged, not fatal.
func Open(ctx context.Context, snap persist.Store, logger *slog.Logger) *ModelStore {
	if logger == nil {
		logger = slog.Default()
	}
	var m *model.SystemModel
	if snap != nil {
		loaded, err := snap.LoadModel(ctx)
		if err != nil {
			logger.Warn("loading model snapshot failed, starting empty", "error", err)
		} else {
			m = loaded
		}
	}
	return New(m, snap, logger)
}

// Model returns a deep-copied snapshot of the canonical model.
func (s *ModelStore) Model() *model.SystemModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model.Clone()
}

// Replace swaps in a new canonical model wholesale (generation, load).
// There is no merge; the previous model is discarded.
func (s *ModelStore) Replace(m *model.SystemModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == nil {
		m = model.New()
	}
	s.model = m.Clone()
	s.persistLocked()
}

// CreateEntity inserts an empty entity. Creating a name that already exists
// is a no-op, not an error.
func (s *ModelStore) CreateEntity(name, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.model.Entities[name]; exists {
		return
	}
	s.model.Entities[name] = &model.Entity{
		Description: description,
		Components:  make(map[string]*model.Component),
	}
	s.persistLocked()
}

// RemoveEntity deletes the entity and scrubs every influence anywhere in
// the remaining model whose from starts with "<name>.".
func (s *ModelStore) RemoveEntity(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.model.Entities[name]; !exists {
		return
	}
	delete(s.model.Entities, name)

	prefix := model.EntityPrefix(name)
	s.scrubInfluencesLocked(func(inf model.Influence) bool {
		return strings.HasPrefix(inf.From, prefix)
	})
	s.persistLocked()
}

// AddComponent adds a component to an entity, creating the entity if it
// does not yet exist. Adding a component that already exists is a no-op.
// The spec is normalized with the documented defaults.
func (s *ModelStore) AddComponent(entity, name string, spec model.ComponentSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.model.Entities[entity]
	if !exists {
		e = &model.Entity{Components: make(map[string]*model.Component)}
		s.model.Entities[entity] = e
	}
	if _, exists := e.Components[name]; exists {
		return
	}
	e.Components[name] = model.NewComponent(spec)
	s.persistLocked()
}

// RemoveComponent deletes the component and scrubs every influence anywhere
// in the model whose from equals its fully-qualified path.
func (s *ModelStore) RemoveComponent(entity, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.model.Entities[entity]
	if !exists {
		return
	}
	if _, exists := e.Components[name]; !exists {
		return
	}
	delete(e.Components, name)

	path := model.JoinPath(entity, name)
	s.scrubInfluencesLocked(func(inf model.Influence) bool {
		return inf.From == path
	})
	s.persistLocked()
}

// AddInfluence appends a normalized influence to the component at path.
func (s *ModelStore) AddInfluence(path string, spec model.InfluenceSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.model.Lookup(path)
	if !ok {
		return fmt.Errorf("component not found: %s", path)
	}
	if spec.From == "" {
		return fmt.Errorf("influence from must not be empty")
	}
	c.Influences = append(c.Influences, model.NewInfluenceSpec(spec))
	s.persistLocked()
	return nil
}

// RemoveInfluence deletes the influence at index from the component's list.
// Indices are positional: after a removal, previously read indices for the
// same list are stale and must be re-read.
func (s *ModelStore) RemoveInfluence(path string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.model.Lookup(path)
	if !ok {
		return fmt.Errorf("component not found: %s", path)
	}
	if index < 0 || index >= len(c.Influences) {
		return fmt.Errorf("influence index %d out of range for %s (have %d)", index, path, len(c.Influences))
	}
	c.Influences = append(c.Influences[:index], c.Influences[index+1:]...)
	s.persistLocked()
	return nil
}

// InfluencePatch carries optional field updates for UpdateInfluence.
type InfluencePatch struct {
	From     *string
	Coef     *float64
	Kind     *model.InfluenceKind
	Function *model.TransferFunction
	Enabled  *bool
}

// UpdateInfluence applies a partial update to the influence at index.
func (s *ModelStore) UpdateInfluence(path string, index int, patch InfluencePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.model.Lookup(path)
	if !ok {
		return fmt.Errorf("component not found: %s", path)
	}
	if index < 0 || index >= len(c.Influences) {
		return fmt.Errorf("influence index %d out of range for %s (have %d)", index, path, len(c.Influences))
	}

	inf := &c.Influences[index]
	if patch.From != nil {
		inf.From = *patch.From
	}
	if patch.Coef != nil {
		inf.Coef = *patch.Coef
	}
	if patch.Kind != nil {
		inf.Kind = *patch.Kind
	}
	if patch.Function != nil {
		inf.Function = *patch.Function
	}
	if patch.Enabled != nil {
		inf.Enabled = *patch.Enabled
	}
	s.persistLocked()
	return nil
}

// UpdateParameter assigns a component's initial value directly. No range
// validation against min/max is enforced here; out-of-bounds values are
// accepted and left to the editing surface to flag.
func (s *ModelStore) UpdateParameter(path string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.model.Lookup(path)
	if !ok {
		return fmt.Errorf("component not found: %s", path)
	}
	c.Initial = value
	s.persistLocked()
	return nil
}

// ComponentPatch carries optional scalar updates for a component.
type ComponentPatch struct {
	Initial *float64
	Min     *float64
	Max     *float64
}

// UpdateComponentParameter applies direct assignments to a component's
// initial/min/max fields.
func (s *ModelStore) UpdateComponentParameter(path string, patch ComponentPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.model.Lookup(path)
	if !ok {
		return fmt.Errorf("component not found: %s", path)
	}
	if patch.Initial != nil {
		c.Initial = *patch.Initial
	}
	if patch.Min != nil {
		c.Min = patch.Min
	}
	if patch.Max != nil {
		c.Max = patch.Max
	}
	s.persistLocked()
	return nil
}

// SimulationPatch carries optional simulation parameter updates.
type SimulationPatch struct {
	DT    *float64
	Steps *int
}

// UpdateSimulationConfig applies direct assignments to the simulation
// parameters.
func (s *ModelStore) UpdateSimulationConfig(patch SimulationPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.DT != nil {
		s.model.Simulation.DT = *patch.DT
	}
	if patch.Steps != nil {
		s.model.Simulation.Steps = *patch.Steps
	}
	s.persistLocked()
}

// scrubInfluencesLocked drops every influence in the model matched by drop.
func (s *ModelStore) scrubInfluencesLocked(drop func(model.Influence) bool) {
	for _, e := range s.model.Entities {
		for _, c := range e.Components {
			kept := c.Influences[:0]
			for _, inf := range c.Influences {
				if !drop(inf) {
					kept = append(kept, inf)
				}
			}
			c.Influences = kept
		}
	}
}

// persistLocked writes a full snapshot of the current model. Failures are
// logged and otherwise ignored; they never block or roll back a mutation.
func (s *ModelStore) persistLocked() {
	if s.snap == nil {
		return
	}
	if err := s.snap.SaveModel(context.Background(), s.model); err != nil {
		s.logger.Warn("persisting model snapshot failed", "error", err)
	}
}
