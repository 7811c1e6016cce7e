// Package simulation integrates causal models over time. It provides a
// local Euler engine plus a client for the external simulation service,
// with the local engine serving as the fallback when the service fails.
package simulation

import (
	"fmt"
	"math"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/resolve"
)

// Result is a complete simulation run: an opaque time series indexed by
// fully-qualified variable path.
type Result struct {
	TimePoints []float64            `json:"time_points"`
	History    []map[string]float64 `json:"history"`
	FinalState map[string]float64   `json:"final_state"`
}

// VariableHistory extracts the time series for one variable.
func (r *Result) VariableHistory(path string) []float64 {
	out := make([]float64, len(r.History))
	for i, state := range r.History {
		out[i] = state[path]
	}
	return out
}

// varMeta caches per-variable integration metadata.
type varMeta struct {
	entity     string
	component  string
	typ        model.ComponentType
	min, max   *float64
	influences []model.Influence
}

// Engine performs Euler explicit integration over a model snapshot:
// x(t+1) = x(t) + dt * f(x), where f accumulates the enabled influences on
// each state variable. Computed variables update algebraically; constants
// never change.
type Engine struct {
	model *model.SystemModel
	idx   resolve.ShortNameIndex
	state map[string]float64
	meta  map[string]varMeta
	order []string
}

// NewEngine initializes an engine from a deep copy of the model.
func NewEngine(m *model.SystemModel) *Engine {
	e := &Engine{model: m.Clone()}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.idx = resolve.BuildIndex(e.model)
	e.state = make(map[string]float64)
	e.meta = make(map[string]varMeta)
	e.order = e.order[:0]
	for entityName, entity := range e.model.Entities {
		for compName, c := range entity.Components {
			path := model.JoinPath(entityName, compName)
			e.state[path] = c.Initial
			e.meta[path] = varMeta{
				entity:     entityName,
				component:  compName,
				typ:        c.Type,
				min:        c.Min,
				max:        c.Max,
				influences: c.Influences,
			}
			e.order = append(e.order, path)
		}
	}
}

// State returns a copy of the current variable values.
func (e *Engine) State() map[string]float64 {
	out := make(map[string]float64, len(e.state))
	for k, v := range e.state {
		out[k] = v
	}
	return out
}

// SetParameter assigns a variable's current value, clamped to its bounds.
func (e *Engine) SetParameter(path string, value float64) error {
	meta, ok := e.meta[path]
	if !ok {
		return fmt.Errorf("unknown variable: %s", path)
	}
	e.state[path] = clamp(value, meta.min, meta.max)
	return nil
}

// derivative accumulates the enabled influence contributions for one
// variable. An unresolved source contributes from a zero value.
func (e *Engine) derivative(path string) float64 {
	meta := e.meta[path]
	d := 0.0
	for _, inf := range meta.influences {
		if !inf.Enabled {
			continue
		}

		sourceValue := 0.0
		if src, ok := resolve.Resolve(e.model, inf.From, meta.entity, meta.component, e.idx); ok {
			sourceValue = e.state[src]
		}

		contribution := applyTransfer(inf.Function, sourceValue, inf.Coef)

		switch inf.Kind {
		case model.KindNegative:
			contribution = -math.Abs(contribution)
		case model.KindDecay:
			// Decay is proportional to the current value.
			contribution = inf.Coef * e.state[path]
		case model.KindRatio:
			if current := e.state[path]; current != 0 {
				contribution = inf.Coef * (sourceValue / current)
			} else {
				contribution = 0.0
			}
		}

		d += contribution
	}
	return d
}

// Step executes one integration step and returns the new state.
// Derivatives are computed for all variables before any update is applied,
// so the step is synchronous across the model.
func (e *Engine) Step(dt float64) map[string]float64 {
	derivatives := make(map[string]float64, len(e.order))
	for _, path := range e.order {
		if typ := e.meta[path].typ; typ == model.TypeState || typ == model.TypeComputed {
			derivatives[path] = e.derivative(path)
		}
	}

	for _, path := range e.order {
		meta := e.meta[path]
		switch meta.typ {
		case model.TypeState:
			e.state[path] = clamp(e.state[path]+dt*derivatives[path], meta.min, meta.max)
		case model.TypeComputed:
			e.state[path] = clamp(e.state[path]+derivatives[path], meta.min, meta.max)
		}
		// Constants don't change.
	}

	return e.State()
}

// Run executes a complete simulation, recording the initial state plus one
// entry per step. Zero steps/dt fall back to the model's parameters.
func (e *Engine) Run(steps int, dt float64) *Result {
	if steps <= 0 {
		steps = e.model.Simulation.Steps
	}
	if dt <= 0 {
		dt = e.model.Simulation.DT
	}

	result := &Result{
		History:    make([]map[string]float64, 0, steps+1),
		TimePoints: make([]float64, 0, steps+1),
	}
	result.History = append(result.History, e.State())
	result.TimePoints = append(result.TimePoints, 0.0)

	for i := 0; i < steps; i++ {
		state := e.Step(dt)
		result.History = append(result.History, state)
		result.TimePoints = append(result.TimePoints, float64(i+1)*dt)
	}

	result.FinalState = e.State()
	return result
}

func clamp(v float64, min, max *float64) float64 {
	if min != nil && v < *min {
		v = *min
	}
	if max != nil && v > *max {
		v = *max
	}
	return v
}
