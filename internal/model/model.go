// Package model defines the canonical causal system model: entities holding
// typed components connected by directional, weighted influences.
package model

// ComponentType categorizes how a component evolves during simulation.
type ComponentType string

const (
	// TypeState variables are integrated over time.
	TypeState ComponentType = "state"
	// TypeComputed variables are updated algebraically each step.
	TypeComputed ComponentType = "computed"
	// TypeConstant variables never change.
	TypeConstant ComponentType = "constant"
)

// InfluenceKind categorizes the direction/shape of an influence contribution.
type InfluenceKind string

const (
	KindPositive InfluenceKind = "positive"
	KindNegative InfluenceKind = "negative"
	KindDecay    InfluenceKind = "decay"
	KindRatio    InfluenceKind = "ratio"
)

// TransferFunction names the function applied to a source value before the
// coefficient-weighted contribution is accumulated.
type TransferFunction string

const (
	FuncLinear        TransferFunction = "linear"
	FuncSigmoid       TransferFunction = "sigmoid"
	FuncThreshold     TransferFunction = "threshold"
	FuncDivision      TransferFunction = "division"
	FuncSquare        TransferFunction = "square"
	FuncCubic         TransferFunction = "cubic"
	FuncSqrt          TransferFunction = "sqrt"
	FuncExponential   TransferFunction = "exponential"
	FuncLogarithmic   TransferFunction = "logarithmic"
	FuncInverseSquare TransferFunction = "inverse_square"
)

// Influence is a directed, weighted, typed relationship from a source
// variable onto the component that holds it. Order within a component's
// influence list is meaningful: it determines equation term order, and the
// index is used for addressing edits.
type Influence struct {
	From     string           `json:"from" yaml:"from"`
	Coef     float64          `json:"coef" yaml:"coef"`
	Kind     InfluenceKind    `json:"kind" yaml:"kind"`
	Function TransferFunction `json:"function" yaml:"function"`
	Enabled  bool             `json:"enabled" yaml:"enabled"`
}

// Component is a single typed variable inside an entity.
type Component struct {
	Type       ComponentType `json:"type" yaml:"type"`
	Initial    float64       `json:"initial" yaml:"initial"`
	Min        *float64      `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *float64      `json:"max,omitempty" yaml:"max,omitempty"`
	Influences []Influence   `json:"influences" yaml:"influences"`
}

// Entity is a named grouping of related components.
type Entity struct {
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Components  map[string]*Component `json:"components" yaml:"components"`
}

// SimulationConfig holds the integration parameters carried with the model.
type SimulationConfig struct {
	DT    float64 `json:"dt" yaml:"dt"`
	Steps int     `json:"steps" yaml:"steps"`
}

// SystemModel is the root of the canonical model. Entity names are unique
// map keys; insertion order is irrelevant.
type SystemModel struct {
	Entities   map[string]*Entity `json:"entities" yaml:"entities"`
	Simulation SimulationConfig   `json:"simulation" yaml:"simulation"`
}

// New returns an empty model with default simulation parameters.
func New() *SystemModel {
	return &SystemModel{
		Entities:   make(map[string]*Entity),
		Simulation: SimulationConfig{DT: 0.1, Steps: 300},
	}
}

// Clone returns a deep copy of the model. Mutating the copy never affects
// the original.
func (m *SystemModel) Clone() *SystemModel {
	if m == nil {
		return nil
	}
	out := &SystemModel{
		Entities:   make(map[string]*Entity, len(m.Entities)),
		Simulation: m.Simulation,
	}
	for name, e := range m.Entities {
		out.Entities[name] = e.Clone()
	}
	return out
}

// Clone returns a deep copy of the entity.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}
	out := &Entity{
		Description: e.Description,
		Components:  make(map[string]*Component, len(e.Components)),
	}
	for name, c := range e.Components {
		out.Components[name] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the component.
func (c *Component) Clone() *Component {
	if c == nil {
		return nil
	}
	out := &Component{
		Type:    c.Type,
		Initial: c.Initial,
	}
	if c.Min != nil {
		v := *c.Min
		out.Min = &v
	}
	if c.Max != nil {
		v := *c.Max
		out.Max = &v
	}
	if len(c.Influences) > 0 {
		out.Influences = make([]Influence, len(c.Influences))
		copy(out.Influences, c.Influences)
	}
	return out
}

// Lookup returns the component at the given fully-qualified path.
func (m *SystemModel) Lookup(path string) (*Component, bool) {
	entity, component, ok := SplitPath(path)
	if !ok {
		return nil, false
	}
	e, ok := m.Entities[entity]
	if !ok {
		return nil, false
	}
	c, ok := e.Components[component]
	return c, ok
}

// HasPath reports whether a fully-qualified path exists in the model.
func (m *SystemModel) HasPath(path string) bool {
	_, ok := m.Lookup(path)
	return ok
}

// ComponentCount returns the total number of components across all entities.
func (m *SystemModel) ComponentCount() int {
	n := 0
	for _, e := range m.Entities {
		n += len(e.Components)
	}
	return n
}
