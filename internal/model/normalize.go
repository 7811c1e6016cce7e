package model

// Normalization defaults applied to influence specs with missing fields.
const (
	DefaultCoef = 0.1
)

// NormalizeInfluence fills in defaults for zero-valued influence fields:
// coefficient 0.1, kind positive, function linear. Enabled cannot be
// defaulted from the zero value alone, so callers decoding external input
// use NewInfluenceSpec instead.
func NormalizeInfluence(inf *Influence) {
	if inf.Coef == 0 {
		inf.Coef = DefaultCoef
	}
	if inf.Kind == "" {
		inf.Kind = KindPositive
	}
	if inf.Function == "" {
		inf.Function = FuncLinear
	}
}

// InfluenceSpec is the loosely-typed shape accepted at input boundaries
// (CLI flags, AI proposals, generated models). Missing fields take the
// documented defaults.
type InfluenceSpec struct {
	From     string            `json:"from" yaml:"from"`
	Coef     *float64          `json:"coef,omitempty" yaml:"coef,omitempty"`
	Kind     *InfluenceKind    `json:"kind,omitempty" yaml:"kind,omitempty"`
	Function *TransferFunction `json:"function,omitempty" yaml:"function,omitempty"`
	Enabled  *bool             `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// NewInfluenceSpec normalizes a spec into a concrete Influence: missing
// coefficient defaults to 0.1, missing kind to positive, missing function
// to linear, missing enabled to true.
func NewInfluenceSpec(spec InfluenceSpec) Influence {
	inf := Influence{
		From:     spec.From,
		Coef:     DefaultCoef,
		Kind:     KindPositive,
		Function: FuncLinear,
		Enabled:  true,
	}
	if spec.Coef != nil {
		inf.Coef = *spec.Coef
	}
	if spec.Kind != nil && *spec.Kind != "" {
		inf.Kind = *spec.Kind
	}
	if spec.Function != nil && *spec.Function != "" {
		inf.Function = *spec.Function
	}
	if spec.Enabled != nil {
		inf.Enabled = *spec.Enabled
	}
	return inf
}

// ComponentSpec is the input shape for creating a component.
type ComponentSpec struct {
	Type       ComponentType   `json:"type" yaml:"type"`
	Initial    float64         `json:"initial" yaml:"initial"`
	Min        *float64        `json:"min,omitempty" yaml:"min,omitempty"`
	Max        *float64        `json:"max,omitempty" yaml:"max,omitempty"`
	Influences []InfluenceSpec `json:"influences,omitempty" yaml:"influences,omitempty"`
}

// NewComponent normalizes a spec into a concrete Component. An empty type
// defaults to state.
func NewComponent(spec ComponentSpec) *Component {
	c := &Component{
		Type:    spec.Type,
		Initial: spec.Initial,
		Min:     spec.Min,
		Max:     spec.Max,
	}
	if c.Type == "" {
		c.Type = TypeState
	}
	for _, is := range spec.Influences {
		c.Influences = append(c.Influences, NewInfluenceSpec(is))
	}
	return c
}

// Normalize applies influence defaults across the whole model. Used after
// decoding externally produced models (generation service, snapshots).
func (m *SystemModel) Normalize() {
	if m.Entities == nil {
		m.Entities = make(map[string]*Entity)
	}
	if m.Simulation.DT == 0 {
		m.Simulation.DT = 0.1
	}
	if m.Simulation.Steps == 0 {
		m.Simulation.Steps = 300
	}
	for _, e := range m.Entities {
		if e.Components == nil {
			e.Components = make(map[string]*Component)
		}
		for _, c := range e.Components {
			if c.Type == "" {
				c.Type = TypeState
			}
			for i := range c.Influences {
				NormalizeInfluence(&c.Influences[i])
			}
		}
	}
}
