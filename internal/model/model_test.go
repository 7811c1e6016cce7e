package model

import (
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestSplitPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		entity    string
		component string
		ok        bool
	}{
		{"qualified", "Tank.level", "Tank", "level", true},
		{"first dot wins", "Tank.level.raw", "Tank", "level.raw", true},
		{"bare name", "level", "", "", false},
		{"leading dot", ".level", "", "", false},
		{"trailing dot", "Tank.", "", "", false},
		{"empty", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entity, component, ok := SplitPath(tt.path)
			if ok != tt.ok {
				t.Fatalf("SplitPath(%q) ok = %v, want %v", tt.path, ok, tt.ok)
			}
			if entity != tt.entity || component != tt.component {
				t.Errorf("SplitPath(%q) = (%q, %q), want (%q, %q)",
					tt.path, entity, component, tt.entity, tt.component)
			}
		})
	}
}

func TestCloneIndependence(t *testing.T) {
	m := New()
	m.Entities["Tank"] = &Entity{
		Components: map[string]*Component{
			"level": {
				Type:    TypeState,
				Initial: 0.5,
				Min:     floatPtr(0),
				Influences: []Influence{
					{From: "Valve.open", Coef: 0.1, Kind: KindPositive, Function: FuncLinear, Enabled: true},
				},
			},
		},
	}

	clone := m.Clone()
	clone.Entities["Tank"].Components["level"].Initial = 99
	clone.Entities["Tank"].Components["level"].Influences[0].Coef = 99
	*clone.Entities["Tank"].Components["level"].Min = 99
	clone.Entities["New"] = &Entity{Components: map[string]*Component{}}

	orig := m.Entities["Tank"].Components["level"]
	if orig.Initial != 0.5 {
		t.Errorf("clone mutation leaked into original initial: %g", orig.Initial)
	}
	if orig.Influences[0].Coef != 0.1 {
		t.Errorf("clone mutation leaked into original influence: %g", orig.Influences[0].Coef)
	}
	if *orig.Min != 0 {
		t.Errorf("clone mutation leaked into original min: %g", *orig.Min)
	}
	if len(m.Entities) != 1 {
		t.Errorf("clone entity addition leaked into original")
	}
}

func TestNewInfluenceSpecDefaults(t *testing.T) {
	inf := NewInfluenceSpec(InfluenceSpec{From: "Valve.open"})

	if inf.Coef != DefaultCoef {
		t.Errorf("default coef = %g, want %g", inf.Coef, DefaultCoef)
	}
	if inf.Kind != KindPositive {
		t.Errorf("default kind = %q, want positive", inf.Kind)
	}
	if inf.Function != FuncLinear {
		t.Errorf("default function = %q, want linear", inf.Function)
	}
	if !inf.Enabled {
		t.Error("default enabled = false, want true")
	}
}

func TestNewComponentDefaultsToState(t *testing.T) {
	c := NewComponent(ComponentSpec{})
	if c.Type != TypeState {
		t.Errorf("default type = %q, want state", c.Type)
	}
}

func TestDecodeJSONDefaultsEnabled(t *testing.T) {
	data := []byte(`{
		"entities": {
			"Tank": {
				"components": {
					"level": {
						"type": "state",
						"initial": 0.5,
						"influences": [{"from": "Valve.open", "coef": 0.2}]
					}
				}
			}
		}
	}`)

	m, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}

	inf := m.Entities["Tank"].Components["level"].Influences[0]
	if !inf.Enabled {
		t.Error("influence without enabled key should decode as enabled")
	}
	if inf.Kind != KindPositive || inf.Function != FuncLinear {
		t.Errorf("missing kind/function not defaulted: %q %q", inf.Kind, inf.Function)
	}
	if m.Simulation.DT != 0.1 || m.Simulation.Steps != 300 {
		t.Errorf("missing simulation config not defaulted: %+v", m.Simulation)
	}
}

func TestDecodeJSONExplicitDisabled(t *testing.T) {
	data := []byte(`{
		"entities": {
			"Tank": {
				"components": {
					"level": {
						"influences": [{"from": "Valve.open", "enabled": false}]
					}
				}
			}
		}
	}`)

	m, err := DecodeJSON(data)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if m.Entities["Tank"].Components["level"].Influences[0].Enabled {
		t.Error("explicit enabled:false was overridden")
	}
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
entities:
  Tank:
    components:
      level:
        type: state
        initial: 0.5
        influences:
          - from: Valve.open
`)

	m, err := DecodeYAML(data)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	inf := m.Entities["Tank"].Components["level"].Influences[0]
	if !inf.Enabled {
		t.Error("YAML influence without enabled key should decode as enabled")
	}
	if inf.Coef != DefaultCoef {
		t.Errorf("YAML influence coef = %g, want default %g", inf.Coef, DefaultCoef)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SystemModel)
		wantErr bool
	}{
		{"valid", func(m *SystemModel) {}, false},
		{"entity name with dot", func(m *SystemModel) {
			m.Entities["Bad.Name"] = &Entity{Components: map[string]*Component{}}
		}, true},
		{"component name with dot", func(m *SystemModel) {
			m.Entities["Tank"].Components["bad.name"] = &Component{Type: TypeState}
		}, true},
		{"invalid kind", func(m *SystemModel) {
			c := m.Entities["Tank"].Components["level"]
			c.Influences = append(c.Influences, Influence{From: "x", Coef: 1, Kind: "sideways", Function: FuncLinear, Enabled: true})
		}, true},
		{"invalid function", func(m *SystemModel) {
			c := m.Entities["Tank"].Components["level"]
			c.Influences = append(c.Influences, Influence{From: "x", Coef: 1, Kind: KindPositive, Function: "wiggle", Enabled: true})
		}, true},
		{"invalid type", func(m *SystemModel) {
			m.Entities["Tank"].Components["level"].Type = "quantum"
		}, true},
		{"min above max", func(m *SystemModel) {
			c := m.Entities["Tank"].Components["level"]
			c.Min = floatPtr(2)
			c.Max = floatPtr(1)
		}, true},
		// Dangling references are diagnostics, not validation errors.
		{"dangling from allowed", func(m *SystemModel) {
			c := m.Entities["Tank"].Components["level"]
			c.Influences = append(c.Influences, Influence{From: "Ghost.var", Coef: 1, Kind: KindPositive, Function: FuncLinear, Enabled: true})
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New()
			m.Entities["Tank"] = &Entity{
				Components: map[string]*Component{
					"level": {Type: TypeState, Initial: 0.5},
				},
			}
			tt.mutate(m)
			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	m := New()
	m.Entities["Tank"] = &Entity{
		Components: map[string]*Component{"level": {Type: TypeState}},
	}

	if _, ok := m.Lookup("Tank.level"); !ok {
		t.Error("Lookup(Tank.level) should succeed")
	}
	if _, ok := m.Lookup("Tank.missing"); ok {
		t.Error("Lookup(Tank.missing) should fail")
	}
	if _, ok := m.Lookup("level"); ok {
		t.Error("Lookup of bare name should fail")
	}
	if m.ComponentCount() != 1 {
		t.Errorf("ComponentCount = %d, want 1", m.ComponentCount())
	}
}
