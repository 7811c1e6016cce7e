// Package proposal defines the closed set of change operations an AI edit
// proposal may carry, validates dynamic payloads into that set, and replays
// approved changes through the same ModelStore operations used for manual
// editing. There is no AI-specific mutation path.
package proposal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gyxcit/simdecision/internal/model"
)

// Op identifies a structural change operation.
type Op string

const (
	OpCreateEntity    Op = "create_entity"
	OpRemoveEntity    Op = "remove_entity"
	OpAddComponent    Op = "add_component"
	OpRemoveComponent Op = "remove_component"
	OpAddInfluence    Op = "add_influence"
	OpRemoveInfluence Op = "remove_influence"
	OpUpdateInfluence Op = "update_influence"
	OpSetParameter    Op = "set_parameter"
)

var validOps = map[Op]bool{
	OpCreateEntity:    true,
	OpRemoveEntity:    true,
	OpAddComponent:    true,
	OpRemoveComponent: true,
	OpAddInfluence:    true,
	OpRemoveInfluence: true,
	OpUpdateInfluence: true,
	OpSetParameter:    true,
}

// FieldChange is a scalar field update on a component or the simulation
// config. Field is one of "initial", "min", "max", "dt", "steps".
type FieldChange struct {
	Path     string  `json:"path"`
	Field    string  `json:"field"`
	OldValue float64 `json:"old_value"`
	NewValue float64 `json:"new_value"`
	Reason   string  `json:"reason,omitempty"`
}

var validFields = map[string]bool{
	"initial": true,
	"min":     true,
	"max":     true,
	"dt":      true,
	"steps":   true,
}

// AdditionalChange is a structural change requiring explicit human approval
// before it is replayed.
type AdditionalChange struct {
	Op          Op                   `json:"op"`
	Entity      string               `json:"entity,omitempty"`
	Name        string               `json:"name,omitempty"`
	Path        string               `json:"path,omitempty"`
	Index       *int                 `json:"index,omitempty"`
	Component   *model.ComponentSpec `json:"component,omitempty"`
	Influence   *model.InfluenceSpec `json:"influence,omitempty"`
	Value       *float64             `json:"value,omitempty"`
	Description string               `json:"description,omitempty"`
	Reason      string               `json:"reason,omitempty"`
}

// Proposal is a validated AI edit proposal. Nothing in it is applied
// automatically.
type Proposal struct {
	Target       string             `json:"target,omitempty"`
	Changes      []FieldChange      `json:"changes"`
	OtherChanges []AdditionalChange `json:"otherChanges,omitempty"`
	Reasoning    string             `json:"reasoning,omitempty"`
}

// Normalize validates a dynamic payload into a Proposal. Unrecognized
// shapes are rejected rather than partially interpreted.
func Normalize(raw map[string]any) (*Proposal, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding proposal payload: %w", err)
	}

	var p Proposal
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("proposal payload has unrecognized shape: %w", err)
	}

	for i, fc := range p.Changes {
		if fc.Path == "" {
			return nil, fmt.Errorf("change %d: path is required", i)
		}
		if !validFields[fc.Field] {
			return nil, fmt.Errorf("change %d: unknown field %q", i, fc.Field)
		}
	}

	for i, ac := range p.OtherChanges {
		if !validOps[ac.Op] {
			return nil, fmt.Errorf("otherChange %d: unknown op %q", i, ac.Op)
		}
		if err := validateAdditional(ac); err != nil {
			return nil, fmt.Errorf("otherChange %d: %w", i, err)
		}
	}

	return &p, nil
}

func validateAdditional(ac AdditionalChange) error {
	switch ac.Op {
	case OpCreateEntity, OpRemoveEntity:
		if ac.Entity == "" {
			return fmt.Errorf("%s requires entity", ac.Op)
		}
	case OpAddComponent:
		if ac.Entity == "" || ac.Name == "" {
			return fmt.Errorf("add_component requires entity and name")
		}
		if ac.Component == nil {
			return fmt.Errorf("add_component requires a component spec")
		}
	case OpRemoveComponent:
		if ac.Entity == "" || ac.Name == "" {
			return fmt.Errorf("remove_component requires entity and name")
		}
	case OpAddInfluence:
		if ac.Path == "" || ac.Influence == nil {
			return fmt.Errorf("add_influence requires path and influence")
		}
	case OpRemoveInfluence:
		if ac.Path == "" || ac.Index == nil {
			return fmt.Errorf("remove_influence requires path and index")
		}
	case OpUpdateInfluence:
		if ac.Path == "" || ac.Index == nil || ac.Influence == nil {
			return fmt.Errorf("update_influence requires path, index, and influence")
		}
	case OpSetParameter:
		if ac.Path == "" || ac.Value == nil {
			return fmt.Errorf("set_parameter requires path and value")
		}
	}
	return nil
}
