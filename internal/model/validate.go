package model

import (
	"fmt"
	"strings"
)

var validKinds = map[InfluenceKind]bool{
	KindPositive: true,
	KindNegative: true,
	KindDecay:    true,
	KindRatio:    true,
}

var validFunctions = map[TransferFunction]bool{
	FuncLinear:        true,
	FuncSigmoid:       true,
	FuncThreshold:     true,
	FuncDivision:      true,
	FuncSquare:        true,
	FuncCubic:         true,
	FuncSqrt:          true,
	FuncExponential:   true,
	FuncLogarithmic:   true,
	FuncInverseSquare: true,
}

var validTypes = map[ComponentType]bool{
	TypeState:    true,
	TypeComputed: true,
	TypeConstant: true,
}

// Validate checks structural validity: names are non-empty and dot-free,
// enum fields hold known values, and bounds are ordered. Dangling influence
// references are not an error here; they are surfaced as diagnostics when
// the render graph is derived.
func (m *SystemModel) Validate() error {
	for entityName, e := range m.Entities {
		if entityName == "" {
			return fmt.Errorf("entity name must not be empty")
		}
		if strings.Contains(entityName, ".") {
			return fmt.Errorf("entity name %q must not contain a dot", entityName)
		}
		for compName, c := range e.Components {
			if compName == "" {
				return fmt.Errorf("entity %q: component name must not be empty", entityName)
			}
			if strings.Contains(compName, ".") {
				return fmt.Errorf("entity %q: component name %q must not contain a dot", entityName, compName)
			}
			if !validTypes[c.Type] {
				return fmt.Errorf("component %q: unknown type %q", JoinPath(entityName, compName), c.Type)
			}
			if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
				return fmt.Errorf("component %q: min %g greater than max %g", JoinPath(entityName, compName), *c.Min, *c.Max)
			}
			for i, inf := range c.Influences {
				if inf.From == "" {
					return fmt.Errorf("component %q: influence %d has empty from", JoinPath(entityName, compName), i)
				}
				if !validKinds[inf.Kind] {
					return fmt.Errorf("component %q: influence %d has unknown kind %q", JoinPath(entityName, compName), i, inf.Kind)
				}
				if !validFunctions[inf.Function] {
					return fmt.Errorf("component %q: influence %d has unknown function %q", JoinPath(entityName, compName), i, inf.Function)
				}
			}
		}
	}
	return nil
}
