package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// influenceAlias breaks the Unmarshal* recursion.
type influenceAlias Influence

// UnmarshalJSON decodes an influence with enabled defaulting to true when
// the key is absent, matching the persisted wire format.
func (inf *Influence) UnmarshalJSON(data []byte) error {
	tmp := influenceAlias{Enabled: true}
	if err := json.Unmarshal(data, &tmp); err != nil {
		return err
	}
	*inf = Influence(tmp)
	return nil
}

// UnmarshalYAML decodes an influence with enabled defaulting to true when
// the key is absent.
func (inf *Influence) UnmarshalYAML(node *yaml.Node) error {
	tmp := influenceAlias{Enabled: true}
	if err := node.Decode(&tmp); err != nil {
		return err
	}
	*inf = Influence(tmp)
	return nil
}

// DecodeJSON parses a model from JSON, applies normalization defaults, and
// checks structural validity.
func DecodeJSON(data []byte) (*SystemModel, error) {
	var m SystemModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// DecodeYAML parses a model from YAML, applies normalization defaults, and
// checks structural validity.
func DecodeYAML(data []byte) (*SystemModel, error) {
	var m SystemModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	m.Normalize()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
