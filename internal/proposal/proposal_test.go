package proposal

import (
	"encoding/json"
	"testing"
)

// decode is a test helper turning literal JSON into the dynamic payload
// shape Normalize accepts.
func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return m
}

func TestNormalize(t *testing.T) {
	p, err := Normalize(decode(t, `{
		"target": "Tank.level",
		"changes": [
			{"path": "Tank.level", "field": "initial", "old_value": 0.5, "new_value": 0.8, "reason": "start fuller"},
			{"path": "", "field": "steps", "new_value": 500}
		],
		"otherChanges": [
			{"op": "create_entity", "entity": "Pump", "description": "feed pump"},
			{"op": "add_influence", "path": "Tank.level", "influence": {"from": "Pump.rate", "coef": 0.3}}
		],
		"reasoning": "couple the pump to the tank"
	}`))
	if err == nil {
		t.Fatal("empty path in a field change should be rejected")
	}

	p, err = Normalize(decode(t, `{
		"target": "Tank.level",
		"changes": [
			{"path": "Tank.level", "field": "initial", "old_value": 0.5, "new_value": 0.8}
		],
		"otherChanges": [
			{"op": "create_entity", "entity": "Pump"},
			{"op": "add_influence", "path": "Tank.level", "influence": {"from": "Pump.rate", "coef": 0.3}}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Target != "Tank.level" || len(p.Changes) != 1 || len(p.OtherChanges) != 2 {
		t.Errorf("normalized proposal wrong: %+v", p)
	}
	if p.OtherChanges[1].Influence == nil || p.OtherChanges[1].Influence.From != "Pump.rate" {
		t.Errorf("influence payload lost: %+v", p.OtherChanges[1])
	}
}

func TestNormalizeRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown top-level key", `{"changes": [], "confidence": 0.9}`},
		{"unknown change field", `{"changes": [{"path": "A.x", "field": "velocity", "new_value": 1}]}`},
		{"unknown op", `{"otherChanges": [{"op": "rename_entity", "entity": "A"}]}`},
		{"unknown op key", `{"otherChanges": [{"op": "create_entity", "entity": "A", "force": true}]}`},
		{"create without entity", `{"otherChanges": [{"op": "create_entity"}]}`},
		{"add_component without spec", `{"otherChanges": [{"op": "add_component", "entity": "A", "name": "x"}]}`},
		{"add_influence without path", `{"otherChanges": [{"op": "add_influence", "influence": {"from": "A.x"}}]}`},
		{"remove_influence without index", `{"otherChanges": [{"op": "remove_influence", "path": "A.x"}]}`},
		{"update_influence without spec", `{"otherChanges": [{"op": "update_influence", "path": "A.x", "index": 0}]}`},
		{"set_parameter without value", `{"otherChanges": [{"op": "set_parameter", "path": "A.x"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Normalize(decode(t, tt.raw)); err == nil {
				t.Errorf("expected rejection")
			}
		})
	}
}

func TestNormalizeAcceptsIndexZero(t *testing.T) {
	p, err := Normalize(decode(t, `{
		"otherChanges": [{"op": "remove_influence", "path": "A.x", "index": 0}]
	}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.OtherChanges[0].Index == nil || *p.OtherChanges[0].Index != 0 {
		t.Error("index 0 should survive normalization")
	}
}
