package llm

import (
	"context"
	"testing"

	"github.com/gyxcit/simdecision/internal/model"
)

func TestPlaceholderModel(t *testing.T) {
	m := PlaceholderModel("maximize quarterly revenue")

	if err := m.Validate(); err != nil {
		t.Fatalf("placeholder model should validate: %v", err)
	}

	system, ok := m.Entities["System"]
	if !ok {
		t.Fatal("missing System entity")
	}
	if system.Description != "maximize quarterly revenue" {
		t.Errorf("description lost: %q", system.Description)
	}

	outcome := system.Components["outcome"]
	if outcome == nil || outcome.Type != model.TypeState {
		t.Fatal("missing state component System.outcome")
	}
	if len(outcome.Influences) != 1 || outcome.Influences[0].From != "Driver.pressure" {
		t.Errorf("influences = %+v", outcome.Influences)
	}
	if _, ok := m.Entities["Driver"]; !ok {
		t.Fatal("missing Driver entity")
	}
}

func TestPlaceholderModelEmptyDescription(t *testing.T) {
	m := PlaceholderModel("   ")
	if m.Entities["System"].Description == "" {
		t.Error("blank description should get a default")
	}
}

func TestPlaceholderClient(t *testing.T) {
	c := NewPlaceholderClient()

	if c.Available() {
		t.Error("placeholder should report unavailable")
	}

	m, err := c.GenerateModel(context.Background(), "anything")
	if err != nil {
		t.Fatalf("placeholder generation should never fail: %v", err)
	}
	if len(m.Entities) == 0 {
		t.Error("placeholder model is empty")
	}

	if _, err := c.ProposeEdit(context.Background(), m, "System.outcome", "increase it"); err == nil {
		t.Error("placeholder ProposeEdit should error instead of inventing changes")
	}
}
