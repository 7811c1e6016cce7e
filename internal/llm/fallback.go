package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/proposal"
)

// PlaceholderClient implements the Client interface without any LLM calls.
// GenerateModel returns a small editable starter model so a failed or
// unconfigured provider degrades into something the user can work with
// instead of an empty canvas. ProposeEdit has no local substitute and
// returns an error.
type PlaceholderClient struct{}

// NewPlaceholderClient creates a new PlaceholderClient.
func NewPlaceholderClient() *PlaceholderClient {
	return &PlaceholderClient{}
}

// GenerateModel returns the placeholder model for the description.
func (c *PlaceholderClient) GenerateModel(ctx context.Context, description string) (*model.SystemModel, error) {
	return PlaceholderModel(description), nil
}

// ProposeEdit always fails: there is no rule-based substitute for an edit
// proposal, and silently inventing one would be worse than an error.
func (c *PlaceholderClient) ProposeEdit(ctx context.Context, m *model.SystemModel, target, instruction string) (*proposal.Proposal, error) {
	return nil, fmt.Errorf("edit proposals require a configured LLM provider")
}

// Available returns false because this is a placeholder client. This signals
// to selection logic that an LLM provider should be preferred.
func (c *PlaceholderClient) Available() bool {
	return false
}

// PlaceholderModel synthesizes a minimal two-entity model locally. The
// description is kept in an entity description so the user's intent
// survives into the editor.
func PlaceholderModel(description string) *model.SystemModel {
	desc := strings.TrimSpace(description)
	if desc == "" {
		desc = "Placeholder model"
	}

	zero, one := 0.0, 1.0
	m := model.New()
	m.Entities["System"] = &model.Entity{
		Description: desc,
		Components: map[string]*model.Component{
			"outcome": {
				Type:    model.TypeState,
				Initial: 0.5,
				Min:     &zero,
				Max:     &one,
				Influences: []model.Influence{
					{From: "Driver.pressure", Coef: 0.1, Kind: model.KindPositive, Function: model.FuncLinear, Enabled: true},
				},
			},
		},
	}
	m.Entities["Driver"] = &model.Entity{
		Description: "Primary driver of the outcome",
		Components: map[string]*model.Component{
			"pressure": {
				Type:    model.TypeConstant,
				Initial: 0.5,
				Min:     &zero,
				Max:     &one,
			},
		},
	}
	return m
}
