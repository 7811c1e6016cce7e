// Package mcp provides an MCP (Model Context Protocol) server exposing
// simdec model editing, simulation, and graph rendering as tools.
package mcp

import (
	"github.com/gyxcit/simdecision/internal/model"
)

// ModelGetInput defines the input for the model_get tool.
type ModelGetInput struct{}

// ModelGetOutput defines the output for the model_get tool.
type ModelGetOutput struct {
	Model          *model.SystemModel `json:"model" jsonschema:"The complete current model"`
	EntityCount    int                `json:"entity_count" jsonschema:"Number of entities"`
	ComponentCount int                `json:"component_count" jsonschema:"Number of components across all entities"`
}

// EntityCreateInput defines the input for the entity_create tool.
type EntityCreateInput struct {
	Name        string `json:"name" jsonschema:"Entity name (no dots)"`
	Description string `json:"description,omitempty" jsonschema:"One-line entity description"`
}

// EntityRemoveInput defines the input for the entity_remove tool.
type EntityRemoveInput struct {
	Name string `json:"name" jsonschema:"Entity name to remove"`
}

// ComponentAddInput defines the input for the component_add tool.
type ComponentAddInput struct {
	Entity  string   `json:"entity" jsonschema:"Owning entity name (created if missing)"`
	Name    string   `json:"name" jsonschema:"Component name (no dots)"`
	Type    string   `json:"type,omitempty" jsonschema:"Component type: state (default) | computed | constant"`
	Initial float64  `json:"initial,omitempty" jsonschema:"Initial value (default 0)"`
	Min     *float64 `json:"min,omitempty" jsonschema:"Lower bound"`
	Max     *float64 `json:"max,omitempty" jsonschema:"Upper bound"`
}

// ComponentRemoveInput defines the input for the component_remove tool.
type ComponentRemoveInput struct {
	Entity string `json:"entity" jsonschema:"Owning entity name"`
	Name   string `json:"name" jsonschema:"Component name to remove"`
}

// InfluenceAddInput defines the input for the influence_add tool.
type InfluenceAddInput struct {
	Path     string   `json:"path" jsonschema:"Target component path (Entity.component)"`
	From     string   `json:"from" jsonschema:"Source reference (qualified path or bare name or 'self')"`
	Coef     *float64 `json:"coef,omitempty" jsonschema:"Coefficient (default 0.1)"`
	Kind     string   `json:"kind,omitempty" jsonschema:"Influence kind: positive (default) | negative | decay | ratio"`
	Function string   `json:"function,omitempty" jsonschema:"Transfer function (default linear)"`
	Enabled  *bool    `json:"enabled,omitempty" jsonschema:"Whether the influence participates in simulation (default true)"`
}

// InfluenceRemoveInput defines the input for the influence_remove tool.
type InfluenceRemoveInput struct {
	Path  string `json:"path" jsonschema:"Target component path"`
	Index int    `json:"index" jsonschema:"Positional index of the influence to remove"`
}

// InfluenceUpdateInput defines the input for the influence_update tool.
type InfluenceUpdateInput struct {
	Path     string   `json:"path" jsonschema:"Target component path"`
	Index    int      `json:"index" jsonschema:"Positional index of the influence to update"`
	From     string   `json:"from,omitempty" jsonschema:"New source reference"`
	Coef     *float64 `json:"coef,omitempty" jsonschema:"New coefficient"`
	Kind     string   `json:"kind,omitempty" jsonschema:"New influence kind"`
	Function string   `json:"function,omitempty" jsonschema:"New transfer function"`
	Enabled  *bool    `json:"enabled,omitempty" jsonschema:"Enable or disable the influence"`
}

// ParameterSetInput defines the input for the parameter_set tool.
type ParameterSetInput struct {
	Path  string  `json:"path" jsonschema:"Component path (Entity.component)"`
	Value float64 `json:"value" jsonschema:"New initial value"`
}

// MutationOutput is the common output for mutation tools.
type MutationOutput struct {
	OK      bool   `json:"ok" jsonschema:"Whether the operation completed"`
	Message string `json:"message" jsonschema:"Human-readable result message"`
}

// SimulateInput defines the input for the simulate tool.
type SimulateInput struct {
	Steps            int                `json:"steps,omitempty" jsonschema:"Number of integration steps (default from model)"`
	DT               float64            `json:"dt,omitempty" jsonschema:"Integration time step (default from model)"`
	ParameterChanges map[string]float64 `json:"parameter_changes,omitempty" jsonschema:"Variable overrides applied before the run, keyed by path"`
}

// SimulateOutput defines the output for the simulate tool.
type SimulateOutput struct {
	TimePoints []float64          `json:"time_points" jsonschema:"Time value per recorded step"`
	FinalState map[string]float64 `json:"final_state" jsonschema:"Variable values at the end of the run"`
	Steps      int                `json:"steps" jsonschema:"Number of steps executed"`
}

// GraphInput defines the input for the graph tool.
type GraphInput struct {
	Format  string `json:"format,omitempty" jsonschema:"Output format: json (default) or dot"`
	Focus   string `json:"focus,omitempty" jsonschema:"Node ID to focus; everything outside its 1-hop neighborhood is dimmed"`
	NoGroup bool   `json:"no_group,omitempty" jsonschema:"Disable visual entity grouping"`
}

// GraphOutput defines the output for the graph tool.
type GraphOutput struct {
	Format    string                 `json:"format" jsonschema:"Format of the rendered graph"`
	DOT       string                 `json:"dot,omitempty" jsonschema:"DOT source (format=dot)"`
	Graph     map[string]interface{} `json:"graph,omitempty" jsonschema:"Graph object (format=json)"`
	NodeCount int                    `json:"node_count" jsonschema:"Number of nodes"`
	EdgeCount int                    `json:"edge_count" jsonschema:"Number of edges"`
}
