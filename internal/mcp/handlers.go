package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gyxcit/simdecision/internal/highlight"
	"github.com/gyxcit/simdecision/internal/layout"
	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/simulation"
	"github.com/gyxcit/simdecision/internal/store"
	"github.com/gyxcit/simdecision/internal/visualization"
)

// registerTools registers all simdec MCP tools with the server.
func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "model_get",
		Description: "Get the complete current causal model",
	}, s.handleModelGet)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "entity_create",
		Description: "Create an empty entity (no-op if it already exists)",
	}, s.handleEntityCreate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "entity_remove",
		Description: "Remove an entity and scrub all influences referencing its components",
	}, s.handleEntityRemove)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "component_add",
		Description: "Add a component to an entity, creating the entity if needed",
	}, s.handleComponentAdd)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "component_remove",
		Description: "Remove a component and scrub all influences referencing it",
	}, s.handleComponentRemove)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "influence_add",
		Description: "Add an influence to a component",
	}, s.handleInfluenceAdd)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "influence_remove",
		Description: "Remove an influence from a component by index",
	}, s.handleInfluenceRemove)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "influence_update",
		Description: "Update fields of an influence by index",
	}, s.handleInfluenceUpdate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "parameter_set",
		Description: "Set a component's initial value",
	}, s.handleParameterSet)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "simulate",
		Description: "Run a simulation of the current model and return the final state",
	}, s.handleSimulate)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "graph",
		Description: "Render the model's layout graph in JSON or DOT format, optionally focused on one node",
	}, s.handleGraph)
}

func (s *Server) handleModelGet(ctx context.Context, req *sdk.CallToolRequest, args ModelGetInput) (*sdk.CallToolResult, ModelGetOutput, error) {
	m := s.store.Model()
	return nil, ModelGetOutput{
		Model:          m,
		EntityCount:    len(m.Entities),
		ComponentCount: m.ComponentCount(),
	}, nil
}

func (s *Server) handleEntityCreate(ctx context.Context, req *sdk.CallToolRequest, args EntityCreateInput) (*sdk.CallToolResult, MutationOutput, error) {
	if args.Name == "" {
		return nil, MutationOutput{}, fmt.Errorf("name is required")
	}
	s.store.CreateEntity(args.Name, args.Description)
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("entity %q created", args.Name)}, nil
}

func (s *Server) handleEntityRemove(ctx context.Context, req *sdk.CallToolRequest, args EntityRemoveInput) (*sdk.CallToolResult, MutationOutput, error) {
	if args.Name == "" {
		return nil, MutationOutput{}, fmt.Errorf("name is required")
	}
	s.store.RemoveEntity(args.Name)
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("entity %q removed", args.Name)}, nil
}

func (s *Server) handleComponentAdd(ctx context.Context, req *sdk.CallToolRequest, args ComponentAddInput) (*sdk.CallToolResult, MutationOutput, error) {
	if args.Entity == "" || args.Name == "" {
		return nil, MutationOutput{}, fmt.Errorf("entity and name are required")
	}
	s.store.AddComponent(args.Entity, args.Name, model.ComponentSpec{
		Type:    model.ComponentType(args.Type),
		Initial: args.Initial,
		Min:     args.Min,
		Max:     args.Max,
	})
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("component %q added", model.JoinPath(args.Entity, args.Name))}, nil
}

func (s *Server) handleComponentRemove(ctx context.Context, req *sdk.CallToolRequest, args ComponentRemoveInput) (*sdk.CallToolResult, MutationOutput, error) {
	if args.Entity == "" || args.Name == "" {
		return nil, MutationOutput{}, fmt.Errorf("entity and name are required")
	}
	s.store.RemoveComponent(args.Entity, args.Name)
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("component %q removed", model.JoinPath(args.Entity, args.Name))}, nil
}

func (s *Server) handleInfluenceAdd(ctx context.Context, req *sdk.CallToolRequest, args InfluenceAddInput) (*sdk.CallToolResult, MutationOutput, error) {
	spec := model.InfluenceSpec{
		From:    args.From,
		Coef:    args.Coef,
		Enabled: args.Enabled,
	}
	if args.Kind != "" {
		kind := model.InfluenceKind(args.Kind)
		spec.Kind = &kind
	}
	if args.Function != "" {
		fn := model.TransferFunction(args.Function)
		spec.Function = &fn
	}
	if err := s.store.AddInfluence(args.Path, spec); err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("influence from %q added to %q", args.From, args.Path)}, nil
}

func (s *Server) handleInfluenceRemove(ctx context.Context, req *sdk.CallToolRequest, args InfluenceRemoveInput) (*sdk.CallToolResult, MutationOutput, error) {
	if err := s.store.RemoveInfluence(args.Path, args.Index); err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("influence %d removed from %q", args.Index, args.Path)}, nil
}

func (s *Server) handleInfluenceUpdate(ctx context.Context, req *sdk.CallToolRequest, args InfluenceUpdateInput) (*sdk.CallToolResult, MutationOutput, error) {
	patch := storeInfluencePatch(args)
	if err := s.store.UpdateInfluence(args.Path, args.Index, patch); err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("influence %d on %q updated", args.Index, args.Path)}, nil
}

func (s *Server) handleParameterSet(ctx context.Context, req *sdk.CallToolRequest, args ParameterSetInput) (*sdk.CallToolResult, MutationOutput, error) {
	if err := s.store.UpdateParameter(args.Path, args.Value); err != nil {
		return nil, MutationOutput{}, err
	}
	return nil, MutationOutput{OK: true, Message: fmt.Sprintf("%s = %g", args.Path, args.Value)}, nil
}

func (s *Server) handleSimulate(ctx context.Context, req *sdk.CallToolRequest, args SimulateInput) (*sdk.CallToolResult, SimulateOutput, error) {
	result, err := s.simulator.Simulate(ctx, simulation.Request{
		Model:            s.store.Model(),
		Steps:            args.Steps,
		DT:               args.DT,
		ParameterChanges: args.ParameterChanges,
	})
	if err != nil {
		return nil, SimulateOutput{}, fmt.Errorf("simulate: %w", err)
	}
	return nil, SimulateOutput{
		TimePoints: result.TimePoints,
		FinalState: result.FinalState,
		Steps:      len(result.TimePoints) - 1,
	}, nil
}

func (s *Server) handleGraph(ctx context.Context, req *sdk.CallToolRequest, args GraphInput) (*sdk.CallToolResult, GraphOutput, error) {
	grouped := !args.NoGroup
	g := layout.Layout(s.store.Model(), nil, grouped)

	if args.Focus != "" {
		if g.Node(args.Focus) == nil {
			return nil, GraphOutput{}, fmt.Errorf("focus node not found: %s", args.Focus)
		}
		g = highlight.Highlight(g, args.Focus)
	}

	format := args.Format
	if format == "" {
		format = "json"
	}

	switch visualization.Format(format) {
	case visualization.FormatDOT:
		return nil, GraphOutput{
			Format:    "dot",
			DOT:       visualization.RenderDOT(g, grouped),
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		}, nil
	case visualization.FormatJSON:
		return nil, GraphOutput{
			Format:    "json",
			Graph:     visualization.RenderJSON(g),
			NodeCount: len(g.Nodes),
			EdgeCount: len(g.Edges),
		}, nil
	default:
		return nil, GraphOutput{}, fmt.Errorf("unknown format: %s (valid: json, dot)", format)
	}
}

// storeInfluencePatch converts update-tool arguments into the store's
// partial-update shape.
func storeInfluencePatch(args InfluenceUpdateInput) (patch store.InfluencePatch) {
	if args.From != "" {
		from := args.From
		patch.From = &from
	}
	patch.Coef = args.Coef
	if args.Kind != "" {
		kind := model.InfluenceKind(args.Kind)
		patch.Kind = &kind
	}
	if args.Function != "" {
		fn := model.TransferFunction(args.Function)
		patch.Function = &fn
	}
	patch.Enabled = args.Enabled
	return patch
}
