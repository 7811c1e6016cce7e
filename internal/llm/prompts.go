package llm

import (
	"encoding/json"
	"fmt"
)

// GenerationPrompt builds a prompt asking for a complete causal model in the
// system's JSON wire format.
func GenerationPrompt(description string) string {
	return fmt.Sprintf(`You are designing a causal system-dynamics model for a decision problem.

## Decision Problem
%s

## Model Format
A model is a set of named entities. Each entity holds named components
(variables). A component has a type ("state", "computed", or "constant"),
an initial value, optional "min"/"max" bounds, and a list of influences.
An influence has:
- "from": the source variable, as "Entity.component" or a bare component name
- "coef": a float coefficient (default 0.1)
- "kind": "positive", "negative", "decay", or "ratio"
- "function": "linear", "sigmoid", "threshold", "division", "square",
  "cubic", "sqrt", "exponential", "logarithmic", or "inverse_square"

State variables integrate their influences over time; computed variables
update algebraically; constants never change.

## Task
Design 2-5 entities with meaningful components and influences that capture
the causal structure of the problem. Use values in sensible ranges, prefer
[0, 1] normalized scales with explicit min/max bounds, and keep coefficients
small (0.01 to 0.5).

## Response Format
Respond with ONLY a JSON object (no markdown code blocks, no additional text):
{
  "entities": {
    "<EntityName>": {
      "description": "<one line>",
      "components": {
        "<component_name>": {
          "type": "state",
          "initial": 0.5,
          "min": 0.0,
          "max": 1.0,
          "influences": [
            {"from": "Other.variable", "coef": 0.1, "kind": "positive", "function": "linear"}
          ]
        }
      }
    }
  },
  "simulation": {"dt": 0.1, "steps": 300}
}`, description)
}

// EditPrompt builds a prompt asking for an edit proposal against the current
// model. The model travels in the prompt as JSON so the proposal can
// reference real paths.
func EditPrompt(m any, target, instruction string) (string, error) {
	modelJSON, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling model: %w", err)
	}

	scope := "the whole model"
	if target != "" {
		scope = fmt.Sprintf("%q", target)
	}

	return fmt.Sprintf(`You are proposing edits to an existing causal system-dynamics model.

## Current Model
%s

## Instruction
%s

Scope your changes to %s.

## Change Operations
Scalar field updates go in "changes". Each entry:
{"path": "Entity.component", "field": "initial|min|max|dt|steps", "old_value": <float>, "new_value": <float>, "reason": "<why>"}
For "dt" and "steps" use the path "simulation".

Structural changes go in "otherChanges". Each entry has an "op":
- {"op": "create_entity", "entity": "<name>", "description": "<one line>"}
- {"op": "remove_entity", "entity": "<name>"}
- {"op": "add_component", "entity": "<name>", "name": "<component>", "component": {"type": "state", "initial": 0.5, "min": 0.0, "max": 1.0}}
- {"op": "remove_component", "entity": "<name>", "name": "<component>"}
- {"op": "add_influence", "path": "Entity.component", "influence": {"from": "Other.variable", "coef": 0.1, "kind": "positive", "function": "linear"}}
- {"op": "remove_influence", "path": "Entity.component", "index": <int>}
- {"op": "update_influence", "path": "Entity.component", "index": <int>, "influence": {<fields to change>}}
- {"op": "set_parameter", "path": "Entity.component", "value": <float>}

Propose only changes the instruction asks for. Use exact paths from the
current model. Do not invent operations outside this list.

## Response Format
Respond with ONLY a JSON object (no markdown code blocks, no additional text):
{
  "changes": [...],
  "otherChanges": [...],
  "reasoning": "<brief explanation of the proposal>"
}`, string(modelJSON), instruction, scope), nil
}
