package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/proposal"
)

// ParseModelResponse parses an LLM response into a validated model.
// It handles both raw JSON and JSON wrapped in markdown code blocks.
func ParseModelResponse(response string) (*model.SystemModel, error) {
	jsonStr := ExtractJSON(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	m, err := model.DecodeJSON([]byte(jsonStr))
	if err != nil {
		return nil, fmt.Errorf("decoding generated model: %w", err)
	}

	if len(m.Entities) == 0 {
		return nil, fmt.Errorf("generated model has no entities")
	}
	return m, nil
}

// ParseProposalResponse parses an LLM response into a validated edit
// proposal. Payloads outside the recognized change vocabulary are rejected.
func ParseProposalResponse(response string) (*proposal.Proposal, error) {
	jsonStr := ExtractJSON(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("parsing proposal: %w", err)
	}

	p, err := proposal.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalizing proposal: %w", err)
	}
	return p, nil
}

// ExtractJSON extracts JSON content from a string, handling markdown code
// blocks. It looks for JSON wrapped in ```json...``` or ```...``` blocks, or
// returns the input if it appears to be raw JSON.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)

	// Try to extract from markdown code block with json language tag
	jsonBlockRe := regexp.MustCompile("(?s)```json\\s*\\n?(.*?)\\s*```")
	if matches := jsonBlockRe.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// Try to extract from generic markdown code block
	genericBlockRe := regexp.MustCompile("(?s)```\\s*\\n?(.*?)\\s*```")
	if matches := genericBlockRe.FindStringSubmatch(s); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// Check if the string itself looks like JSON (starts with { or [)
	if strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") {
		return s
	}

	return ""
}
