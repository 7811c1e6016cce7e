package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/proposal"
)

const (
	openAIBaseURL      = "https://api.openai.com/v1"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIClient implements the Client interface using the OpenAI chat
// completions API. With a custom BaseURL it also serves OpenAI-compatible
// providers such as Mistral.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	client  *http.Client
}

// NewOpenAIClient creates a new OpenAIClient with the given configuration.
// If config.APIKey is empty, it falls back to the OPENAI_API_KEY environment
// variable. If config.BaseURL is empty, it defaults to the OpenAI endpoint.
func NewOpenAIClient(config ClientConfig) *OpenAIClient {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = openAIBaseURL
	}

	m := config.Model
	if m == "" {
		m = openAIDefaultModel
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   m,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// openAIChatRequest represents a request to the chat completions API.
type openAIChatRequest struct {
	Model    string              `json:"model"`
	Messages []openAIChatMessage `json:"messages"`
}

// openAIChatMessage represents a message in the chat format.
type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIChatResponse represents a response from the chat completions API.
type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateModel generates a causal model from a description.
func (c *OpenAIClient) GenerateModel(ctx context.Context, description string) (*model.SystemModel, error) {
	if !c.Available() {
		return nil, fmt.Errorf("openai client not available: missing API key")
	}

	response, err := c.callAPI(ctx, GenerationPrompt(description))
	if err != nil {
		return nil, fmt.Errorf("generating model: %w", err)
	}

	m, err := ParseModelResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parsing generated model: %w", err)
	}
	return m, nil
}

// ProposeEdit requests an edit proposal.
func (c *OpenAIClient) ProposeEdit(ctx context.Context, m *model.SystemModel, target, instruction string) (*proposal.Proposal, error) {
	if !c.Available() {
		return nil, fmt.Errorf("openai client not available: missing API key")
	}

	prompt, err := EditPrompt(m, target, instruction)
	if err != nil {
		return nil, fmt.Errorf("building edit prompt: %w", err)
	}

	response, err := c.callAPI(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("proposing edit: %w", err)
	}

	p, err := ParseProposalResponse(response)
	if err != nil {
		return nil, fmt.Errorf("parsing edit proposal: %w", err)
	}
	return p, nil
}

// Available returns true if the API key is present.
func (c *OpenAIClient) Available() bool {
	return c.apiKey != ""
}

// callAPI makes a request to the chat completions API.
func (c *OpenAIClient) callAPI(ctx context.Context, prompt string) (string, error) {
	reqBody := openAIChatRequest{
		Model: c.model,
		Messages: []openAIChatMessage{
			{Role: "user", Content: prompt},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp openAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("parsing API response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in API response")
	}

	return chatResp.Choices[0].Message.Content, nil
}
