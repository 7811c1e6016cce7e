package llm

import (
	"context"
	"sync"

	"github.com/gyxcit/simdecision/internal/model"
	"github.com/gyxcit/simdecision/internal/proposal"
)

// MockClient implements Client for testing purposes. It allows configuring
// responses for GenerateModel and ProposeEdit, simulating errors, and
// tracking calls for verification.
type MockClient struct {
	mu sync.Mutex

	// Configured responses
	generated *model.SystemModel
	proposed  *proposal.Proposal
	err       error
	available bool

	// Call tracking
	GenerateCalls []GenerateCall
	ProposeCalls  []ProposeCall
}

// GenerateCall records a call to GenerateModel.
type GenerateCall struct {
	Description string
}

// ProposeCall records a call to ProposeEdit.
type ProposeCall struct {
	Model       *model.SystemModel
	Target      string
	Instruction string
}

// NewMockClient creates a new MockClient with default settings.
// By default, it is available and returns zero-value results.
func NewMockClient() *MockClient {
	return &MockClient{
		available:     true,
		GenerateCalls: make([]GenerateCall, 0),
		ProposeCalls:  make([]ProposeCall, 0),
	}
}

// WithGeneratedModel configures the model returned by GenerateModel.
func (m *MockClient) WithGeneratedModel(sm *model.SystemModel) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generated = sm
	return m
}

// WithProposal configures the proposal returned by ProposeEdit.
func (m *MockClient) WithProposal(p *proposal.Proposal) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposed = p
	return m
}

// WithError configures the error returned by all methods.
func (m *MockClient) WithError(err error) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithAvailable configures whether Available() returns true or false.
func (m *MockClient) WithAvailable(available bool) *MockClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.available = available
	return m
}

// GenerateModel implements Client.GenerateModel.
// It records the call and returns the configured result or error.
func (m *MockClient) GenerateModel(ctx context.Context, description string) (*model.SystemModel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GenerateCalls = append(m.GenerateCalls, GenerateCall{Description: description})

	if m.err != nil {
		return nil, m.err
	}
	if m.generated != nil {
		return m.generated.Clone(), nil
	}
	return model.New(), nil
}

// ProposeEdit implements Client.ProposeEdit.
// It records the call and returns the configured result or error.
func (m *MockClient) ProposeEdit(ctx context.Context, sm *model.SystemModel, target, instruction string) (*proposal.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProposeCalls = append(m.ProposeCalls, ProposeCall{Model: sm, Target: target, Instruction: instruction})

	if m.err != nil {
		return nil, m.err
	}
	if m.proposed != nil {
		return m.proposed, nil
	}
	return &proposal.Proposal{}, nil
}

// Available implements Client.Available.
func (m *MockClient) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// GenerateCallCount returns the number of times GenerateModel was called.
func (m *MockClient) GenerateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.GenerateCalls)
}

// ProposeCallCount returns the number of times ProposeEdit was called.
func (m *MockClient) ProposeCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ProposeCalls)
}
