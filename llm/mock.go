package llm

import (
	"context"
	"strings"
	"sync"
)

// MockLLM is a deterministic LLM for tests. It answers from an optional
// per-prompt script, falling back to a fixed response, and records every
// call so tests can assert on call counts and ordering.
type MockLLM struct {
	// Response is the default text response.
	Response string
	// Err is returned from every call when set.
	Err error
	// RespondFunc, when set, computes the response from the prompt.
	RespondFunc func(prompt string) string
	// StreamTokens, when set, is yielded token by token from Stream
	// instead of the single default response.
	StreamTokens []string

	mu    sync.Mutex
	calls []string
}

// NewMockLLM creates a MockLLM with a fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a MockLLM that fails every call.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Err: err}
}

// Calls returns a copy of the prompts seen so far, in call order.
func (m *MockLLM) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of calls made so far.
func (m *MockLLM) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *MockLLM) record(prompt string) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()
}

func (m *MockLLM) respond(prompt string) string {
	if m.RespondFunc != nil {
		return m.RespondFunc(prompt)
	}
	return m.Response
}

// Complete returns the scripted response for the prompt.
func (m *MockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.record(prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.respond(prompt), nil
}

// Chat returns the scripted response for the concatenated messages.
func (m *MockLLM) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	var sb strings.Builder
	for _, msg := range messages {
		sb.WriteString(msg.Content)
		sb.WriteString("\n")
	}
	return m.Complete(ctx, sb.String())
}

// Stream yields StreamTokens, or the scripted response as one token.
func (m *MockLLM) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	m.record(prompt)
	if m.Err != nil {
		return nil, m.Err
	}

	tokens := m.StreamTokens
	if tokens == nil {
		tokens = []string{m.respond(prompt)}
	}

	ch := make(chan string, len(tokens))
	for _, tok := range tokens {
		ch <- tok
	}
	close(ch)
	return ch, nil
}

var _ LLM = (*MockLLM)(nil)
