package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockLLMComplete(t *testing.T) {
	m := NewMockLLM("answer")
	resp, err := m.Complete(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", resp)
	assert.Equal(t, 1, m.CallCount())
	assert.Equal(t, []string{"question"}, m.Calls())
}

func TestMockLLMRespondFunc(t *testing.T) {
	m := &MockLLM{RespondFunc: func(prompt string) string {
		return "echo: " + prompt
	}}
	resp, err := m.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "echo: hi", resp)
}

func TestMockLLMError(t *testing.T) {
	wantErr := errors.New("boom")
	m := NewMockLLMWithError(wantErr)

	_, err := m.Complete(context.Background(), "q")
	assert.ErrorIs(t, err, wantErr)

	_, err = m.Stream(context.Background(), "q")
	assert.ErrorIs(t, err, wantErr)
}

func TestMockLLMStreamTokens(t *testing.T) {
	m := &MockLLM{StreamTokens: []string{"Hel", "lo"}}
	ch, err := m.Stream(context.Background(), "q")
	require.NoError(t, err)

	var sb strings.Builder
	for tok := range ch {
		sb.WriteString(tok)
	}
	assert.Equal(t, "Hello", sb.String())
}

func TestMockLLMCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMockLLM("never")
	_, err := m.Complete(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, m.CallCount())
}

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, MessageRoleSystem, NewSystemMessage("s").Role)
	assert.Equal(t, MessageRoleUser, NewUserMessage("u").Role)
	assert.Equal(t, MessageRoleAssistant, NewAssistantMessage("a").Role)
}
