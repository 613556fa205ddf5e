// Package llm abstracts the language model used for question condensing
// and answer synthesis.
package llm

import "context"

// LLM is the interface all language model clients must satisfy.
type LLM interface {
	// Complete generates a completion for a prompt, blocking until done.
	Complete(ctx context.Context, prompt string) (string, error)
	// Chat generates a response for a list of chat messages.
	Chat(ctx context.Context, messages []ChatMessage) (string, error)
	// Stream generates a completion as a finite, non-restartable sequence
	// of tokens. Tokens are delivered in order; the channel is closed when
	// the completion finishes or the context is cancelled.
	Stream(ctx context.Context, prompt string) (<-chan string, error)
}

// MessageRole identifies the sender of a chat message.
type MessageRole string

const (
	// MessageRoleSystem is for system instructions.
	MessageRoleSystem MessageRole = "system"
	// MessageRoleUser is for user messages.
	MessageRoleUser MessageRole = "user"
	// MessageRoleAssistant is for assistant responses.
	MessageRoleAssistant MessageRole = "assistant"
)

// ChatMessage is a message in a chat conversation.
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: MessageRoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: MessageRoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: MessageRoleAssistant, Content: content}
}
