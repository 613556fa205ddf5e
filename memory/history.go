// Package memory holds per-session conversation state.
package memory

import (
	"strings"
	"sync"

	"github.com/harborview/concierge/schema"
)

// DefaultMaxTurns is the default chat history capacity in turns.
const DefaultMaxTurns = 10

// ChatHistory is a bounded, ordered record of question/answer turns.
// Appending past the capacity evicts the oldest turn first. It is safe
// for concurrent use, and is per-session state: it is not shared across
// sessions and is not persisted across restarts.
type ChatHistory struct {
	mu       sync.Mutex
	turns    []schema.ChatTurn
	maxTurns int
}

// ChatHistoryOption configures a ChatHistory.
type ChatHistoryOption func(*ChatHistory)

// WithMaxTurns sets the history capacity in turns.
func WithMaxTurns(n int) ChatHistoryOption {
	return func(h *ChatHistory) {
		if n > 0 {
			h.maxTurns = n
		}
	}
}

// NewChatHistory creates an empty history.
func NewChatHistory(opts ...ChatHistoryOption) *ChatHistory {
	h := &ChatHistory{maxTurns: DefaultMaxTurns}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Append records a completed turn, evicting the oldest turn when the
// history is at capacity.
func (h *ChatHistory) Append(question, answer string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.turns = append(h.turns, schema.ChatTurn{Question: question, Answer: answer})
	if len(h.turns) > h.maxTurns {
		h.turns = h.turns[len(h.turns)-h.maxTurns:]
	}
}

// Recent returns the most recent n turns in chronological order. n <= 0
// or n larger than the history returns everything retained.
func (h *ChatHistory) Recent(n int) []schema.ChatTurn {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n <= 0 || n > len(h.turns) {
		n = len(h.turns)
	}
	out := make([]schema.ChatTurn, n)
	copy(out, h.turns[len(h.turns)-n:])
	return out
}

// Turns returns a copy of every retained turn in chronological order.
func (h *ChatHistory) Turns() []schema.ChatTurn {
	return h.Recent(0)
}

// Len returns the number of retained turns.
func (h *ChatHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.turns)
}

// Clear drops all turns, e.g. when the caller restarts the conversation.
func (h *ChatHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turns = nil
}

// Render formats turns for embedding into a prompt.
func Render(turns []schema.ChatTurn) string {
	var b strings.Builder
	for i, turn := range turns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("Guest: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Answer)
	}
	return b.String()
}
