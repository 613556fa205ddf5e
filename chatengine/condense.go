// Package chatengine orchestrates a conversation: condensing follow-up
// questions, retrieving context and synthesizing grounded answers.
package chatengine

import (
	"context"
	"log/slog"
	"strings"

	"github.com/harborview/concierge/llm"
	"github.com/harborview/concierge/memory"
	"github.com/harborview/concierge/prompts"
	"github.com/harborview/concierge/schema"
)

// Condenser rewrites a context-dependent follow-up question into a
// standalone one using recent conversation turns.
type Condenser struct {
	llm      llm.LLM
	template *prompts.Template
	logger   *slog.Logger
}

// NewCondenser creates a question condenser.
func NewCondenser(model llm.LLM, template *prompts.Template, logger *slog.Logger) *Condenser {
	if template == nil {
		template = prompts.Condense
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Condenser{llm: model, template: template, logger: logger}
}

// Condense returns a standalone version of question given the history.
// With no history the question comes back unchanged and no model call is
// made. A model failure or blank rewrite also falls back to the raw
// question; condensing never aborts the pipeline.
func (c *Condenser) Condense(ctx context.Context, question string, turns []schema.ChatTurn) string {
	if len(turns) == 0 {
		return question
	}

	prompt := c.template.Format(map[string]string{
		"chat_history": memory.Render(turns),
		"question":     question,
	})

	condensed, err := c.llm.Complete(ctx, prompt)
	if err != nil {
		c.logger.WarnContext(ctx, "question condensing failed, using raw question",
			"error", err)
		return question
	}

	condensed = strings.TrimSpace(condensed)
	if condensed == "" {
		c.logger.WarnContext(ctx, "question condensing returned empty rewrite, using raw question")
		return question
	}
	return condensed
}
