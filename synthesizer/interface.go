// Package synthesizer turns a question and a ranked list of retrieved
// chunks into a single grounded answer.
package synthesizer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborview/concierge/llm"
	"github.com/harborview/concierge/prompts"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/textsplitter"
)

// DefaultContextTokenLimit bounds the tokens of context text placed into
// a single prompt.
const DefaultContextTokenLimit = 3000

// Synthesizer generates an answer from a question and retrieved chunks.
// Zero chunks is a valid input and yields the canned no-information
// answer without any model call. A model failure at any step aborts the
// whole synthesis; partial multi-step output is never returned.
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, chunks []schema.ScoredChunk) (*Response, error)
}

type baseSynthesizer struct {
	llm               llm.LLM
	streaming         bool
	tokenizer         textsplitter.Tokenizer
	contextTokenLimit int
	logger            *slog.Logger

	qaTemplate      *prompts.Template
	refineTemplate  *prompts.Template
	combineTemplate *prompts.Template
}

// Option configures a synthesizer.
type Option func(*baseSynthesizer)

// WithStreaming makes the final synthesis step stream its tokens.
func WithStreaming(streaming bool) Option {
	return func(b *baseSynthesizer) {
		b.streaming = streaming
	}
}

// WithTokenizer sets the tokenizer used for the context token budget.
func WithTokenizer(tokenizer textsplitter.Tokenizer) Option {
	return func(b *baseSynthesizer) {
		if tokenizer != nil {
			b.tokenizer = tokenizer
		}
	}
}

// WithContextTokenLimit caps the tokens of context text per prompt.
func WithContextTokenLimit(limit int) Option {
	return func(b *baseSynthesizer) {
		if limit > 0 {
			b.contextTokenLimit = limit
		}
	}
}

// WithLogger sets the logger used for synthesis diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(b *baseSynthesizer) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTextQATemplate overrides the context question-answer template.
func WithTextQATemplate(t *prompts.Template) Option {
	return func(b *baseSynthesizer) {
		if t != nil {
			b.qaTemplate = t
		}
	}
}

// WithRefineTemplate overrides the answer refinement template.
func WithRefineTemplate(t *prompts.Template) Option {
	return func(b *baseSynthesizer) {
		if t != nil {
			b.refineTemplate = t
		}
	}
}

// WithCombineTemplate overrides the pairwise combination template.
func WithCombineTemplate(t *prompts.Template) Option {
	return func(b *baseSynthesizer) {
		if t != nil {
			b.combineTemplate = t
		}
	}
}

func newBaseSynthesizer(model llm.LLM, opts ...Option) *baseSynthesizer {
	b := &baseSynthesizer{
		llm:               model,
		tokenizer:         textsplitter.WordTokenizer{},
		contextTokenLimit: DefaultContextTokenLimit,
		logger:            slog.Default(),
		qaTemplate:        prompts.TextQA,
		refineTemplate:    prompts.Refine,
		combineTemplate:   prompts.Combine,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// contextTexts extracts chunk texts in retrieval-rank order, each
// trimmed to the context token budget.
func (b *baseSynthesizer) contextTexts(chunks []schema.ScoredChunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = b.fitContext(c.Chunk.Text)
	}
	return texts
}

// fitContext truncates text to the context token budget. Truncation is
// by whole runes, binary searching the longest prefix under budget, so
// the result is deterministic for a given tokenizer.
func (b *baseSynthesizer) fitContext(text string) string {
	if b.tokenizer.CountTokens(text) <= b.contextTokenLimit {
		return text
	}

	runes := []rune(text)
	lo, hi := 0, len(runes)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.tokenizer.CountTokens(string(runes[:mid])) <= b.contextTokenLimit {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return string(runes[:lo])
}

// completeQA runs a blocking question-answer call over one context text.
func (b *baseSynthesizer) completeQA(ctx context.Context, query, contextStr string) (string, error) {
	prompt := b.qaTemplate.Format(map[string]string{
		"query_str":   query,
		"context_str": contextStr,
	})
	answer, err := b.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("synthesis step failed: %w", err)
	}
	return answer, nil
}

// combinePair merges two partial answers into one.
func (b *baseSynthesizer) combinePair(ctx context.Context, query, answerOne, answerTwo string) (string, error) {
	prompt := b.combineTemplate.Format(map[string]string{
		"query_str":  query,
		"answer_one": answerOne,
		"answer_two": answerTwo,
	})
	answer, err := b.llm.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("synthesis step failed: %w", err)
	}
	return answer, nil
}

// finish runs the final synthesis call, streaming when requested.
func (b *baseSynthesizer) finish(ctx context.Context, prompt string, sources []schema.ScoredChunk) (*Response, error) {
	if b.streaming {
		tokens, err := b.llm.Stream(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("synthesis step failed: %w", err)
		}
		return NewStreamingResponse(tokens, sources), nil
	}

	answer, err := b.llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesis step failed: %w", err)
	}
	return NewResponse(answer, sources), nil
}

// finishQA is finish over the question-answer template.
func (b *baseSynthesizer) finishQA(ctx context.Context, query, contextStr string, sources []schema.ScoredChunk) (*Response, error) {
	prompt := b.qaTemplate.Format(map[string]string{
		"query_str":   query,
		"context_str": contextStr,
	})
	return b.finish(ctx, prompt, sources)
}
