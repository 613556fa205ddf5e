package synthesizer

import (
	"context"
	"fmt"

	"github.com/harborview/concierge/llm"
	"github.com/harborview/concierge/prompts"
	"github.com/harborview/concierge/schema"
)

// RefineSynthesizer answers from the highest-ranked chunk first, then
// walks the remaining chunks in rank order, asking the model to refine
// the running answer with each one. The strongest evidence anchors the
// initial answer.
type RefineSynthesizer struct {
	*baseSynthesizer
}

// NewRefineSynthesizer creates a sequential refinement synthesizer.
func NewRefineSynthesizer(model llm.LLM, opts ...Option) *RefineSynthesizer {
	return &RefineSynthesizer{baseSynthesizer: newBaseSynthesizer(model, opts...)}
}

func (s *RefineSynthesizer) Synthesize(ctx context.Context, query string, chunks []schema.ScoredChunk) (*Response, error) {
	if len(chunks) == 0 {
		return NewResponse(prompts.NoInformationResponse, nil), nil
	}

	texts := s.contextTexts(chunks)

	if len(texts) == 1 {
		return s.finishQA(ctx, query, texts[0], chunks)
	}

	answer, err := s.completeQA(ctx, query, texts[0])
	if err != nil {
		return nil, err
	}

	for _, text := range texts[1 : len(texts)-1] {
		answer, err = s.refineStep(ctx, query, answer, text)
		if err != nil {
			return nil, err
		}
	}

	// Last refinement carries the stream when streaming was requested.
	prompt := s.refinePrompt(query, answer, texts[len(texts)-1])
	return s.finish(ctx, prompt, chunks)
}

func (s *RefineSynthesizer) refineStep(ctx context.Context, query, existingAnswer, text string) (string, error) {
	answer, err := s.llm.Complete(ctx, s.refinePrompt(query, existingAnswer, text))
	if err != nil {
		return "", fmt.Errorf("synthesis step failed: %w", err)
	}
	return answer, nil
}

func (s *RefineSynthesizer) refinePrompt(query, existingAnswer, text string) string {
	return s.refineTemplate.Format(map[string]string{
		"query_str":       query,
		"existing_answer": existingAnswer,
		"context_msg":     text,
	})
}

var _ Synthesizer = (*RefineSynthesizer)(nil)
