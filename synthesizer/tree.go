package synthesizer

import (
	"context"
	"strings"

	"github.com/harborview/concierge/llm"
	"github.com/harborview/concierge/prompts"
	"github.com/harborview/concierge/schema"
)

// finalFanIn is the most partial answers the terminal synthesis call
// folds together. With adjacent pairwise rounds above it, five chunks
// cost 5 + 2 + 1 model calls.
const finalFanIn = 3

// TreeSynthesizer builds one chunk-isolated partial answer per chunk,
// then reduces them with adjacent pairwise combination rounds. An odd
// leftover answer passes through to the next round unchanged. Pairing is
// always adjacent in current order, never re-sorted, so the reduction is
// reproducible for a given chunk order.
type TreeSynthesizer struct {
	*baseSynthesizer
}

// NewTreeSynthesizer creates a sequential tree reduction synthesizer.
func NewTreeSynthesizer(model llm.LLM, opts ...Option) *TreeSynthesizer {
	return &TreeSynthesizer{baseSynthesizer: newBaseSynthesizer(model, opts...)}
}

func (s *TreeSynthesizer) Synthesize(ctx context.Context, query string, chunks []schema.ScoredChunk) (*Response, error) {
	if len(chunks) == 0 {
		return NewResponse(prompts.NoInformationResponse, nil), nil
	}

	texts := s.contextTexts(chunks)
	if len(texts) == 1 {
		return s.finishQA(ctx, query, texts[0], chunks)
	}

	answers := make([]string, len(texts))
	for i, text := range texts {
		answer, err := s.completeQA(ctx, query, text)
		if err != nil {
			return nil, err
		}
		answers[i] = answer
	}

	for len(answers) > finalFanIn {
		next, err := s.combineRound(ctx, query, answers)
		if err != nil {
			return nil, err
		}
		answers = next
	}

	return s.finishQA(ctx, query, joinAnswers(answers), chunks)
}

// combineRound merges adjacent pairs; a trailing unpaired answer is
// carried into the next round as is.
func (s *TreeSynthesizer) combineRound(ctx context.Context, query string, answers []string) ([]string, error) {
	next := make([]string, 0, (len(answers)+1)/2)
	for i := 0; i+1 < len(answers); i += 2 {
		combined, err := s.combinePair(ctx, query, answers[i], answers[i+1])
		if err != nil {
			return nil, err
		}
		next = append(next, combined)
	}
	if len(answers)%2 == 1 {
		next = append(next, answers[len(answers)-1])
	}
	return next, nil
}

func joinAnswers(answers []string) string {
	return strings.Join(answers, "\n\n")
}

var _ Synthesizer = (*TreeSynthesizer)(nil)
