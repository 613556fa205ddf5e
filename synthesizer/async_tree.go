package synthesizer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/harborview/concierge/llm"
	"github.com/harborview/concierge/prompts"
	"github.com/harborview/concierge/schema"
)

// AsyncTreeSynthesizer runs the same reduction as TreeSynthesizer but
// issues the per-chunk answers, and each round's pairwise combinations,
// concurrently. Rounds are separated by a join barrier: a round's inputs
// are the previous round's outputs, so no call of round r+1 starts
// before all of round r completes. Results are written back by position,
// which keeps the final answer byte-identical to the sequential tree for
// a deterministic model. A failure anywhere in a round cancels the rest
// of that round and aborts the synthesis.
type AsyncTreeSynthesizer struct {
	*baseSynthesizer
}

// NewAsyncTreeSynthesizer creates a concurrent tree reduction
// synthesizer. It only pays off when the model backend can actually
// serve parallel requests.
func NewAsyncTreeSynthesizer(model llm.LLM, opts ...Option) *AsyncTreeSynthesizer {
	return &AsyncTreeSynthesizer{baseSynthesizer: newBaseSynthesizer(model, opts...)}
}

func (s *AsyncTreeSynthesizer) Synthesize(ctx context.Context, query string, chunks []schema.ScoredChunk) (*Response, error) {
	if len(chunks) == 0 {
		return NewResponse(prompts.NoInformationResponse, nil), nil
	}

	texts := s.contextTexts(chunks)
	if len(texts) == 1 {
		return s.finishQA(ctx, query, texts[0], chunks)
	}

	answers := make([]string, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			answer, err := s.completeQA(gctx, query, text)
			if err != nil {
				return err
			}
			answers[i] = answer
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
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

// combineRound merges adjacent pairs concurrently; a trailing unpaired
// answer is carried into the next round as is.
func (s *AsyncTreeSynthesizer) combineRound(ctx context.Context, query string, answers []string) ([]string, error) {
	pairs := len(answers) / 2
	next := make([]string, pairs, pairs+1)

	g, gctx := errgroup.WithContext(ctx)
	for p := 0; p < pairs; p++ {
		p := p
		g.Go(func() error {
			combined, err := s.combinePair(gctx, query, answers[2*p], answers[2*p+1])
			if err != nil {
				return err
			}
			next[p] = combined
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(answers)%2 == 1 {
		next = append(next, answers[len(answers)-1])
	}
	return next, nil
}

var _ Synthesizer = (*AsyncTreeSynthesizer)(nil)
