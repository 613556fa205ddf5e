package synthesizer

import (
	"fmt"

	"github.com/harborview/concierge/llm"
)

// Strategy selects the synthesis algorithm. It is chosen once per
// session or request, not per chunk.
type Strategy string

const (
	// StrategyRefine answers from the top chunk and sequentially refines
	// with each further chunk. Lowest latency.
	StrategyRefine Strategy = "refine"
	// StrategyTree builds one partial answer per chunk and reduces them
	// pairwise, sequentially.
	StrategyTree Strategy = "tree"
	// StrategyAsyncTree is StrategyTree with the per-chunk answers and
	// each reduction round fanned out concurrently. Only worthwhile when
	// the model backend serves parallel requests.
	StrategyAsyncTree Strategy = "async_tree"
)

// IsValid reports whether the strategy is known.
func (s Strategy) IsValid() bool {
	switch s {
	case StrategyRefine, StrategyTree, StrategyAsyncTree:
		return true
	}
	return false
}

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	strategy := Strategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("unknown synthesis strategy %q", s)
	}
	return strategy, nil
}

// New creates the synthesizer for a strategy.
func New(strategy Strategy, model llm.LLM, opts ...Option) (Synthesizer, error) {
	switch strategy {
	case StrategyRefine:
		return NewRefineSynthesizer(model, opts...), nil
	case StrategyTree:
		return NewTreeSynthesizer(model, opts...), nil
	case StrategyAsyncTree:
		return NewAsyncTreeSynthesizer(model, opts...), nil
	default:
		return nil, fmt.Errorf("unknown synthesis strategy %q", strategy)
	}
}
