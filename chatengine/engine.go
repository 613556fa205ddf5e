package chatengine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/harborview/concierge/llm"
	"github.com/harborview/concierge/memory"
	"github.com/harborview/concierge/prompts"
	"github.com/harborview/concierge/retriever"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/synthesizer"
)

// DefaultHistoryWindow is how many recent turns feed the condense prompt.
const DefaultHistoryWindow = 5

// Reply is the engine's answer to one question.
type Reply struct {
	*synthesizer.Response
	// CondensedQuestion is the standalone question used for retrieval
	// and synthesis. Equals the raw question when no rewriting happened.
	CondensedQuestion string
	// NoContext is true when retrieval found nothing relevant and the
	// answer is the canned no-information response. Distinct from an
	// error: the system worked, the knowledge base had no answer.
	NoContext bool
}

// Engine answers questions over the knowledge base, one session per
// instance. Queries within a session are serialized: a second question
// waits until the first has finished mutating the history.
type Engine struct {
	condenser   *Condenser
	retriever   retriever.Retriever
	synth       synthesizer.Synthesizer
	streamSynth synthesizer.Synthesizer
	history     *memory.ChatHistory

	historyWindow int
	logger        *slog.Logger

	mu sync.Mutex
}

// EngineOption configures an Engine.
type EngineOption func(*engineConfig)

type engineConfig struct {
	history          *memory.ChatHistory
	historyWindow    int
	logger           *slog.Logger
	condenseTemplate *prompts.Template
	synthOpts        []synthesizer.Option
}

// WithHistory sets the session's chat history.
func WithHistory(h *memory.ChatHistory) EngineOption {
	return func(c *engineConfig) {
		if h != nil {
			c.history = h
		}
	}
}

// WithHistoryWindow sets how many recent turns feed the condense prompt.
func WithHistoryWindow(n int) EngineOption {
	return func(c *engineConfig) {
		if n > 0 {
			c.historyWindow = n
		}
	}
}

// WithLogger sets the logger used by the engine and its condenser.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCondenseTemplate overrides the question condensing template.
func WithCondenseTemplate(t *prompts.Template) EngineOption {
	return func(c *engineConfig) {
		if t != nil {
			c.condenseTemplate = t
		}
	}
}

// WithSynthesizerOptions passes options through to both synthesizers.
func WithSynthesizerOptions(opts ...synthesizer.Option) EngineOption {
	return func(c *engineConfig) {
		c.synthOpts = append(c.synthOpts, opts...)
	}
}

// New creates an Engine. The strategy picks the synthesis algorithm for
// the whole session.
func New(model llm.LLM, ret retriever.Retriever, strategy synthesizer.Strategy, opts ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{
		history:       memory.NewChatHistory(),
		historyWindow: DefaultHistoryWindow,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	synth, err := synthesizer.New(strategy, model,
		append([]synthesizer.Option{synthesizer.WithLogger(cfg.logger)}, cfg.synthOpts...)...)
	if err != nil {
		return nil, fmt.Errorf("building synthesizer: %w", err)
	}
	streamOpts := append([]synthesizer.Option{
		synthesizer.WithLogger(cfg.logger),
		synthesizer.WithStreaming(true),
	}, cfg.synthOpts...)
	streamSynth, err := synthesizer.New(strategy, model, streamOpts...)
	if err != nil {
		return nil, fmt.Errorf("building streaming synthesizer: %w", err)
	}

	return &Engine{
		condenser:     NewCondenser(model, cfg.condenseTemplate, cfg.logger),
		retriever:     ret,
		synth:         synth,
		streamSynth:   streamSynth,
		history:       cfg.history,
		historyWindow: cfg.historyWindow,
		logger:        cfg.logger,
	}, nil
}

// Chat answers a question, blocking until the full answer is ready. The
// turn is recorded in the history only after a complete answer; a
// cancelled or failed request leaves the history untouched.
func (e *Engine) Chat(ctx context.Context, question string) (*Reply, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	condensed, chunks, err := e.prepare(ctx, question)
	if err != nil {
		return nil, err
	}

	resp, err := e.synth.Synthesize(ctx, condensed, chunks)
	if err != nil {
		return nil, fmt.Errorf("synthesizing answer: %w", err)
	}

	answer := resp.String()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	e.history.Append(question, answer)
	return &Reply{
		Response:          resp,
		CondensedQuestion: condensed,
		NoContext:         len(chunks) == 0,
	}, nil
}

// ChatStream answers a question with the final synthesis step streamed.
// The reply's token channel delivers tokens in order; the turn is
// appended to the history only once the stream completes. Cancellation
// mid-stream abandons the answer without recording a partial turn. The
// session stays locked until the stream finishes or is cancelled.
func (e *Engine) ChatStream(ctx context.Context, question string) (*Reply, error) {
	e.mu.Lock()

	condensed, chunks, err := e.prepare(ctx, question)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	if len(chunks) == 0 {
		// Canned answer, nothing to stream.
		resp := synthesizer.NewResponse(prompts.NoInformationResponse, nil)
		e.history.Append(question, resp.Answer)
		e.mu.Unlock()
		return &Reply{Response: resp, CondensedQuestion: condensed, NoContext: true}, nil
	}

	resp, err := e.streamSynth.Synthesize(ctx, condensed, chunks)
	if err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("synthesizing answer: %w", err)
	}
	if resp.Tokens == nil {
		e.history.Append(question, resp.Answer)
		e.mu.Unlock()
		return &Reply{Response: resp, CondensedQuestion: condensed}, nil
	}

	out := make(chan string)
	go func() {
		defer e.mu.Unlock()
		defer close(out)

		var full strings.Builder
		for token := range resp.Tokens {
			select {
			case out <- token:
				full.WriteString(token)
			case <-ctx.Done():
				return
			}
		}
		if ctx.Err() != nil {
			return
		}
		e.history.Append(question, full.String())
	}()

	return &Reply{
		Response:          synthesizer.NewStreamingResponse(out, resp.Sources),
		CondensedQuestion: condensed,
	}, nil
}

// History exposes the session's chat history for inspection and reset.
func (e *Engine) History() *memory.ChatHistory {
	return e.history
}

// prepare condenses the question and retrieves its context.
func (e *Engine) prepare(ctx context.Context, question string) (string, []schema.ScoredChunk, error) {
	turns := e.history.Recent(e.historyWindow)
	condensed := e.condenser.Condense(ctx, question, turns)

	refined := ""
	if condensed != question {
		refined = condensed
	}

	chunks, err := e.retriever.Retrieve(ctx, schema.QueryBundle{QueryString: question}, refined)
	if err != nil {
		return "", nil, fmt.Errorf("retrieving context: %w", err)
	}

	e.logger.DebugContext(ctx, "prepared question",
		"question", question,
		"condensed", condensed,
		"chunks", len(chunks))
	return condensed, chunks, nil
}
