// Package concierge assembles the retrieval-augmented question
// answering pipeline from its components. All dependencies are built
// once at startup and passed in explicitly; there is no hidden global
// state.
package concierge

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harborview/concierge/chatengine"
	"github.com/harborview/concierge/config"
	"github.com/harborview/concierge/embedding"
	"github.com/harborview/concierge/ingestion"
	"github.com/harborview/concierge/llm"
	"github.com/harborview/concierge/memory"
	"github.com/harborview/concierge/reader"
	"github.com/harborview/concierge/retriever"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/store"
	"github.com/harborview/concierge/store/chromem"
	"github.com/harborview/concierge/synthesizer"
	"github.com/harborview/concierge/textsplitter"
)

// System wires the pipeline together: reader, splitter, embedder,
// vector store, retriever and chat engine.
type System struct {
	Config      *config.Config
	LLM         llm.LLM
	Embedder    embedding.Model
	VectorStore store.VectorStore
	Splitter    *textsplitter.RecursiveSplitter
	Retriever   retriever.Retriever
	Pipeline    *ingestion.Pipeline
	Engine      *chatengine.Engine
	Logger      *slog.Logger
}

// NewSystem builds a System with OpenAI-backed models from the config.
// The chat model and embedder share one API client.
func NewSystem(cfg *config.Config, logger *slog.Logger) (*System, error) {
	apiCfg := openai.DefaultConfig(cfg.APIKey())
	if cfg.LLM.BaseURL != "" {
		apiCfg.BaseURL = cfg.LLM.BaseURL
	}
	client := openai.NewClientWithConfig(apiCfg)

	model := llm.NewOpenAILLMWithClient(client,
		llm.WithModel(cfg.LLM.Model),
		llm.WithMaxTokens(cfg.LLM.MaxTokens),
		llm.WithTemperature(cfg.LLM.Temperature),
	)
	embedder := embedding.NewOpenAIEmbeddingWithClient(client,
		embedding.WithEmbeddingModel(cfg.Embedding.Model),
		embedding.WithBatchSize(cfg.Embedding.BatchSize),
	)
	return NewSystemWithModels(cfg, model, embedder, logger)
}

// NewSystemWithModels builds a System around externally supplied models,
// e.g. deterministic stubs in tests or an alternative backend.
func NewSystemWithModels(cfg *config.Config, model llm.LLM, embedder embedding.Model, logger *slog.Logger) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	splitter, err := textsplitter.NewRecursiveSplitter(
		cfg.Splitter.ChunkSize,
		cfg.Splitter.ChunkOverlap,
		textsplitter.Format(cfg.Splitter.Format),
		textsplitter.WithAtomicWordCeiling(cfg.Splitter.AtomicWordCeiling),
		textsplitter.WithChunkIndex(true),
	)
	if err != nil {
		return nil, fmt.Errorf("building splitter: %w", err)
	}

	vectorStore, err := chromem.New(cfg.Store.PersistPath, cfg.Store.Collection)
	if err != nil {
		return nil, fmt.Errorf("opening vector store: %w", err)
	}

	retrieverOpts := []retriever.Option{
		retriever.WithTopK(cfg.Retrieval.TopK),
		retriever.WithLogger(logger),
	}
	if cfg.Retrieval.Threshold != nil {
		retrieverOpts = append(retrieverOpts, retriever.WithScoreThreshold(*cfg.Retrieval.Threshold))
	}
	ret := retriever.NewVectorRetriever(vectorStore, embedder, retrieverOpts...)

	var pipelineOpts []ingestion.Option
	if cfg.Store.RegistryPath != "" {
		registry := ingestion.NewHashRegistry(cfg.Store.RegistryPath)
		if err := registry.Load(); err != nil {
			return nil, err
		}
		pipelineOpts = append(pipelineOpts, ingestion.WithRegistry(registry))
	}
	pipelineOpts = append(pipelineOpts, ingestion.WithLogger(logger))
	pipeline := ingestion.NewPipeline(splitter, embedder, vectorStore, pipelineOpts...)

	synthOpts := []synthesizer.Option{
		synthesizer.WithContextTokenLimit(cfg.Synthesis.ContextTokenLimit),
	}
	if tokenizer, err := textsplitter.NewTikTokenizerForModel(cfg.LLM.Model); err == nil {
		synthOpts = append(synthOpts, synthesizer.WithTokenizer(tokenizer))
	} else {
		logger.Warn("no token encoding for model, counting words instead",
			"model", cfg.LLM.Model)
	}

	engine, err := chatengine.New(model, ret,
		synthesizer.Strategy(cfg.Synthesis.Strategy),
		chatengine.WithHistory(memory.NewChatHistory(memory.WithMaxTurns(cfg.Chat.MaxTurns))),
		chatengine.WithHistoryWindow(cfg.Chat.HistoryWindow),
		chatengine.WithLogger(logger),
		chatengine.WithSynthesizerOptions(synthOpts...),
	)
	if err != nil {
		return nil, err
	}

	return &System{
		Config:      cfg,
		LLM:         model,
		Embedder:    embedder,
		VectorStore: vectorStore,
		Splitter:    splitter,
		Retriever:   ret,
		Pipeline:    pipeline,
		Engine:      engine,
		Logger:      logger,
	}, nil
}

// Ingest loads the given files or directories into the vector store.
func (s *System) Ingest(ctx context.Context, paths []string) (*ingestion.Stats, error) {
	var docs []schema.Document
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("inspecting %s: %w", path, err)
		}

		var r reader.Reader
		if info.IsDir() {
			r = reader.NewDirectoryReader(path, true)
		} else {
			var ok bool
			r, ok = reader.ForFile(path)
			if !ok {
				return nil, fmt.Errorf("unsupported file type: %s", path)
			}
		}

		loaded, err := r.Load(ctx)
		if err != nil {
			return nil, err
		}
		docs = append(docs, loaded...)
	}

	return s.Pipeline.Ingest(ctx, docs)
}
