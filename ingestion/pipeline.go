package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborview/concierge/embedding"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/store"
	"github.com/harborview/concierge/textsplitter"
)

// Stats summarizes one ingestion run.
type Stats struct {
	// Documents is the number of documents processed.
	Documents int
	// Skipped is the number of documents skipped as already ingested.
	Skipped int
	// Chunks is the number of chunks embedded and stored.
	Chunks int
}

// Pipeline splits documents into chunks, embeds them in batches and
// writes them to the vector store. Documents whose content hash is
// already in the registry are skipped.
type Pipeline struct {
	splitter    textsplitter.DocumentSplitter
	model       embedding.Model
	vectorStore store.VectorStore
	registry    *HashRegistry
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithRegistry enables content-hash deduplication across runs.
func WithRegistry(registry *HashRegistry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithLogger sets the logger used for ingestion progress.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(splitter textsplitter.DocumentSplitter, model embedding.Model, vectorStore store.VectorStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		splitter:    splitter,
		model:       model,
		vectorStore: vectorStore,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Ingest processes documents end to end. It returns after all chunks
// are stored; a failure partway leaves previously stored batches in
// place (re-running with a registry skips completed documents).
func (p *Pipeline) Ingest(ctx context.Context, docs []schema.Document) (*Stats, error) {
	stats := &Stats{}

	var chunks []schema.Chunk
	var hashes []string
	for _, doc := range docs {
		if doc.Text == "" {
			continue
		}
		stats.Documents++

		hash := doc.Hash()
		if p.registry != nil && p.registry.Seen(hash) {
			stats.Skipped++
			continue
		}

		docChunks := p.splitter.SplitDocument(doc)
		chunks = append(chunks, docChunks...)
		hashes = append(hashes, hash)
	}

	if len(chunks) == 0 {
		p.logger.InfoContext(ctx, "nothing to ingest",
			"documents", stats.Documents, "skipped", stats.Skipped)
		return stats, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	embeddings, err := p.model.GetTextEmbeddingsBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding count mismatch: %d chunks, %d embeddings",
			len(chunks), len(embeddings))
	}
	for i := range chunks {
		chunks[i].Embedding = embeddings[i]
	}

	if _, err := p.vectorStore.Add(ctx, chunks); err != nil {
		return nil, fmt.Errorf("storing chunks: %w", err)
	}

	if p.registry != nil {
		for _, hash := range hashes {
			p.registry.Add(hash)
		}
		if err := p.registry.Save(); err != nil {
			return nil, err
		}
	}

	stats.Chunks = len(chunks)
	p.logger.InfoContext(ctx, "ingestion complete",
		"documents", stats.Documents,
		"skipped", stats.Skipped,
		"chunks", stats.Chunks)
	return stats, nil
}
