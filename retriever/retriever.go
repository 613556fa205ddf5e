// Package retriever finds the stored chunks most relevant to a question.
package retriever

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/harborview/concierge/embedding"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/store"
)

// DefaultTopK is the default number of neighbours fetched per query.
const DefaultTopK = 4

// Retriever retrieves scored chunks for a query. Retrieval is read-only
// and never mutates the underlying store.
type Retriever interface {
	// Retrieve searches with refinedQuery when it is non-empty, falling
	// back to the bundle's original query when the thresholded search
	// comes back empty. A zero-chunk result is a valid outcome, not an
	// error.
	Retrieve(ctx context.Context, query schema.QueryBundle, refinedQuery string) ([]schema.ScoredChunk, error)
}

// VectorRetriever retrieves chunks by embedding the query and searching
// a vector store, dropping results below an optional relevance
// threshold.
type VectorRetriever struct {
	vectorStore store.VectorStore
	model       embedding.Model
	topK        int
	threshold   *float64
	logger      *slog.Logger
}

// Option configures a VectorRetriever.
type Option func(*VectorRetriever)

// WithTopK sets the number of neighbours fetched per query.
func WithTopK(k int) Option {
	return func(r *VectorRetriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithScoreThreshold drops results scoring below t. Without this option
// the raw top-k results are returned unfiltered.
func WithScoreThreshold(t float64) Option {
	return func(r *VectorRetriever) {
		r.threshold = &t
	}
}

// WithLogger sets the logger used for retrieval diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *VectorRetriever) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewVectorRetriever creates a retriever over the given store and
// embedding model.
func NewVectorRetriever(vectorStore store.VectorStore, model embedding.Model, opts ...Option) *VectorRetriever {
	r := &VectorRetriever{
		vectorStore: vectorStore,
		model:       model,
		topK:        DefaultTopK,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *VectorRetriever) Retrieve(ctx context.Context, query schema.QueryBundle, refinedQuery string) ([]schema.ScoredChunk, error) {
	searchQuery := query.QueryString
	if refinedQuery != "" {
		searchQuery = refinedQuery
	}

	chunks, err := r.search(ctx, searchQuery, query.Filters, r.threshold)
	if err != nil {
		return nil, err
	}
	if len(chunks) > 0 {
		return chunks, nil
	}

	// Nothing survived the thresholded search. Retry with the original
	// question and no threshold, unless that is exactly the search that
	// just came back empty.
	if refinedQuery == "" && r.threshold == nil {
		return nil, nil
	}
	r.logger.DebugContext(ctx, "thresholded retrieval empty, retrying unthresholded",
		"query", query.QueryString)

	chunks, err = r.search(ctx, query.QueryString, query.Filters, nil)
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

func (r *VectorRetriever) search(ctx context.Context, text string, filters []schema.MetadataFilter, threshold *float64) ([]schema.ScoredChunk, error) {
	queryEmbedding, err := r.model.GetQueryEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.vectorStore.Query(ctx, schema.VectorStoreQuery{
		Embedding: queryEmbedding,
		TopK:      r.topK,
		Filters:   filters,
	})
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	if threshold == nil {
		return results, nil
	}
	kept := results[:0]
	for _, result := range results {
		if result.Score >= *threshold {
			kept = append(kept, result)
		}
	}
	return kept, nil
}

var _ Retriever = (*VectorRetriever)(nil)
