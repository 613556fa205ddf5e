// Package embedding abstracts the text embedding model and provides the
// similarity math used to turn raw distances into relevance scores.
package embedding

import "context"

// Model is the interface for generating text embeddings. Implementations
// must be deterministic for identical input so retrieval is reproducible.
type Model interface {
	// GetTextEmbedding generates an embedding for a document text.
	GetTextEmbedding(ctx context.Context, text string) ([]float32, error)
	// GetQueryEmbedding generates an embedding for a query. Often the same
	// as GetTextEmbedding, but some models treat the two differently.
	GetQueryEmbedding(ctx context.Context, query string) ([]float32, error)
	// GetTextEmbeddingsBatch generates embeddings for multiple texts,
	// returned in input order.
	GetTextEmbeddingsBatch(ctx context.Context, texts []string) ([][]float32, error)
}
