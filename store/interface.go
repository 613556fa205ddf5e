// Package store holds vector store implementations for chunk embeddings.
package store

import (
	"context"

	"github.com/harborview/concierge/schema"
)

// VectorStore stores embedded chunks and answers nearest-neighbour
// queries over them.
type VectorStore interface {
	// Add stores chunks and returns their IDs. Every chunk must carry an
	// embedding.
	Add(ctx context.Context, chunks []schema.Chunk) ([]string, error)
	// Query returns the chunks most similar to the query embedding,
	// ordered by descending relevance score.
	Query(ctx context.Context, query schema.VectorStoreQuery) ([]schema.ScoredChunk, error)
	// Delete removes a chunk by ID. Deleting an unknown ID is not an
	// error.
	Delete(ctx context.Context, id string) error
	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
}
