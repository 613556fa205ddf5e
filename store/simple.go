package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/harborview/concierge/embedding"
	"github.com/harborview/concierge/schema"
)

// SimpleVectorStore is an in-memory vector store scoring by cosine
// similarity. It is safe for concurrent use.
type SimpleVectorStore struct {
	mu     sync.RWMutex
	chunks map[string]schema.Chunk
}

// NewSimpleVectorStore creates an empty in-memory store.
func NewSimpleVectorStore() *SimpleVectorStore {
	return &SimpleVectorStore{
		chunks: make(map[string]schema.Chunk),
	}
}

func (s *SimpleVectorStore) Add(ctx context.Context, chunks []schema.Chunk) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk.ID == "" {
			return nil, errors.New("chunk ID cannot be empty")
		}
		if len(chunk.Embedding) == 0 {
			return nil, fmt.Errorf("chunk %s has no embedding", chunk.ID)
		}
		s.chunks[chunk.ID] = chunk
		ids = append(ids, chunk.ID)
	}
	return ids, nil
}

func (s *SimpleVectorStore) Query(ctx context.Context, query schema.VectorStoreQuery) ([]schema.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var scored []schema.ScoredChunk
	for _, chunk := range s.chunks {
		if !matchesFilters(chunk, query.Filters) {
			continue
		}
		sim, err := embedding.CosineSimilarity(query.Embedding, chunk.Embedding)
		if err != nil {
			return nil, fmt.Errorf("scoring chunk %s: %w", chunk.ID, err)
		}
		scored = append(scored, schema.ScoredChunk{
			Chunk: chunk,
			Score: embedding.RelevanceFromCosine(sim),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if query.TopK > 0 && len(scored) > query.TopK {
		scored = scored[:query.TopK]
	}
	return scored, nil
}

func (s *SimpleVectorStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.chunks, id)
	return nil
}

func (s *SimpleVectorStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.chunks), nil
}

func matchesFilters(chunk schema.Chunk, filters []schema.MetadataFilter) bool {
	for _, f := range filters {
		if chunk.Metadata[f.Key] != f.Value {
			return false
		}
	}
	return true
}

var _ VectorStore = (*SimpleVectorStore)(nil)
