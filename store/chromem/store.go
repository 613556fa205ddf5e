// Package chromem implements the vector store on top of chromem-go,
// with optional on-disk persistence.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/harborview/concierge/embedding"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/store"
)

// Store is a VectorStore backed by a chromem-go collection.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
}

// New creates a chromem-backed store. An empty persistPath keeps the
// store in memory; otherwise documents are persisted under that
// directory and reloaded on the next start.
func New(persistPath, collectionName string) (*Store, error) {
	if collectionName == "" {
		return nil, errors.New("collection name cannot be empty")
	}

	var db *chromemgo.DB
	if persistPath != "" {
		var err error
		db, err = chromemgo.NewPersistentDB(persistPath, false)
		if err != nil {
			return nil, fmt.Errorf("opening persistent chromem db: %w", err)
		}
	} else {
		db = chromemgo.NewDB()
	}

	// Embeddings are computed upstream and passed in explicitly, so no
	// embedding function is registered on the collection.
	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("opening collection %q: %w", collectionName, err)
	}

	return &Store{db: db, collection: collection}, nil
}

func (s *Store) Add(ctx context.Context, chunks []schema.Chunk) ([]string, error) {
	docs := make([]chromemgo.Document, len(chunks))
	ids := make([]string, len(chunks))

	for i, chunk := range chunks {
		if chunk.ID == "" {
			return nil, errors.New("chunk ID cannot be empty")
		}
		if len(chunk.Embedding) == 0 {
			return nil, fmt.Errorf("chunk %s has no embedding", chunk.ID)
		}

		meta := make(map[string]string, len(chunk.Metadata))
		for k, v := range chunk.Metadata {
			meta[k] = v
		}

		docs[i] = chromemgo.Document{
			ID:        chunk.ID,
			Content:   chunk.Text,
			Metadata:  meta,
			Embedding: chunk.Embedding,
		}
		ids[i] = chunk.ID
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return nil, fmt.Errorf("adding documents to collection: %w", err)
	}
	return ids, nil
}

func (s *Store) Query(ctx context.Context, query schema.VectorStoreQuery) ([]schema.ScoredChunk, error) {
	topK := query.TopK
	if count := s.collection.Count(); topK > count {
		topK = count
	}
	if topK <= 0 {
		return nil, nil
	}

	var where map[string]string
	for _, f := range query.Filters {
		if where == nil {
			where = make(map[string]string)
		}
		where[f.Key] = f.Value
	}

	res, err := s.collection.QueryEmbedding(ctx, query.Embedding, topK, where, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}

	scored := make([]schema.ScoredChunk, len(res))
	for i, doc := range res {
		meta := make(map[string]string, len(doc.Metadata))
		for k, v := range doc.Metadata {
			meta[k] = v
		}
		scored[i] = schema.ScoredChunk{
			Chunk: schema.Chunk{
				ID:       doc.ID,
				Text:     doc.Content,
				Metadata: meta,
			},
			// chromem reports cosine similarity; clamp it into [0, 1].
			Score: embedding.RelevanceFromCosine(float64(doc.Similarity)),
		}
	}
	return scored, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.collection.Delete(ctx, nil, nil, id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.collection.Count(), nil
}

var _ store.VectorStore = (*Store)(nil)
