package retriever

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/concierge/embedding"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/store"
)

// seedStore fills a store with chunks at known similarities to the
// query embedding {1, 0}.
func seedStore(t *testing.T) *store.SimpleVectorStore {
	t.Helper()
	s := store.NewSimpleVectorStore()
	_, err := s.Add(context.Background(), []schema.Chunk{
		{ID: "exact", Text: "exact match", Embedding: []float32{1, 0}},
		{ID: "close", Text: "close match", Embedding: []float32{0.9, 0.4359}},
		{ID: "far", Text: "far match", Embedding: []float32{0, 1}},
	})
	require.NoError(t, err)
	return s
}

func fixedModel(v []float32) *embedding.MockModel {
	return &embedding.MockModel{Embedding: v}
}

func TestRetrieveReturnsRankedChunks(t *testing.T) {
	r := NewVectorRetriever(seedStore(t), fixedModel([]float32{1, 0}), WithTopK(3))

	chunks, err := r.Retrieve(context.Background(), schema.QueryBundle{QueryString: "q"}, "")
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, "exact", chunks[0].Chunk.ID)
	assert.Equal(t, "close", chunks[1].Chunk.ID)
	assert.Equal(t, "far", chunks[2].Chunk.ID)
}

func TestRetrieveThresholdFilters(t *testing.T) {
	r := NewVectorRetriever(seedStore(t), fixedModel([]float32{1, 0}),
		WithTopK(3), WithScoreThreshold(0.8))

	chunks, err := r.Retrieve(context.Background(), schema.QueryBundle{QueryString: "q"}, "")
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	for _, c := range chunks {
		assert.GreaterOrEqual(t, c.Score, 0.8)
	}
}

func TestRetrieveThresholdMonotonic(t *testing.T) {
	s := seedStore(t)
	model := fixedModel([]float32{1, 0})

	thresholds := []float64{0, 0.25, 0.5, 0.75, 0.9, 0.999}
	prev := -1
	for i := len(thresholds) - 1; i >= 0; i-- {
		// Walk from strictest to loosest; counts must not decrease.
		r := NewVectorRetriever(s, model, WithTopK(3), WithScoreThreshold(thresholds[i]))
		chunks, err := r.search(context.Background(), "q", nil, r.threshold)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(chunks), prev,
			"threshold %v returned fewer chunks than a stricter one", thresholds[i])
		prev = len(chunks)
	}
}

func TestRetrieveFallsBackToUnthresholdedOriginal(t *testing.T) {
	// Threshold high enough that the first search returns nothing; the
	// retry without a threshold still surfaces the raw neighbours.
	r := NewVectorRetriever(seedStore(t), fixedModel([]float32{0, -1}),
		WithTopK(2), WithScoreThreshold(0.99))

	chunks, err := r.Retrieve(context.Background(), schema.QueryBundle{QueryString: "q"}, "refined q")
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
}

func TestRetrieveEmptyStoreYieldsNoChunks(t *testing.T) {
	r := NewVectorRetriever(store.NewSimpleVectorStore(), fixedModel([]float32{1, 0}),
		WithScoreThreshold(0.5))

	chunks, err := r.Retrieve(context.Background(), schema.QueryBundle{QueryString: "q"}, "")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRetrieveUsesRefinedQuery(t *testing.T) {
	s := seedStore(t)
	model := &embedding.MockModel{} // hash-derived deterministic vectors

	r := NewVectorRetriever(s, model, WithTopK(1))

	// Different refined queries embed differently, so the mock model's
	// query text has to be the refined one when it is provided.
	a, err := model.GetQueryEmbedding(context.Background(), "refined")
	require.NoError(t, err)
	b, err := model.GetQueryEmbedding(context.Background(), "original")
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	first, err := r.Retrieve(context.Background(), schema.QueryBundle{QueryString: "original"}, "refined")
	require.NoError(t, err)
	second, err := r.Retrieve(context.Background(), schema.QueryBundle{QueryString: "refined"}, "")
	require.NoError(t, err)
	assert.Equal(t, second, first)
}

func TestRetrieveHonorsFilters(t *testing.T) {
	s := store.NewSimpleVectorStore()
	_, err := s.Add(context.Background(), []schema.Chunk{
		{ID: "a", Text: "faq", Embedding: []float32{1, 0},
			Metadata: map[string]string{schema.MetaSource: "faq.md"}},
		{ID: "b", Text: "other", Embedding: []float32{1, 0},
			Metadata: map[string]string{schema.MetaSource: "other.md"}},
	})
	require.NoError(t, err)

	r := NewVectorRetriever(s, fixedModel([]float32{1, 0}), WithTopK(5))
	chunks, err := r.Retrieve(context.Background(), schema.QueryBundle{
		QueryString: "q",
		Filters:     []schema.MetadataFilter{{Key: schema.MetaSource, Value: "faq.md"}},
	}, "")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "a", chunks[0].Chunk.ID)
}
