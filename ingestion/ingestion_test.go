package ingestion

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborview/concierge/embedding"
	"github.com/harborview/concierge/schema"
	"github.com/harborview/concierge/store"
	"github.com/harborview/concierge/textsplitter"
)

func newTestPipeline(t *testing.T, opts ...Option) (*Pipeline, *store.SimpleVectorStore) {
	t.Helper()
	splitter, err := textsplitter.NewRecursiveSplitter(40, 8, textsplitter.FormatPlain)
	require.NoError(t, err)
	s := store.NewSimpleVectorStore()
	return NewPipeline(splitter, &embedding.MockModel{}, s, opts...), s
}

func TestIngestStoresEmbeddedChunks(t *testing.T) {
	p, s := newTestPipeline(t)

	docs := []schema.Document{
		schema.NewDocument("First paragraph about check-in.\n\nSecond paragraph about check-out times at the hotel.",
			map[string]string{schema.MetaSource: "faq.md"}),
	}
	stats, err := p.Ingest(context.Background(), docs)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Documents)
	assert.Zero(t, stats.Skipped)
	assert.Greater(t, stats.Chunks, 1)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, stats.Chunks, count)

	results, err := s.Query(context.Background(), schema.VectorStoreQuery{
		Embedding: []float32{1, 0, 0, 0, 0, 0, 0, 0},
		TopK:      1,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "faq.md", results[0].Chunk.Metadata[schema.MetaSource])
	assert.NotEmpty(t, results[0].Chunk.Embedding)
}

func TestIngestSkipsEmptyDocuments(t *testing.T) {
	p, _ := newTestPipeline(t)

	stats, err := p.Ingest(context.Background(), []schema.Document{
		schema.NewDocument("", nil),
	})
	require.NoError(t, err)
	assert.Zero(t, stats.Documents)
	assert.Zero(t, stats.Chunks)
}

func TestIngestDeduplicatesByHash(t *testing.T) {
	registry := NewHashRegistry("")
	p, s := newTestPipeline(t, WithRegistry(registry))

	doc := schema.NewDocument("Pets are welcome in ground floor rooms.",
		map[string]string{schema.MetaSource: "pets.md"})

	first, err := p.Ingest(context.Background(), []schema.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Documents)
	assert.Greater(t, first.Chunks, 0)

	second, err := p.Ingest(context.Background(), []schema.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Skipped)
	assert.Zero(t, second.Chunks)

	count, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Chunks, count)
}

func TestHashRegistryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "hashes.json")

	registry := NewHashRegistry(path)
	require.NoError(t, registry.Load())
	registry.Add("abc")
	registry.Add("def")
	require.NoError(t, registry.Save())

	reloaded := NewHashRegistry(path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 2, reloaded.Len())
	assert.True(t, reloaded.Seen("abc"))
	assert.False(t, reloaded.Seen("xyz"))
}

func TestHashRegistryMissingFileIsEmpty(t *testing.T) {
	registry := NewHashRegistry(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, registry.Load())
	assert.Zero(t, registry.Len())
}

func TestIngestAtomicQARecordSingleChunk(t *testing.T) {
	splitter, err := textsplitter.NewRecursiveSplitter(50, 10, textsplitter.FormatQA)
	require.NoError(t, err)
	s := store.NewSimpleVectorStore()
	p := NewPipeline(splitter, &embedding.MockModel{}, s)

	doc := schema.NewDocument(
		"Q: Can I bring my dog?\nA: Yes, dogs up to 20kg are welcome in ground floor rooms for a small nightly fee.",
		map[string]string{schema.MetaType: schema.TypeQAPair})

	stats, err := p.Ingest(context.Background(), []schema.Document{doc})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Chunks)
}
