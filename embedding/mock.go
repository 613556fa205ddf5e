package embedding

import (
	"context"
	"crypto/sha256"
)

// MockModel is a deterministic embedding Model for tests. When Embedding
// is set, every call returns it; otherwise each text hashes to a stable
// unit vector, so distinct texts get distinct but reproducible embeddings.
type MockModel struct {
	Embedding []float32
	Dims      int
	Err       error
}

func (m *MockModel) dims() int {
	if m.Dims > 0 {
		return m.Dims
	}
	return 8
}

func (m *MockModel) embed(text string) []float32 {
	if m.Embedding != nil {
		return m.Embedding
	}
	sum := sha256.Sum256([]byte(text))
	v := make([]float32, m.dims())
	for i := range v {
		v[i] = float32(sum[i%len(sum)]) / 255
	}
	return Normalize(v)
}

func (m *MockModel) GetTextEmbedding(ctx context.Context, text string) ([]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.embed(text), nil
}

func (m *MockModel) GetQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return m.GetTextEmbedding(ctx, query)
}

func (m *MockModel) GetTextEmbeddingsBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.embed(t)
	}
	return out, nil
}

var _ Model = (*MockModel)(nil)
