package embedding

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultBatchSize caps how many texts go into one embeddings request.
const DefaultBatchSize = 64

// OpenAIEmbedding is an embedding Model backed by the OpenAI embeddings API.
type OpenAIEmbedding struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	batchSize int
	logger    *slog.Logger
}

// OpenAIEmbeddingOption configures an OpenAIEmbedding.
type OpenAIEmbeddingOption func(*OpenAIEmbedding)

// WithEmbeddingModel sets the embedding model name.
func WithEmbeddingModel(model string) OpenAIEmbeddingOption {
	return func(o *OpenAIEmbedding) {
		o.model = openai.EmbeddingModel(model)
	}
}

// WithBatchSize sets the maximum number of texts per embeddings request.
func WithBatchSize(n int) OpenAIEmbeddingOption {
	return func(o *OpenAIEmbedding) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// NewOpenAIEmbedding creates an OpenAIEmbedding. An empty apiKey falls
// back to the OPENAI_API_KEY environment variable.
func NewOpenAIEmbedding(apiKey string, opts ...OpenAIEmbeddingOption) *OpenAIEmbedding {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return NewOpenAIEmbeddingWithClient(openai.NewClient(apiKey), opts...)
}

// NewOpenAIEmbeddingWithClient creates an OpenAIEmbedding from an existing
// client, so the embedder and LLM can share one transport.
func NewOpenAIEmbeddingWithClient(client *openai.Client, opts ...OpenAIEmbeddingOption) *OpenAIEmbedding {
	o := &OpenAIEmbedding{
		client:    client,
		model:     openai.SmallEmbedding3,
		batchSize: DefaultBatchSize,
		logger:    slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// GetTextEmbedding generates an embedding for a document text.
func (o *OpenAIEmbedding) GetTextEmbedding(ctx context.Context, text string) ([]float32, error) {
	vectors, err := o.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// GetQueryEmbedding generates an embedding for a query.
func (o *OpenAIEmbedding) GetQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	return o.GetTextEmbedding(ctx, query)
}

// GetTextEmbeddingsBatch generates embeddings for multiple texts in input
// order, batching requests to stay under API limits.
func (o *OpenAIEmbedding) GetTextEmbeddingsBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += o.batchSize {
		end := start + o.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := o.embed(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (o *OpenAIEmbedding) embed(ctx context.Context, input []string) ([][]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: input,
		Model: o.model,
	})
	if err != nil {
		o.logger.Error("embedding failed", "model", o.model, "error", err)
		return nil, fmt.Errorf("openai embedding failed: %w", err)
	}
	if len(resp.Data) != len(input) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(input))
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

var _ Model = (*OpenAIEmbedding)(nil)
