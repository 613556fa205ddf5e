package llm

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAILLM is an LLM backed by the OpenAI chat completion API, or any
// OpenAI-compatible endpoint via a custom base URL.
type OpenAILLM struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	logger      *slog.Logger
}

// OpenAIOption configures an OpenAILLM.
type OpenAIOption func(*OpenAILLM)

// WithModel sets the model name.
func WithModel(model string) OpenAIOption {
	return func(o *OpenAILLM) {
		o.model = model
	}
}

// WithMaxTokens caps the number of generated tokens per call.
func WithMaxTokens(n int) OpenAIOption {
	return func(o *OpenAILLM) {
		o.maxTokens = n
	}
}

// WithTemperature sets the sampling temperature. Zero gives the
// deterministic mode used in evaluation runs.
func WithTemperature(t float32) OpenAIOption {
	return func(o *OpenAILLM) {
		o.temperature = t
	}
}

// NewOpenAILLM creates an OpenAILLM. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable; an empty baseURL uses the default
// OpenAI endpoint.
func NewOpenAILLM(baseURL, apiKey string, opts ...OpenAIOption) *OpenAILLM {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	o := &OpenAILLM{
		client: openai.NewClientWithConfig(config),
		model:  openai.GPT4oMini,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NewOpenAILLMWithClient creates an OpenAILLM from an existing client,
// so the LLM and embedder can share one transport.
func NewOpenAILLMWithClient(client *openai.Client, opts ...OpenAIOption) *OpenAILLM {
	o := &OpenAILLM{
		client: client,
		model:  openai.GPT4oMini,
		logger: slog.New(slog.NewJSONHandler(os.Stdout, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *OpenAILLM) request(messages []openai.ChatCompletionMessage, stream bool) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
		Stream:      stream,
	}
}

// Complete generates a completion for a prompt.
func (o *OpenAILLM) Complete(ctx context.Context, prompt string) (string, error) {
	o.logger.Info("complete", "model", o.model, "prompt_len", len(prompt))

	resp, err := o.client.CreateChatCompletion(ctx, o.request([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}, false))
	if err != nil {
		o.logger.Error("complete failed", "error", err)
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Chat generates a response for a list of chat messages.
func (o *OpenAILLM) Chat(ctx context.Context, messages []ChatMessage) (string, error) {
	o.logger.Info("chat", "model", o.model, "message_count", len(messages))

	converted := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		converted[i] = openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, o.request(converted, false))
	if err != nil {
		o.logger.Error("chat failed", "error", err)
		return "", fmt.Errorf("openai chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Stream generates a streaming completion for a prompt.
func (o *OpenAILLM) Stream(ctx context.Context, prompt string) (<-chan string, error) {
	o.logger.Info("stream", "model", o.model, "prompt_len", len(prompt))

	stream, err := o.client.CreateChatCompletionStream(ctx, o.request([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}, true))
	if err != nil {
		o.logger.Error("stream failed", "error", err)
		return nil, fmt.Errorf("openai stream failed: %w", err)
	}

	tokenChan := make(chan string)
	go func() {
		defer close(tokenChan)
		defer stream.Close()

		for {
			response, err := stream.Recv()
			if err == io.EOF {
				return
			}
			if err != nil {
				o.logger.Error("stream receive error", "error", err)
				return
			}
			if len(response.Choices) > 0 {
				delta := response.Choices[0].Delta.Content
				if delta != "" {
					select {
					case tokenChan <- delta:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return tokenChan, nil
}

var _ LLM = (*OpenAILLM)(nil)
