// Package provider implements streamed chat completion clients for model
// backends that speak the OpenAI wire protocol.
package provider

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/EluvK/ai-sketch/internal/llm"
	"github.com/EluvK/ai-sketch/internal/util/rest"

	"github.com/rs/zerolog/log"
)

const completionsPath = "/v1/chat/completions"

// Config selects and configures a model backend.
type Config struct {
	Provider string        `toml:"provider" json:"provider"`
	APIKey   string        `toml:"api_key" json:"api_key"`
	BaseURL  string        `toml:"base_url" json:"base_url"`
	Model    string        `toml:"model" json:"model"`
	Timeout  time.Duration `toml:"timeout" json:"timeout"`
}

// New builds a provider client from config. Known providers are "openai"
// and "deepseek".
func New(cfg Config) (llm.Provider, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg)
	case "deepseek":
		return NewDeepSeekClient(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// client is the shared transport under both providers, they differ only in
// defaults.
type client struct {
	rest  *rest.RESTClient
	model string
	name  string
}

func newClient(cfg Config, name, defaultBaseURL, defaultModel string) (*client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	restClient, err := rest.NewClient(baseURL, cfg.APIKey, false)
	if err != nil {
		return nil, err
	}
	if cfg.Timeout > 0 {
		restClient.SetTimeout(cfg.Timeout)
	}

	return &client{rest: restClient, model: model, name: name}, nil
}

type chatCompletionRequest struct {
	Model         string            `json:"model"`
	Messages      []llm.ChatMessage `json:"messages"`
	Stream        bool              `json:"stream"`
	StreamOptions *streamOptions    `json:"stream_options,omitempty"`
	Tools         []map[string]any  `json:"tools,omitempty"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type wireChunk struct {
	ID      string       `json:"id"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []wireChoice `json:"choices"`
	Usage   *wireUsage   `json:"usage,omitempty"`
}

type wireChoice struct {
	Delta        wireDelta `json:"delta"`
	FinishReason string    `json:"finish_reason"`
}

type wireDelta struct {
	Content   string              `json:"content"`
	ToolCalls []llm.ChunkToolCall `json:"tool_calls"`
}

type wireUsage struct {
	TotalTokens int64 `json:"total_tokens"`
}

// normalizeChunk folds a wire chunk into the common chunk shape. Chunks
// with no choices and no usage carry nothing and are dropped.
func normalizeChunk(chunk *wireChunk) (llm.ChatMessageChunk, bool) {
	out := llm.ChatMessageChunk{
		ID:      chunk.ID,
		Created: chunk.Created,
		Model:   chunk.Model,
	}
	if chunk.Usage != nil {
		out.TotalTokens = chunk.Usage.TotalTokens
	}
	if len(chunk.Choices) == 0 {
		return out, chunk.Usage != nil
	}

	choice := chunk.Choices[0]
	out.Delta = llm.ChatMessageDelta{
		Content:   choice.Delta.Content,
		ToolCalls: choice.Delta.ToolCalls,
	}
	out.FinishReason = llm.FinishReason(choice.FinishReason)
	return out, true
}

// chatStream opens the completion stream and feeds normalized chunks to a
// ChatStream iterator from a background goroutine.
func (c *client) chatStream(ctx context.Context, messages []llm.ChatMessage, tools []map[string]any, includeUsage bool) (llm.ChunkStream, error) {
	request := chatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   true,
		Tools:    tools,
	}
	if includeUsage {
		request.StreamOptions = &streamOptions{IncludeUsage: true}
	}

	stream := newChatStream(ctx)

	go func() {
		defer close(stream.chunks)

		err := rest.StreamData(c.rest, ctx, http.MethodPost, completionsPath, request,
			func(chunk *wireChunk) (bool, error) {
				normalized, ok := normalizeChunk(chunk)
				if !ok {
					return false, nil
				}
				select {
				case stream.chunks <- normalized:
					return false, nil
				case <-ctx.Done():
					return false, ctx.Err()
				}
			})
		if err != nil {
			log.Debug().Err(err).Str("provider", c.name).Msg("llm: completion stream failed")
			stream.errs <- llm.NewTransportError(c.name+" completion stream", err)
		}
	}()

	return stream, nil
}
