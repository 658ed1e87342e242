package provider

import (
	"context"

	"github.com/EluvK/ai-sketch/internal/llm"
)

const (
	openAIBaseURL      = "https://api.openai.com/"
	openAIDefaultModel = "gpt-4o-mini"
)

// OpenAIClient streams chat completions from the OpenAI API.
type OpenAIClient struct {
	*client
}

func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	inner, err := newClient(cfg, "openai", openAIBaseURL, openAIDefaultModel)
	if err != nil {
		return nil, err
	}
	return &OpenAIClient{client: inner}, nil
}

func (c *OpenAIClient) ChatStream(ctx context.Context, messages []llm.ChatMessage, tools []map[string]any) (llm.ChunkStream, error) {
	return c.chatStream(ctx, messages, tools, false)
}
