package provider

import (
	"context"

	"github.com/EluvK/ai-sketch/internal/llm"
)

const (
	deepSeekBaseURL      = "https://api.deepseek.com"
	deepSeekDefaultModel = "deepseek-chat"
)

// DeepSeekClient streams chat completions from the DeepSeek API. The wire
// protocol matches OpenAI; usage totals are requested so token counts show
// up on the final chunk.
type DeepSeekClient struct {
	*client
}

func NewDeepSeekClient(cfg Config) (*DeepSeekClient, error) {
	inner, err := newClient(cfg, "deepseek", deepSeekBaseURL, deepSeekDefaultModel)
	if err != nil {
		return nil, err
	}
	return &DeepSeekClient{client: inner}, nil
}

func (c *DeepSeekClient) ChatStream(ctx context.Context, messages []llm.ChatMessage, tools []map[string]any) (llm.ChunkStream, error) {
	return c.chatStream(ctx, messages, tools, true)
}
