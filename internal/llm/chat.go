package llm

import (
	"context"
	"sort"

	"github.com/EluvK/ai-sketch/internal/broadcast"

	"github.com/rs/zerolog/log"
)

// ChunkStream is a pull iterator over streamed completion chunks. Next
// blocks until a chunk arrives or the stream ends; after Next returns false
// the caller checks Err for the terminal state.
type ChunkStream interface {
	Next() bool
	Current() ChatMessageChunk
	Err() error
}

// Provider opens a streamed chat completion against a model backend. The
// tools slice carries tool declarations in wire format and may be nil.
type Provider interface {
	ChatStream(ctx context.Context, messages []ChatMessage, tools []map[string]any) (ChunkStream, error)
}

type chatProcess int

const (
	processStream chatProcess = iota
	processInvoke
	processFinish
)

// Chat drives one model conversation to completion. Assistant text deltas
// are published to out as they arrive; when the model requests tool calls
// they are resolved against registry, the results appended to messages, and
// the conversation re-submitted. The assistant text accumulated across every
// round is returned. messages is extended in place with every assistant and
// tool turn produced during the run.
func Chat(ctx context.Context, messages *[]ChatMessage, out *broadcast.Context, client Provider, registry *ToolRegistry) (string, error) {
	var tools []map[string]any
	if registry != nil {
		tools = registry.ExportAllTools()
	}

	var content string
	for {
		roundContent, calls, err := streamRound(ctx, *messages, out, client, tools)
		if err != nil {
			return "", err
		}
		content += roundContent

		if len(calls) == 0 {
			if roundContent != "" {
				*messages = append(*messages, AssistantMessage(roundContent))
			}
			return content, nil
		}

		if err := invokeToolCalls(ctx, messages, registry, roundContent, calls); err != nil {
			return "", err
		}
	}
}

// streamRound consumes one completion stream, publishing text deltas and
// assembling tool call fragments by index.
func streamRound(ctx context.Context, messages []ChatMessage, out *broadcast.Context, client Provider, tools []map[string]any) (string, []ToolCall, error) {
	stream, err := client.ChatStream(ctx, messages, tools)
	if err != nil {
		return "", nil, err
	}

	var content string
	pending := make(map[int]*ToolCall)
	announced := make(map[int]bool)

	for stream.Next() {
		select {
		case <-ctx.Done():
			return "", nil, NewTransportError("stream cancelled", ctx.Err())
		default:
		}

		chunk := stream.Current()

		if chunk.Delta.Content != "" {
			content += chunk.Delta.Content
			if out != nil {
				if err := out.Publish(broadcast.Delta(chunk.Delta.Content)); err != nil {
					return "", nil, NewChannelError("publish delta", err)
				}
			}
		}

		for _, fragment := range chunk.Delta.ToolCalls {
			if fragment.ID != "" && fragment.Function.Name != "" && !announced[fragment.Index] {
				announced[fragment.Index] = true
				if out != nil {
					if err := out.Publish(broadcast.Procedure("Tools: " + fragment.Function.Name)); err != nil {
						return "", nil, NewChannelError("publish procedure", err)
					}
				}
			}
			if call, ok := pending[fragment.Index]; ok {
				merged := call.ExtendChunk(fragment)
				pending[fragment.Index] = &merged
			} else {
				call := ToolCallFromChunk(fragment)
				call.Index = fragment.Index
				pending[fragment.Index] = &call
			}
		}

		if chunk.FinishReason != "" {
			log.Debug().Str("reason", string(chunk.FinishReason)).Msg("chat: stream finished")
		}
	}
	if err := stream.Err(); err != nil {
		return "", nil, err
	}

	indexes := make([]int, 0, len(pending))
	for index := range pending {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)

	calls := make([]ToolCall, 0, len(pending))
	for _, index := range indexes {
		calls = append(calls, *pending[index])
	}
	return content, calls, nil
}

// invokeToolCalls runs each assembled call in index order, appending the
// assistant turn that requested it and the tool turn carrying its result.
// Text the model emitted before requesting the calls rides on the first
// assistant turn. An unknown tool or bad arguments abort before anything is
// appended for that call.
func invokeToolCalls(ctx context.Context, messages *[]ChatMessage, registry *ToolRegistry, content string, calls []ToolCall) error {
	for _, call := range calls {
		select {
		case <-ctx.Done():
			return NewTransportError("tool dispatch cancelled", ctx.Err())
		default:
		}

		if registry == nil {
			return NewToolNotFoundError(call.Function.Name)
		}
		fn, ok := registry.Get(call.Function.Name)
		if !ok {
			return NewToolNotFoundError(call.Function.Name)
		}

		arguments := call.Function.Arguments
		if arguments == "" {
			arguments = "{}"
		}

		log.Debug().Str("tool", call.Function.Name).Str("id", call.ID).Msg("chat: invoking tool")
		result, err := fn([]byte(arguments))
		if err != nil {
			return err
		}

		*messages = append(*messages,
			AssistantMessage(content).WithToolCall(call),
			ToolMessage(string(result), call.ID),
		)
		content = ""
	}
	return nil
}
