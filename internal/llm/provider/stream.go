package provider

import (
	"context"

	"github.com/EluvK/ai-sketch/internal/llm"
)

const streamBuffer = 50

// ChatStream is the pull iterator handed to callers of a provider client.
// Chunks arrive on an internal channel fed by the transport goroutine;
// closing that channel ends the stream.
type ChatStream struct {
	ctx     context.Context
	chunks  chan llm.ChatMessageChunk
	errs    chan error
	current llm.ChatMessageChunk
	err     error
	done    bool
}

func newChatStream(ctx context.Context) *ChatStream {
	return &ChatStream{
		ctx:    ctx,
		chunks: make(chan llm.ChatMessageChunk, streamBuffer),
		errs:   make(chan error, 1),
	}
}

// Next advances to the next chunk, blocking until one arrives. It returns
// false when the stream ends, fails or the context is cancelled; Err
// distinguishes the three.
func (s *ChatStream) Next() bool {
	if s.done {
		return false
	}

	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			// Drain a late error from the transport goroutine.
			select {
			case s.err = <-s.errs:
			default:
			}
			s.done = true
			return false
		}
		s.current = chunk
		return true
	case err := <-s.errs:
		s.err = err
		s.done = true
		return false
	case <-s.ctx.Done():
		s.err = llm.NewTransportError("stream cancelled", s.ctx.Err())
		s.done = true
		return false
	}
}

// Current returns the chunk Next advanced to.
func (s *ChatStream) Current() llm.ChatMessageChunk {
	return s.current
}

// Err returns the terminal error, nil on normal completion.
func (s *ChatStream) Err() error {
	return s.err
}
