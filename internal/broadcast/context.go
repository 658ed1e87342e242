package broadcast

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 100

// ErrClosed is returned by Publish after the context has been closed.
var ErrClosed = errors.New("broadcast: context closed")

// Context carries a chat run's identity, a small key value store for
// request-scoped data, and a fan-out channel for stream messages. There is
// no replay: subscribers only see messages published after they subscribe.
type Context struct {
	id string

	mu          sync.RWMutex
	data        map[string]any
	subscribers map[chan StreamMessage]struct{}
	closed      bool
}

// NewContext creates a context with a fresh run id and no subscribers.
func NewContext() *Context {
	id := uuid.New().String()
	if v7, err := uuid.NewV7(); err == nil {
		id = v7.String()
	}
	return &Context{
		id:          id,
		data:        make(map[string]any),
		subscribers: make(map[chan StreamMessage]struct{}),
	}
}

// ID returns the run id.
func (c *Context) ID() string {
	return c.id
}

// Set stores a request-scoped value.
func (c *Context) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
}

// Get returns a request-scoped value.
func (c *Context) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.data[key]
	return value, ok
}

// Remove deletes a request-scoped value.
func (c *Context) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Subscribe registers a new listener and returns its channel together with
// a cancel function. The channel is closed when the listener cancels or when
// the whole context closes.
func (c *Context) Subscribe() (<-chan StreamMessage, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan StreamMessage, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	c.subscribers[ch] = struct{}{}

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subscribers[ch]; ok {
			delete(c.subscribers, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers msg to every subscriber. Delivery is non-blocking: a
// subscriber whose buffer is full misses the message. Publishing with no
// subscribers is not an error.
func (c *Context) Publish(msg StreamMessage) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return ErrClosed
	}
	for ch := range c.subscribers {
		select {
		case ch <- msg:
		default:
			log.Warn().Str("run", c.id).Msg("broadcast: subscriber buffer full, dropping message")
		}
	}
	return nil
}

// Close shuts the context down. All subscriber channels are closed and
// further publishes fail with ErrClosed. Close is idempotent.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	for ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = make(map[chan StreamMessage]struct{})
}
