package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a chat run failure. Every kind is terminal for the
// run it occurred in; callers decide whether to retry the whole run.
type ErrorKind int

const (
	// KindTransport covers connection, TLS and non-2xx HTTP failures when
	// talking to a provider.
	KindTransport ErrorKind = iota
	// KindDecode covers stream payloads that cannot be parsed.
	KindDecode
	// KindToolNotFound is returned when the model requests a tool that is
	// not registered.
	KindToolNotFound
	// KindToolInput is returned when a tool's arguments do not match its
	// declared parameter schema.
	KindToolInput
	// KindChannel covers failures publishing to a closed output context.
	KindChannel
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindToolNotFound:
		return "tool_not_found"
	case KindToolInput:
		return "tool_input"
	case KindChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Error is the error type returned by chat runs and tool dispatch.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a provider transport failure.
func NewTransportError(msg string, err error) *Error {
	return &Error{Kind: KindTransport, Msg: msg, Err: err}
}

// NewDecodeError wraps a stream payload that could not be parsed.
func NewDecodeError(msg string, err error) *Error {
	return &Error{Kind: KindDecode, Msg: msg, Err: err}
}

// NewToolNotFoundError reports a request for an unregistered tool.
func NewToolNotFoundError(name string) *Error {
	return &Error{Kind: KindToolNotFound, Msg: name}
}

// NewToolInputError reports tool arguments that failed to unmarshal.
func NewToolInputError(name string, err error) *Error {
	return &Error{Kind: KindToolInput, Msg: name, Err: err}
}

// NewChannelError reports a publish to a closed output.
func NewChannelError(msg string, err error) *Error {
	return &Error{Kind: KindChannel, Msg: msg, Err: err}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
