package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	errUnsupportedContentType = errors.New("Content-Type header is not application/json or application/msgpack")
	errInvalidStatusCode      = errors.New("invalid status code")
)

// DecodeRequestBody decodes JSON or Msgpack data from the request body into a struct
func DecodeRequestBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	contentType := r.Header.Get("Content-Type")
	// Handle possible charset in Content-Type
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}

	switch contentType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return err
		}
		return nil
	case "application/msgpack":
		if err := msgpack.NewDecoder(r.Body).Decode(v); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return err
		}
		return nil
	default:
		http.Error(w, errUnsupportedContentType.Error(), http.StatusUnsupportedMediaType)
		return errUnsupportedContentType
	}
}

// WriteResponse encodes and writes a JSON or Msgpack response
func WriteResponse(status int, w http.ResponseWriter, r *http.Request, v interface{}) error {
	if status < 100 || status > 599 {
		http.Error(w, errInvalidStatusCode.Error(), http.StatusInternalServerError)
		return errInvalidStatusCode
	}

	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/msgpack") {
		w.Header().Set("Content-Type", "application/msgpack")
		w.WriteHeader(status)
		return msgpack.NewEncoder(w).Encode(v)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// SSEStreamWriter writes chunks using Server-Sent Events
type SSEStreamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewSSEStreamWriter creates a new SSE stream writer
func NewSSEStreamWriter(w http.ResponseWriter, r *http.Request) *SSEStreamWriter {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	flusher, _ := w.(http.Flusher)

	return &SSEStreamWriter{
		w:       w,
		flusher: flusher,
		closed:  false,
	}
}

// WriteChunk writes a single chunk as SSE, SSE always uses JSON
func (ssw *SSEStreamWriter) WriteChunk(chunk interface{}) error {
	if ssw.closed {
		return errors.New("stream writer is closed")
	}

	data, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk: %w", err)
	}

	if _, err := fmt.Fprintf(ssw.w, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write chunk: %w", err)
	}

	if ssw.flusher != nil {
		ssw.flusher.Flush()
	}

	return nil
}

// WriteEnd signals the end of the SSE stream
func (ssw *SSEStreamWriter) WriteEnd() error {
	if ssw.closed {
		return nil
	}

	if _, err := fmt.Fprint(ssw.w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("failed to write end marker: %w", err)
	}

	if ssw.flusher != nil {
		ssw.flusher.Flush()
	}

	return nil
}

// Close closes the SSE stream writer
func (ssw *SSEStreamWriter) Close() error {
	ssw.closed = true
	return nil
}
