package api

import (
	"net/http"

	"github.com/EluvK/ai-sketch/internal/broadcast"
	"github.com/EluvK/ai-sketch/internal/llm"
	"github.com/EluvK/ai-sketch/internal/middleware"
	"github.com/EluvK/ai-sketch/internal/util/rest"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

type ChatRequest struct {
	Messages []llm.ChatMessage `json:"messages"`
}

type chatResult struct {
	content string
	err     error
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// runChat starts the model conversation in the background and returns the
// stream of published messages plus a channel carrying the final result.
func (svc *Service) runChat(r *http.Request, request ChatRequest) (<-chan broadcast.StreamMessage, func(), <-chan chatResult) {
	user := middleware.UserFromContext(r.Context())

	out := broadcast.NewContext()
	out.Set("user_id", user.Id)

	sub, cancel := out.Subscribe()

	done := make(chan chatResult, 1)
	go func() {
		messages := request.Messages
		content, err := llm.Chat(r.Context(), &messages, out, svc.client, svc.registry)
		out.Close()
		done <- chatResult{content: content, err: err}
	}()

	return sub, cancel, done
}

// HandleChatStream runs a chat completion and relays its stream messages to
// the client over SSE. Text deltas arrive as {"d":...}, progress notes as
// {"p":...}, failures as a final {"error":...} before the [DONE] marker.
func (svc *Service) HandleChatStream(w http.ResponseWriter, r *http.Request) {
	request := ChatRequest{}
	if err := rest.DecodeRequestBody(w, r, &request); err != nil {
		return
	}
	if len(request.Messages) == 0 {
		writeError(http.StatusBadRequest, w, r, "No messages given")
		return
	}

	sub, cancel, done := svc.runChat(r, request)
	defer cancel()

	writer := rest.NewSSEStreamWriter(w, r)
	defer writer.Close()

	for msg := range sub {
		if err := writer.WriteChunk(msg); err != nil {
			log.Debug().Err(err).Msg("api: chat client went away")
			return
		}
	}

	result := <-done
	if result.err != nil {
		log.Error().Err(result.err).Msg("api: chat run failed")
		writer.WriteChunk(ErrorResponse{Error: result.err.Error()})
	}
	writer.WriteEnd()
}

// HandleChatWebsocket is the websocket variant of the chat stream. The
// client sends one request frame, receives stream messages as JSON frames
// and a closing {"done":...} or {"error":...} frame.
func (svc *Service) HandleChatWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("api: websocket upgrade failed")
		return
	}
	defer ws.Close()

	request := ChatRequest{}
	if err := ws.ReadJSON(&request); err != nil || len(request.Messages) == 0 {
		ws.WriteJSON(ErrorResponse{Error: "Invalid chat request"})
		return
	}

	sub, cancel, done := svc.runChat(r, request)
	defer cancel()

	for msg := range sub {
		if err := ws.WriteJSON(msg); err != nil {
			log.Debug().Err(err).Msg("api: chat client went away")
			return
		}
	}

	result := <-done
	if result.err != nil {
		log.Error().Err(result.err).Msg("api: chat run failed")
		ws.WriteJSON(ErrorResponse{Error: result.err.Error()})
		return
	}

	ws.WriteJSON(struct {
		Done string `json:"done"`
	}{Done: result.content})
}
