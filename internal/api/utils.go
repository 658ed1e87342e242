package api

import (
	"net/http"

	"github.com/EluvK/ai-sketch/internal/util/rest"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(status int, w http.ResponseWriter, r *http.Request, msg string) {
	rest.WriteResponse(status, w, r, ErrorResponse{Error: msg})
}
