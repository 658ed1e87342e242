package api

import (
	"net/http"

	"github.com/EluvK/ai-sketch/build"
	"github.com/EluvK/ai-sketch/internal/util/rest"
)

type PingResponse struct {
	Status  bool   `json:"status"`
	Version string `json:"version"`
}

func HandlePing(w http.ResponseWriter, r *http.Request) {
	rest.WriteResponse(http.StatusOK, w, r, PingResponse{
		Status:  true,
		Version: build.Version,
	})
}
