package api

import (
	"net/http"

	"github.com/EluvK/ai-sketch/internal/config"
	"github.com/EluvK/ai-sketch/internal/llm"
	"github.com/EluvK/ai-sketch/internal/middleware"
)

// Service holds the shared state behind the API handlers.
type Service struct {
	cfg      *config.ServerConfig
	auth     *middleware.Auth
	client   llm.Provider
	registry *llm.ToolRegistry
}

func NewService(cfg *config.ServerConfig, client llm.Provider) *Service {
	svc := &Service{
		cfg:      cfg,
		auth:     middleware.NewAuth(cfg),
		client:   client,
		registry: llm.NewToolRegistry(),
	}
	svc.registerBuiltinTools()
	return svc
}

// Registry exposes the tool registry so deployments can add their own
// tools before serving.
func (svc *Service) Registry() *llm.ToolRegistry {
	return svc.registry
}

func (svc *Service) ApiRoutes(router *http.ServeMux) {

	// Core
	router.HandleFunc("GET /api/ping", HandlePing)
	router.HandleFunc("POST /api/auth/login", svc.HandleLogin)
	router.HandleFunc("POST /api/auth/register", svc.HandleRegister)
	router.HandleFunc("POST /api/auth/refresh", svc.HandleRefresh)
	router.HandleFunc("POST /api/auth/logout", svc.auth.ApiAuth(svc.HandleLogout))

	// Users
	router.HandleFunc("GET /api/user", svc.auth.ApiAuth(svc.HandleWhoAmI))
	router.HandleFunc("PUT /api/user", svc.auth.ApiAuth(svc.HandleUpdateUser))

	// Folders
	router.HandleFunc("GET /api/folders", svc.auth.ApiAuth(svc.HandleGetFolders))
	router.HandleFunc("POST /api/folders", svc.auth.ApiAuth(svc.HandleCreateFolder))
	router.HandleFunc("PUT /api/folders/{folder_id}", svc.auth.ApiAuth(svc.HandleUpdateFolder))
	router.HandleFunc("DELETE /api/folders/{folder_id}", svc.auth.ApiAuth(svc.HandleDeleteFolder))

	// Statistics
	router.HandleFunc("GET /api/statistics/daily", svc.auth.ApiAuth(svc.HandleGetDailyStatistics))

	// Chat
	router.HandleFunc("POST /api/chat/stream", svc.auth.ApiAuth(svc.HandleChatStream))
	router.HandleFunc("GET /api/chat/ws", svc.auth.ApiAuth(svc.HandleChatWebsocket))
}
