package server

import (
	"log/slog"
	"net/http"

	"insights-chat/internal/handlers"
	"insights-chat/internal/query"
)

type Server struct {
	service     *query.Service
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

type TemplateHandlers struct {
	Chat http.HandlerFunc
}

func NewServer(service *query.Service, logger *slog.Logger, templateHandlers *TemplateHandlers) *Server {
	s := &Server{
		service:     service,
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(service, logger),
		sseHandlers: handlers.NewSSEHandlers(service, logger),
	}
	s.setupRoutes(templateHandlers)
	return s
}

func (s *Server) setupRoutes(templateHandlers *TemplateHandlers) {
	// Chat page
	s.mux.HandleFunc("GET /{$}", templateHandlers.Chat)
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// REST API endpoints
	s.mux.HandleFunc("POST /api/query", s.apiHandlers.HandleQuery)
	s.mux.HandleFunc("GET /api/examples", s.apiHandlers.HandleExamples)
	s.mux.HandleFunc("GET /api/dataset", s.apiHandlers.HandleDataset)

	// Datastar SSE endpoints
	s.mux.HandleFunc("GET /sse/ask", s.sseHandlers.HandleAsk)
	s.mux.HandleFunc("POST /sse/ask", s.sseHandlers.HandleAsk)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
