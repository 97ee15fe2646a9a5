package server

import (
	"context"
	"net/http"
	"time"

	"github.com/logis-assistant/server/internal/agent"
	"github.com/logis-assistant/server/internal/agent/conversations"
	"github.com/logis-assistant/server/internal/inventory"
	logx "github.com/logis-assistant/server/pkg/logger"
)

// Server exposes the agent over a small JSON API: a chat endpoint, a session
// reset and a health probe.
type Server struct {
	agent    *agent.Agent
	store    inventory.Store
	sessions *conversations.SessionManager
	srv      *http.Server
}

func New(a *agent.Agent, store inventory.Store, sessions *conversations.SessionManager) *Server {
	return &Server{agent: a, store: store, sessions: sessions}
}

// Start blocks serving the API until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /chat", s.handleChat)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleClearSession)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logx.Info().Str("addr", addr).Msg("starting HTTP server")
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
