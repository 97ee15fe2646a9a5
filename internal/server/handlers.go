package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/logis-assistant/server/internal/agent/model"
	errx "github.com/logis-assistant/server/internal/core/error"
	logx "github.com/logis-assistant/server/pkg/logger"
)

// chatTimeout bounds one request end to end, including every reasoning
// engine round.
const chatTimeout = 2 * time.Minute

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

type clearSessionResponse struct {
	SessionID string `json:"session_id"`
	Cleared   int    `json:"cleared"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Products int    `json:"products"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.errorResponse(w, http.StatusBadRequest, errors.New("message is required"))
		return
	}

	// An absent session identifier starts a fresh session.
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	ctx, cancel := context.WithTimeout(r.Context(), chatTimeout)
	defer cancel()

	out, err := s.agent.Respond(ctx, model.QueryInput{
		SessionID: sessionID,
		Query:     req.Message,
	})
	if err != nil {
		s.errorResponse(w, appStatus(err), err)
		return
	}

	s.jsonResponse(w, http.StatusOK, chatResponse{
		Response:  out.Answer,
		SessionID: out.SessionID,
	})
}

// handleClearSession drops a session's conversation log so the next message
// starts over. The response reports how many messages were discarded.
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if sessionID == "" {
		s.errorResponse(w, http.StatusBadRequest, errors.New("session id is required"))
		return
	}

	count, err := s.sessions.Size(r.Context(), sessionID)
	if err != nil {
		s.errorResponse(w, appStatus(err), err)
		return
	}
	if err := s.sessions.Clear(r.Context(), sessionID); err != nil {
		s.errorResponse(w, appStatus(err), err)
		return
	}

	s.jsonResponse(w, http.StatusOK, clearSessionResponse{SessionID: sessionID, Cleared: count})
}

// appStatus picks the HTTP status for an infrastructure error.
func appStatus(err error) int {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.Count(r.Context())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, healthResponse{Status: "ok", Products: count})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, err error) {
	logx.Error().Err(err).Int("status", status).Msg("request failed")
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
