// Package api exposes the chat agent over HTTP.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/graph"
	"github.com/JayanthSrinivas06/autostream-agent/internal/agent/model"
	logx "github.com/JayanthSrinivas06/autostream-agent/pkg/logger"
)

// DefaultSessionID is used when the client does not supply a session.
const DefaultSessionID = "default"

// failureReply is the only thing an end user sees when an external call
// fails; the cause stays in the logs.
const failureReply = "I'm sorry, something went wrong on our end. Could you try again?"

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ChatResponse struct {
	Response     string `json:"response"`
	Intent       string `json:"intent,omitempty"`
	LeadCaptured bool   `json:"lead_captured"`
	SessionID    string `json:"session_id"`
}

type Server struct {
	router   *chi.Mux
	port     int
	runner   graph.Runner
	sessions model.SessionRepository
}

func NewServer(port int, runner graph.Runner, sessions model.SessionRepository) *Server {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:   router,
		port:     port,
		runner:   runner,
		sessions: sessions,
	}

	router.Get("/", s.root)
	router.Get("/api/health", s.health)
	router.Post("/api/chat", s.chat)

	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logx.Info().Str("addr", addr).Msg("API server starting")
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "AutoStream agent API is running",
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// chat processes one turn: load state, run the turn graph, persist the new
// state, reply. A failed turn persists nothing — the state change is
// all-or-nothing.
func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	ctx := r.Context()

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session state")
		s.fail(w, sessionID)
		return
	}

	out, err := s.runner.Invoke(ctx, model.TurnInput{
		SessionID: sessionID,
		Query:     req.Message,
		State:     state,
	})
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("turn processing failed")
		s.fail(w, sessionID)
		return
	}

	if err := s.sessions.Save(ctx, sessionID, out.State); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to save session state")
		s.fail(w, sessionID)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Response:     out.Reply,
		Intent:       string(out.Intent),
		LeadCaptured: out.LeadCaptured,
		SessionID:    sessionID,
	})
}

func (s *Server) fail(w http.ResponseWriter, sessionID string) {
	writeJSON(w, http.StatusInternalServerError, ChatResponse{
		Response:  failureReply,
		SessionID: sessionID,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}
