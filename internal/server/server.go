// Package server exposes the support agent over HTTP: a JSON chat API and
// an embedded single-page chat widget.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	errx "github.com/intersystems-ib/customer-support-agent-demo/internal/core/error"

	"github.com/intersystems-ib/customer-support-agent-demo/internal/agent/graph/observers"
	logx "github.com/intersystems-ib/customer-support-agent-demo/pkg/logger"
)

//go:embed static/index.html
var staticFS embed.FS

// Agent is the part of the orchestrator the server needs.
type Agent interface {
	Run(ctx context.Context, conversationID, email, message string) (string, []observers.TraceEvent, error)
}

type Server struct {
	agent Agent
	mux   *http.ServeMux
}

func New(agent Agent) *Server {
	s := &Server{agent: agent, mux: http.NewServeMux()}
	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/", s.handleIndex)
	return s
}

// Handler returns the routing handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logx.Info().Str("addr", addr).Msg("chat server listening")
	return srv.ListenAndServe()
}

type chatRequest struct {
	Email          string `json:"email"`
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type chatResponse struct {
	Answer string                 `json:"answer"`
	Trace  []observers.TraceEvent `json:"trace"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}
	if req.Email == "" || req.Message == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "email and message are required"})
		return
	}

	answer, trace, err := s.agent.Run(r.Context(), req.ConversationID, req.Email, req.Message)
	if err != nil {
		logx.Error().Err(err).Str("email", req.Email).Msg("chat request failed")
		status := http.StatusInternalServerError
		message := "internal error"
		var appErr *errx.AppError
		if errors.As(err, &appErr) {
			status = appErr.Status
			message = appErr.Message
		}
		writeJSON(w, status, errorResponse{Error: message})
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Answer: answer, Trace: trace})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("failed to encode response")
	}
}
