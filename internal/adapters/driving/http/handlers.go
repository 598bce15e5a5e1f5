package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/biz-cto/rag-chatbot/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns whether the answer pipeline can serve grounded responses
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  StatusResponse  "Pipeline degraded"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.runtime != nil && !s.runtime.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Chat endpoints

// handleChat godoc
// @Summary      Chat with the document assistant
// @Description  Answers a user message grounded in the ingested documents. Processing failures return a polite message with an error diagnostic, not a 5xx.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ChatRequest  true  "User message and optional session id"
// @Success      200      {object}  domain.ChatResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Router       /chat [post]
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := s.chatService.ProcessMessage(r.Context(), req.Message, req.SessionID)
	writeJSON(w, http.StatusOK, resp)
}

// handleChatReset godoc
// @Summary      Reset a conversation
// @Description  Clears the history of one session. Resetting an unknown session succeeds.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Param        request  body      domain.ResetRequest  true  "Session to reset"
// @Success      200      {object}  domain.MessageResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      500      {object}  ErrorResponse  "Reset failed"
// @Router       /chat/reset [post]
func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := s.chatService.ResetConversation(r.Context(), req.SessionID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to reset conversation")
		return
	}
	writeJSON(w, http.StatusOK, domain.MessageResponse{Message: domain.MsgConversationReset})
}

// Auth endpoints

// handleIssueToken godoc
// @Summary      Issue admin token
// @Description  Exchange the admin password for a bearer token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.TokenRequest  true  "Admin password"
// @Success      200      {object}  domain.TokenResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Wrong password"
// @Failure      503      {object}  ErrorResponse  "Admin access not configured"
// @Router       /auth/token [post]
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req domain.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.IssueToken(r.Context(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "password is required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "admin access not configured")
		default:
			writeError(w, http.StatusInternalServerError, "token issuance failed")
		}
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Admin endpoints

// handleAdminStats godoc
// @Summary      Pipeline statistics
// @Description  Reports chunk, embedding and session counts
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.ServiceStats
// @Failure      500  {object}  ErrorResponse  "Stats collection failed"
// @Router       /admin/stats [get]
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	if s.adminService == nil {
		writeError(w, http.StatusServiceUnavailable, "service degraded")
		return
	}
	stats, err := s.adminService.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to collect stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleAdminReload godoc
// @Summary      Reload documents
// @Description  Queues a full re-ingestion of the document namespace
// @Tags         Admin
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  StatusResponse
// @Failure      409  {object}  ErrorResponse  "Reload already in progress"
// @Router       /admin/reload [post]
func (s *Server) handleAdminReload(w http.ResponseWriter, r *http.Request) {
	if s.adminService == nil {
		writeError(w, http.StatusServiceUnavailable, "service degraded")
		return
	}
	if err := s.adminService.TriggerReload(r.Context()); err != nil {
		writeError(w, http.StatusConflict, "reload already in progress")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "reload queued"})
}

// Utility functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
