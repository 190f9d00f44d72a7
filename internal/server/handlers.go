package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/mindpath/internal/logger"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/session"
	"github.com/abhisek/mindpath/internal/style"
)

// Handler serves the learner API over a session store.
type Handler struct {
	store *session.Store
	log   *logger.Logger
}

// NewHandler creates a Handler.
func NewHandler(store *session.Store, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{store: store, log: log}
}

type startSessionRequest struct {
	Topic  string `json:"topic"`
	UserID string `json:"user_id"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`

	// UserID is null for anonymous sessions.
	UserID *string `json:"user_id"`

	Topic   string          `json:"topic"`
	Phase   session.Phase   `json:"phase"`
	Profile profile.Profile `json:"profile"`
	Style   style.Style     `json:"style"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type sessionView struct {
	session.Session
	Style style.Style `json:"style"`
}

// StartSession handles POST /api/session/start. The body is optional.
func (h *Handler) StartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return
	}

	s, err := h.store.StartSession(c.Request.Context(), req.Topic, req.UserID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.Set(ctxSessionID, s.ID)
	RespondOK(c, startSessionResponse{
		SessionID: s.ID,
		UserID:    optional(s.UserID),
		Topic:     s.Topic,
		Phase:     s.Phase,
		Profile:   s.Profile,
		Style:     s.Style(),
	})
}

// GetSession handles GET /api/session/:id.
func (h *Handler) GetSession(c *gin.Context) {
	id := c.Param("id")
	c.Set(ctxSessionID, id)

	s, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, sessionView{Session: s, Style: s.Style()})
}

// ResetSession handles DELETE /api/session/:id.
func (h *Handler) ResetSession(c *gin.Context) {
	id := c.Param("id")
	c.Set(ctxSessionID, id)

	if err := h.store.Reset(c.Request.Context(), id); err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// HealthCheck handles GET /healthcheck.
func (h *Handler) HealthCheck(c *gin.Context) {
	RespondOK(c, gin.H{
		"status":   "ok",
		"sessions": h.store.Stats().Sessions,
	})
}

// bind decodes a JSON body into req, answering 400 on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeInvalidRequest, err)
		return false
	}
	return true
}
