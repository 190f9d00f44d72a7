package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/session"
	"github.com/abhisek/mindpath/internal/style"
)

type reexplainRequest struct {
	SessionID string                 `json:"session_id" binding:"required"`
	Topic     string                 `json:"topic"`
	Trigger   adaptation.TriggerKind `json:"trigger"`
}

type reexplainResponse struct {
	explainResponse
	PreviousStyle   *style.Style    `json:"previous_style"`
	StyleChanged    bool            `json:"style_changed"`
	Message         string          `json:"message"`
	NewProfile      profile.Profile `json:"new_profile"`
	AdaptationCount int             `json:"adaptation_count"`
}

type compareResponse struct {
	Topic  string          `json:"topic"`
	Before explainResponse `json:"before"`
	After  explainResponse `json:"after"`
}

type generateContentRequest struct {
	SessionID   string `json:"session_id" binding:"required"`
	Topic       string `json:"topic"`
	ContentType string `json:"content_type"`
}

type profileUpdateRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	session.ProfileUpdate
}

type profileView struct {
	Profile profile.Profile `json:"profile"`
	Style   style.Style     `json:"style"`
	Context string          `json:"context"`
}

type topicView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Reexplain handles POST /api/re-explain.
func (h *Handler) Reexplain(c *gin.Context) {
	var req reexplainRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	res, err := h.store.Reexplain(c.Request.Context(), req.SessionID, req.Topic, req.Trigger)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, reexplainResponse{
		explainResponse: newExplainResponse(res.Explanation),
		PreviousStyle:   res.PreviousStyle,
		StyleChanged:    res.StyleChanged,
		Message:         res.Message,
		NewProfile:      res.Profile,
		AdaptationCount: res.AdaptationCount,
	})
}

// CompareExplanations handles POST /api/compare-explanations.
func (h *Handler) CompareExplanations(c *gin.Context) {
	var req explainRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	cmp, err := h.store.Compare(c.Request.Context(), req.SessionID, req.Topic)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, compareResponse{
		Topic:  cmp.Topic,
		Before: newExplainResponse(cmp.Before),
		After:  newExplainResponse(cmp.After),
	})
}

// GenerateContent handles POST /api/generate-content.
func (h *Handler) GenerateContent(c *gin.Context) {
	var req generateContentRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	pack, err := h.store.GenerateContent(c.Request.Context(), req.SessionID, req.Topic, req.ContentType)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, pack)
}

// UpdateProfile handles POST /api/profile/update.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	res, err := h.store.UpdateProfile(c.Request.Context(), req.SessionID, req.ProfileUpdate)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, res)
}

// GetProfile handles GET /api/session/:id/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	id := c.Param("id")
	c.Set(ctxSessionID, id)

	s, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, profileView{
		Profile: s.Profile,
		Style:   s.Style(),
		Context: content.ProfileContext(s.Profile),
	})
}

// DemoTopics handles GET /api/demo/topics.
func (h *Handler) DemoTopics(c *gin.Context) {
	keys := diagnostic.BankTopics()
	topics := make([]topicView, len(keys))
	for i, k := range keys {
		topics[i] = topicView{ID: k, Name: diagnostic.TopicName(k)}
	}
	RespondOK(c, gin.H{"topics": topics})
}
