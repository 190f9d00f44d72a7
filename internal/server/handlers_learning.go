package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/session"
	"github.com/abhisek/mindpath/internal/style"
)

type adaptationRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	adaptation.Event
}

type misconceptionRequest struct {
	SessionID     string                   `json:"session_id" binding:"required"`
	Topic         string                   `json:"topic"`
	Question      string                   `json:"question"`
	LearnerInput  string                   `json:"learner_input"`
	InputType     string                   `json:"input_type" binding:"required"`
	IsCorrect     bool                     `json:"is_correct"`
	Understanding adaptation.Understanding `json:"understanding"`
	OffTopic      bool                     `json:"off_topic"`
}

type explainRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Topic     string `json:"topic"`
}

type explainResponse struct {
	Topic            string          `json:"topic"`
	Explanation      string          `json:"explanation"`
	KeyTakeaways     []string        `json:"key_takeaways"`
	FollowUpQuestion string          `json:"follow_up_question"`
	StyleUsed        style.Style     `json:"style_used"`
	ProfileUsed      profile.Profile `json:"profile_used"`
}

type practiceRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Topic     string `json:"topic"`
	Count     int    `json:"count"`
}

// RecordAdaptation handles POST /api/adaptation/event.
func (h *Handler) RecordAdaptation(c *gin.Context) {
	var req adaptationRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	res, err := h.store.RecordAdaptationEvent(c.Request.Context(), req.SessionID, req.Event)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, res)
}

// CheckMisconception handles POST /api/misconception/check.
func (h *Handler) CheckMisconception(c *gin.Context) {
	var req misconceptionRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	f, err := h.store.CheckMisconception(c.Request.Context(), req.SessionID, session.MisconceptionRequest{
		Topic:         req.Topic,
		Question:      req.Question,
		LearnerInput:  req.LearnerInput,
		InputType:     req.InputType,
		IsCorrect:     req.IsCorrect,
		Understanding: req.Understanding,
		OffTopic:      req.OffTopic,
	})
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, f)
}

// Explain handles POST /api/explain.
func (h *Handler) Explain(c *gin.Context) {
	var req explainRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	exp, err := h.store.Explain(c.Request.Context(), req.SessionID, req.Topic)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, newExplainResponse(exp))
}

func newExplainResponse(exp *content.Explanation) explainResponse {
	return explainResponse{
		Topic:            exp.Topic,
		Explanation:      exp.Content,
		KeyTakeaways:     exp.KeyTakeaways,
		FollowUpQuestion: exp.FollowUpQuestion,
		StyleUsed:        exp.StyleUsed,
		ProfileUsed:      exp.ProfileUsed,
	}
}

// Practice handles POST /api/practice.
func (h *Handler) Practice(c *gin.Context) {
	var req practiceRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	qs, err := h.store.Practice(c.Request.Context(), req.SessionID, req.Topic, req.Count)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, gin.H{"questions": qs})
}
