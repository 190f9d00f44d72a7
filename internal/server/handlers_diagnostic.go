package server

import (
	"github.com/gin-gonic/gin"

	"github.com/abhisek/mindpath/internal/session"
)

type diagnosticStartRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Topic     string `json:"topic"`
}

type answerRequest struct {
	SessionID        string  `json:"session_id" binding:"required"`
	QuestionID       string  `json:"question_id" binding:"required"`
	SelectedAnswer   *int    `json:"selected_answer" binding:"required"`
	TimeTakenSeconds float64 `json:"time_taken_seconds"`
	ConfidenceRating *int    `json:"confidence_rating"`
}

type sessionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

// StartDiagnostic handles POST /api/diagnostic/start.
func (h *Handler) StartDiagnostic(c *gin.Context) {
	var req diagnosticStartRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	qs, err := h.store.StartDiagnostic(c.Request.Context(), req.SessionID, req.Topic)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, gin.H{"questions": qs})
}

// SubmitAnswer handles POST /api/diagnostic/answer. A repeated answer is
// not an error for the client: it gets the stored result back.
func (h *Handler) SubmitAnswer(c *gin.Context) {
	var req answerRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	res, err := h.store.SubmitDiagnosticAnswer(c.Request.Context(), req.SessionID, session.AnswerInput{
		QuestionID:       req.QuestionID,
		SelectedIndex:    *req.SelectedAnswer,
		TimeTakenSeconds: req.TimeTakenSeconds,
		ConfidenceRating: req.ConfidenceRating,
	})
	if err != nil && session.KindOf(err) != session.KindAlreadyAnswered {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, res)
}

// CompleteDiagnostic handles POST /api/diagnostic/complete.
func (h *Handler) CompleteDiagnostic(c *gin.Context) {
	var req sessionRequest
	if !bind(c, &req) {
		return
	}
	c.Set(ctxSessionID, req.SessionID)

	res, err := h.store.CompleteDiagnostic(c.Request.Context(), req.SessionID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	RespondOK(c, res)
}
