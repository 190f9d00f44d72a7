package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/logger"
	"github.com/abhisek/mindpath/internal/session"
)

// downGenerator is the offline bank with explanations failing.
type downGenerator struct {
	content.BankGenerator
}

func (downGenerator) Explain(context.Context, content.ExplainRequest) (*content.Explanation, error) {
	return nil, errors.New("provider down")
}

func newTestHandler(t *testing.T, gen content.Generator) http.Handler {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Mode = gin.TestMode
	st := session.NewStore(session.DefaultConfig(), session.Deps{Generator: gen})
	return New(cfg, st, logger.Nop()).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[ErrorEnvelope](t, rec).Error.Code
}

func startSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/session/start", map[string]any{"topic": "operating systems"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := decode[map[string]any](t, rec)["session_id"].(string)
	require.NotEmpty(t, id)
	return id
}

type questionBody struct {
	ID      string   `json:"id"`
	Options []string `json:"options"`
}

func startDiagnostic(t *testing.T, h http.Handler, id string) []questionBody {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/diagnostic/start", map[string]any{"session_id": id, "topic": "operating systems"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[struct {
		Questions []questionBody `json:"questions"`
	}](t, rec).Questions
}

func toLearning(t *testing.T, h http.Handler, id string) {
	t.Helper()
	for _, q := range startDiagnostic(t, h, id) {
		rec := do(t, h, http.MethodPost, "/api/diagnostic/answer", map[string]any{
			"session_id": id, "question_id": q.ID, "selected_answer": 1, "time_taken_seconds": 20,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	rec := do(t, h, http.MethodPost, "/api/diagnostic/complete", map[string]any{"session_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLearnerFlow(t *testing.T) {
	h := newTestHandler(t, nil)
	id := startSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/diagnostic/start", map[string]any{"session_id": id, "topic": "operating systems"})
	require.Equal(t, http.StatusOK, rec.Code)
	raw := decode[struct {
		Questions []map[string]any `json:"questions"`
	}](t, rec).Questions
	require.Len(t, raw, 5)
	for _, q := range raw {
		assert.NotContains(t, q, "correct_answer")
		assert.Contains(t, q, "difficulty")
	}

	for _, q := range raw {
		rec := do(t, h, http.MethodPost, "/api/diagnostic/answer", map[string]any{
			"session_id": id, "question_id": q["id"], "selected_answer": 1, "time_taken_seconds": 20,
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode[map[string]any](t, rec)
		assert.Equal(t, false, body["already_answered"])
		assert.Contains(t, body, "updated_profile")
	}

	// Repeats come back 200 with the stored result.
	rec = do(t, h, http.MethodPost, "/api/diagnostic/answer", map[string]any{
		"session_id": id, "question_id": raw[0]["id"], "selected_answer": 0, "time_taken_seconds": 3,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["already_answered"])

	rec = do(t, h, http.MethodPost, "/api/diagnostic/complete", map[string]any{"session_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decode[session.CompleteResult](t, rec)
	assert.Equal(t, 3, done.Profile.TotalAnswers, "style probes are not scored")
	assert.NotEmpty(t, done.Style)

	rec = do(t, h, http.MethodPost, "/api/diagnostic/complete", map[string]any{"session_id": id})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "phase_error", errorCode(t, rec))

	rec = do(t, h, http.MethodPost, "/api/adaptation/event", map[string]any{"session_id": id, "trigger": "struggling"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	adapted := decode[map[string]any](t, rec)
	assert.Equal(t, true, adapted["profile_updated"])
	assert.EqualValues(t, 1, adapted["adaptation_count"])
	assert.Contains(t, adapted, "previous_profile")
	assert.Contains(t, adapted, "change_reasons")

	rec = do(t, h, http.MethodGet, "/api/session/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[map[string]any](t, rec)
	assert.Equal(t, "learning", view["phase"])
	assert.EqualValues(t, 1, view["adaptation_count"])
	assert.Equal(t, "visual-mental", view["style"])

	rec = do(t, h, http.MethodDelete, "/api/session/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["deleted"])

	rec = do(t, h, http.MethodGet, "/api/session/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_session", errorCode(t, rec))
}

func TestStartSession_EmptyBody(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodPost, "/api/session/start", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode[map[string]any](t, rec)
	assert.NotEmpty(t, body["session_id"])
	assert.Equal(t, "created", body["phase"])
	assert.Equal(t, "conceptual", body["profile"].(map[string]any)["learning_style"])
	userID, present := body["user_id"]
	assert.True(t, present, "user_id is always part of the response")
	assert.Nil(t, userID)

	rec = do(t, h, http.MethodPost, "/api/session/start", map[string]any{"user_id": "learner-7"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "learner-7", decode[map[string]any](t, rec)["user_id"])
}

func TestErrorResponses(t *testing.T) {
	h := newTestHandler(t, nil)
	id := startSession(t, h)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{"unknown session", http.MethodPost, "/api/diagnostic/start", map[string]any{"session_id": "nope", "topic": "os"}, http.StatusNotFound, "unknown_session"},
		{"malformed json", http.MethodPost, "/api/diagnostic/start", `{"session_id":`, http.StatusBadRequest, "validation_error"},
		{"missing session id", http.MethodPost, "/api/diagnostic/complete", map[string]any{}, http.StatusBadRequest, "validation_error"},
		{"missing selected answer", http.MethodPost, "/api/diagnostic/answer", map[string]any{"session_id": id, "question_id": "os_1"}, http.StatusBadRequest, "validation_error"},
		{"answer before diagnostic", http.MethodPost, "/api/diagnostic/answer", map[string]any{"session_id": id, "question_id": "os_1", "selected_answer": 0}, http.StatusConflict, "phase_error"},
		{"unknown trigger", http.MethodPost, "/api/adaptation/event", map[string]any{"session_id": id, "trigger": "bored"}, http.StatusBadRequest, "validation_error"},
		{"adaptation before learning", http.MethodPost, "/api/adaptation/event", map[string]any{"session_id": id, "trigger": "struggling"}, http.StatusConflict, "phase_error"},
		{"bad input type", http.MethodPost, "/api/misconception/check", map[string]any{"session_id": id, "input_type": "essay"}, http.StatusBadRequest, "validation_error"},
		{"practice count too large", http.MethodPost, "/api/practice", map[string]any{"session_id": id, "count": 11}, http.StatusBadRequest, "validation_error"},
		{"re-explain before learning", http.MethodPost, "/api/re-explain", map[string]any{"session_id": id}, http.StatusConflict, "phase_error"},
		{"re-explain with mcq trigger", http.MethodPost, "/api/re-explain", map[string]any{"session_id": id, "trigger": "mcq_correct"}, http.StatusBadRequest, "validation_error"},
		{"unknown content type", http.MethodPost, "/api/generate-content", map[string]any{"session_id": id, "content_type": "essay"}, http.StatusBadRequest, "validation_error"},
		{"unknown pace", http.MethodPost, "/api/profile/update", map[string]any{"session_id": id, "pace": "glacial"}, http.StatusBadRequest, "validation_error"},
		{"profile edit before learning", http.MethodPost, "/api/profile/update", map[string]any{"session_id": id, "pace": "fast"}, http.StatusConflict, "phase_error"},
		{"profile of unknown session", http.MethodGet, "/api/session/nope/profile", nil, http.StatusNotFound, "unknown_session"},
		{"unknown route", http.MethodGet, "/api/nothing", nil, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, errorCode(t, rec))
			assert.NotEmpty(t, decode[ErrorEnvelope](t, rec).Error.Message)
		})
	}
}

func TestUnknownQuestion(t *testing.T) {
	h := newTestHandler(t, nil)
	id := startSession(t, h)
	startDiagnostic(t, h, id)

	rec := do(t, h, http.MethodPost, "/api/diagnostic/answer", map[string]any{
		"session_id": id, "question_id": "os_99", "selected_answer": 0,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_question", errorCode(t, rec))
}

func TestMisconceptionCheck(t *testing.T) {
	h := newTestHandler(t, nil)
	id := startSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/misconception/check", map[string]any{
		"session_id": id, "learner_input": "threads never share memory", "input_type": "mcq", "is_correct": false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, rec)["misconception_detected"])

	rec = do(t, h, http.MethodPost, "/api/misconception/check", map[string]any{
		"session_id": id, "learner_input": "a lock", "input_type": "mcq", "is_correct": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["misconception_detected"])
}

func TestExplainAndPractice(t *testing.T) {
	h := newTestHandler(t, nil)
	id := startSession(t, h)
	toLearning(t, h, id)

	rec := do(t, h, http.MethodPost, "/api/explain", map[string]any{"session_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	exp := decode[map[string]any](t, rec)
	assert.NotEmpty(t, exp["explanation"])
	assert.NotEmpty(t, exp["style_used"])
	assert.Contains(t, exp, "profile_used")

	rec = do(t, h, http.MethodPost, "/api/practice", map[string]any{"session_id": id, "count": 2})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	practice := decode[struct {
		Questions []content.PracticeQuestion `json:"questions"`
	}](t, rec)
	assert.Len(t, practice.Questions, 2)
}

func TestStudyRoutes(t *testing.T) {
	h := newTestHandler(t, nil)
	id := startSession(t, h)
	toLearning(t, h, id)

	rec := do(t, h, http.MethodPost, "/api/explain", map[string]any{"session_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[map[string]any](t, rec)["style_used"]

	rec = do(t, h, http.MethodPost, "/api/re-explain", map[string]any{"session_id": id, "trigger": "struggling"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	re := decode[map[string]any](t, rec)
	assert.Equal(t, first, re["previous_style"])
	assert.NotEmpty(t, re["explanation"])
	assert.NotEmpty(t, re["message"])
	assert.Contains(t, re, "style_changed")
	assert.Contains(t, re, "new_profile")
	assert.EqualValues(t, 1, re["adaptation_count"])

	rec = do(t, h, http.MethodPost, "/api/compare-explanations", map[string]any{"session_id": id, "topic": "deadlock"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cmp := decode[struct {
		Topic  string         `json:"topic"`
		Before map[string]any `json:"before"`
		After  map[string]any `json:"after"`
	}](t, rec)
	assert.Equal(t, "deadlock", cmp.Topic)
	assert.NotEqual(t, cmp.Before["style_used"], cmp.After["style_used"])

	rec = do(t, h, http.MethodPost, "/api/generate-content", map[string]any{"session_id": id, "content_type": "summary"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	pack := decode[content.Pack](t, rec)
	assert.NotEmpty(t, pack.Summary)
	assert.Empty(t, pack.Flashcards)

	rec = do(t, h, http.MethodPost, "/api/profile/update", map[string]any{
		"session_id": id, "learning_style": "exam-focused", "pace": "fast", "confidence": "high", "depth_preference": "formula-first",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	upd := decode[map[string]any](t, rec)
	assert.Equal(t, true, upd["profile_updated"])
	assert.EqualValues(t, 2, upd["adaptation_count"])

	rec = do(t, h, http.MethodGet, "/api/session/"+id+"/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[map[string]any](t, rec)
	assert.Equal(t, "exam-smart", view["style"])
	assert.Contains(t, view["context"], "Learning style: exam-focused")
}

func TestDemoTopics(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := do(t, h, http.MethodGet, "/api/demo/topics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		Topics []topicView `json:"topics"`
	}](t, rec)
	require.Len(t, body.Topics, 3)
	assert.Equal(t, topicView{ID: "operating_systems", Name: "Operating Systems"}, body.Topics[0])
}

func TestExplain_GeneratorDown(t *testing.T) {
	h := newTestHandler(t, downGenerator{})
	id := startSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/explain", map[string]any{"session_id": id})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "content_generator_unavailable", errorCode(t, rec))
}

func TestHealthCheck(t *testing.T) {
	h := newTestHandler(t, nil)
	startSession(t, h)

	rec := do(t, h, http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["sessions"])
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery(logger.Nop()))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, CodeInternal, errorCode(t, rec))
}

func TestCORS(t *testing.T) {
	h := newTestHandler(t, nil)

	for _, origin := range []string{"http://localhost:5173", "http://127.0.0.1:3000"} {
		t.Run(origin, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/session/start", nil)
			req.Header.Set("Origin", origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/session/start", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{session.ErrUnknownSession, http.StatusNotFound, "unknown_session"},
		{session.ErrUnknownQuestion, http.StatusNotFound, "unknown_question"},
		{session.ErrPhase, http.StatusConflict, "phase_error"},
		{session.ErrValidation, http.StatusBadRequest, "validation_error"},
		{session.ErrContentUnavailable, http.StatusServiceUnavailable, "content_generator_unavailable"},
		{fmt.Errorf("wrapped: %w", session.ErrPhase), http.StatusConflict, "phase_error"},
		{errors.New("boom"), http.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, code := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestRun_Shutdown(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = gin.TestMode
	cfg.Addr = "127.0.0.1:0"
	srv := New(cfg, session.NewStore(session.DefaultConfig(), session.Deps{}), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()
	cancel()

	err := <-done
	assert.NoError(t, err)
}

func TestRun_BadAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mode = gin.TestMode
	cfg.Addr = "not-an-address"
	srv := New(cfg, session.NewStore(session.DefaultConfig(), session.Deps{}), logger.Nop())

	err := srv.Run(context.Background())
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "listen on not-an-address"))
}
