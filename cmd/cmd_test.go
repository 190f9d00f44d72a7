package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/store"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MINDPATH_CONFIG", "")
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestStyleCommand(t *testing.T) {
	out, err := run(t, "style", "--learning-style", "visual", "--rules")
	require.NoError(t, err)
	assert.Contains(t, out, "visual-mental")
	assert.Contains(t, out, "diagrams")
	assert.Contains(t, out, "low-confidence-slow-pace")
}

func TestStyleCommand_BadValue(t *testing.T) {
	_, err := run(t, "style", "--pace", "glacial", "--learning-style", "conceptual")
	assert.ErrorIs(t, err, profile.ErrInvalidValue)
}

func TestProfileCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mindpath.db")
	db, err := store.Open(dbPath)
	require.NoError(t, err)

	p := profile.Default()
	p.LearningStyle = profile.ExamFocused
	require.NoError(t, db.ProfileRepo().Save(context.Background(), "learner-1", p))
	require.NoError(t, db.Close())

	out, err := run(t, "--db", dbPath, "profile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "learner-1")
	assert.Contains(t, out, "exam-smart")

	out, err = run(t, "--db", dbPath, "profile", "show", "learner-1")
	require.NoError(t, err)
	assert.Contains(t, out, "exam-focused")

	out, err = run(t, "--db", dbPath, "profile", "reset", "learner-1")
	require.NoError(t, err)
	assert.Contains(t, out, "reset")

	_, err = run(t, "--db", dbPath, "profile", "show", "learner-1")
	assert.ErrorContains(t, err, "no stored profile")
}

func TestEventsList_Empty(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mindpath.db")

	out, err := run(t, "--db", dbPath, "events", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No adaptation events found.")
}

func TestLLMStats(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "mindpath.db")
	db, err := store.Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, db.EventRepo().AppendLLMRequest(context.Background(), store.LLMRequestEventData{
		Provider: "openai", Model: "unlisted-model", Purpose: "explanation",
		InputTokens: 100, OutputTokens: 50, LatencyMs: 300, Success: true,
	}))
	require.NoError(t, db.Close())

	out, err := run(t, "--db", dbPath, "llm", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "unlisted-model")
	assert.Contains(t, out, "TOTAL (partial)")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mindpath")
}
