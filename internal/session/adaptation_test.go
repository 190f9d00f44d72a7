package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/store"
	"github.com/abhisek/mindpath/internal/style"
)

func learningStore(t *testing.T, deps Deps) (*Store, string) {
	t.Helper()
	st := newTestStore(t, deps)
	id := startSession(t, st, "")
	toLearning(t, st, id, profile.Default())
	return st, id
}

func TestRecordAdaptationEvent_Struggling(t *testing.T) {
	st, id := learningStore(t, Deps{})

	res, err := st.RecordAdaptationEvent(context.Background(), id, adaptation.Event{Trigger: adaptation.Struggling})
	require.NoError(t, err)

	want := profile.Default()
	want.LearningStyle = profile.Visual
	want.Confidence = profile.ConfidenceLow

	assert.True(t, res.ProfileUpdated)
	assert.Equal(t, 1, res.AdaptationCount)
	require.NotNil(t, res.PreviousProfile)
	require.NotNil(t, res.UpdatedProfile)
	assert.Equal(t, profile.Default(), *res.PreviousProfile)
	if diff := cmp.Diff(want, *res.UpdatedProfile); diff != "" {
		t.Errorf("updated profile (-want +got):\n%s", diff)
	}
	assert.Len(t, res.ChangeReasons, 2)
	assert.Equal(t, style.VisualMental, res.Style)
	assert.Contains(t, res.Message, "diagrams")
	assert.Nil(t, res.Misconception)

	s, err := st.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, want, s.Profile)
	assert.Equal(t, 1, s.AdaptationCount)
}

func TestRecordAdaptationEvent_NonTriggering(t *testing.T) {
	st, id := learningStore(t, Deps{})

	res, err := st.RecordAdaptationEvent(context.Background(), id, adaptation.Event{
		Trigger:          adaptation.MCQCorrect,
		TimeTakenSeconds: 10,
		LearnerAnswer:    "Circular Wait",
	})
	require.NoError(t, err)

	assert.False(t, res.ProfileUpdated)
	assert.Zero(t, res.AdaptationCount)
	assert.Nil(t, res.PreviousProfile)
	assert.Nil(t, res.UpdatedProfile)
	assert.Empty(t, res.ChangeReasons)
	assert.Equal(t, profile.Default(), res.Profile)
	assert.Nil(t, res.Misconception, "correct answers are never checked")

	s, err := st.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, s.AdaptationCount)
	assert.Equal(t, 1, s.PracticeTotal)
	assert.Equal(t, 1, s.PracticeCorrect)
}

func TestRecordAdaptationEvent_TwoIncorrect(t *testing.T) {
	st, id := learningStore(t, Deps{})
	ctx := context.Background()
	ev := adaptation.Event{Trigger: adaptation.MCQIncorrect, TimeTakenSeconds: 12, Difficulty: profile.DifficultyMedium}

	first, err := st.RecordAdaptationEvent(ctx, id, ev)
	require.NoError(t, err)
	assert.False(t, first.ProfileUpdated, "a single incorrect answer is not enough")
	assert.Zero(t, first.AdaptationCount)

	second, err := st.RecordAdaptationEvent(ctx, id, ev)
	require.NoError(t, err)
	assert.True(t, second.ProfileUpdated)
	assert.Equal(t, 1, second.AdaptationCount)
	assert.Equal(t, profile.ConfidenceLow, second.Profile.Confidence)
	assert.Equal(t, profile.Conceptual, second.Profile.LearningStyle)
	assert.Equal(t, profile.PaceMedium, second.Profile.Pace)

	s, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, s.RecentMCQ.Outcomes, "the triggering run is spent")
	assert.Equal(t, 2, s.PracticeTotal)
	assert.Zero(t, s.PracticeCorrect)
}

func TestRecordAdaptationEvent_SlowIncorrect(t *testing.T) {
	st, id := learningStore(t, Deps{})

	res, err := st.RecordAdaptationEvent(context.Background(), id, adaptation.Event{
		Trigger:          adaptation.MCQIncorrect,
		TimeTakenSeconds: 120,
		Difficulty:       profile.DifficultyMedium,
	})
	require.NoError(t, err)
	assert.True(t, res.ProfileUpdated)
	assert.Equal(t, profile.ConfidenceLow, res.Profile.Confidence)
}

func TestRecordAdaptationEvent_Validation(t *testing.T) {
	st, id := learningStore(t, Deps{})
	ctx := context.Background()

	tests := []struct {
		name string
		ev   adaptation.Event
	}{
		{"unknown trigger", adaptation.Event{Trigger: "bored"}},
		{"negative time", adaptation.Event{Trigger: adaptation.MCQIncorrect, TimeTakenSeconds: -1}},
		{"slow without time", adaptation.Event{Trigger: adaptation.SlowResponse}},
		{"explain-back without text", adaptation.Event{Trigger: adaptation.ExplainBackIncorrect}},
		{"bad understanding", adaptation.Event{Trigger: adaptation.ExplainBackIncorrect, Understanding: "great"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.RecordAdaptationEvent(ctx, id, tt.ev)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRecordAdaptationEvent_RequiresLearningPhase(t *testing.T) {
	st := newTestStore(t, Deps{})
	id := startSession(t, st, "")

	_, err := st.RecordAdaptationEvent(context.Background(), id, adaptation.Event{Trigger: adaptation.Struggling})
	assert.ErrorIs(t, err, ErrPhase)
}

func TestRecordAdaptationEvent_ExplainBackGraded(t *testing.T) {
	st, id := learningStore(t, Deps{})
	ctx := context.Background()

	res, err := st.RecordAdaptationEvent(ctx, id, adaptation.Event{
		Trigger:     adaptation.ExplainBackIncorrect,
		Question:    "What is a deadlock?",
		Explanation: "it is when stuff stops",
	})
	require.NoError(t, err)

	assert.Equal(t, adaptation.UnderstandingPoor, res.Understanding)
	assert.True(t, res.ProfileUpdated)
	assert.Equal(t, profile.ConfidenceLow, res.Profile.Confidence)
	assert.Equal(t, profile.PaceMedium, res.Profile.Pace, "explain-back never touches pace")
	require.NotNil(t, res.Misconception)
	assert.True(t, res.Misconception.Detected)

	s, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, s.Misconceptions, 1)
}

func TestRecordAdaptationEvent_ExplainBackGraderDown(t *testing.T) {
	st, id := learningStore(t, Deps{Generator: &stubGenerator{evaluateErr: errors.New("provider unavailable")}})
	ctx := context.Background()

	_, err := st.RecordAdaptationEvent(ctx, id, adaptation.Event{
		Trigger:     adaptation.ExplainBackIncorrect,
		Explanation: "a deadlock is when processes wait on each other forever",
	})
	assert.ErrorIs(t, err, ErrContentUnavailable)

	s, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, profile.Default(), s.Profile)
	assert.Zero(t, s.AdaptationCount)
}

func TestRecordAdaptationEvent_MisconceptionFailureIsNotFatal(t *testing.T) {
	st, id := learningStore(t, Deps{Generator: &stubGenerator{detectErr: errors.New("rate limited")}})
	ctx := context.Background()
	ev := adaptation.Event{
		Trigger:          adaptation.MCQIncorrect,
		TimeTakenSeconds: 10,
		Question:         "Which condition is NOT required for a deadlock?",
		LearnerAnswer:    "Circular Wait",
	}

	_, err := st.RecordAdaptationEvent(ctx, id, ev)
	require.NoError(t, err)
	res, err := st.RecordAdaptationEvent(ctx, id, ev)
	require.NoError(t, err)

	assert.True(t, res.ProfileUpdated)
	assert.Nil(t, res.Misconception)
}

func TestRecordAdaptationEvent_Concurrent(t *testing.T) {
	st, id := learningStore(t, Deps{})

	const triggering, neutral = 40, 40
	var wg sync.WaitGroup
	for i := range triggering + neutral {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ev := adaptation.Event{Trigger: adaptation.Struggling}
			if i%2 == 1 {
				ev = adaptation.Event{Trigger: adaptation.MCQCorrect}
			}
			_, err := st.RecordAdaptationEvent(context.Background(), id, ev)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	s, err := st.Get(context.Background(), id)
	require.NoError(t, err)
	// Every struggling event flips the style, so each one commits exactly once.
	assert.Equal(t, triggering, s.AdaptationCount)
	assert.Equal(t, neutral, s.PracticeTotal)
	assert.Equal(t, profile.ConfidenceLow, s.Profile.Confidence)
}

func TestRecordAdaptationEvent_EventLog(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := newTestStore(t, Deps{Profiles: db.ProfileRepo(), Events: db.EventRepo()})
	ctx := context.Background()
	id := startSession(t, st, "learner-2")
	toLearning(t, st, id, profile.Default())

	_, err = st.RecordAdaptationEvent(ctx, id, adaptation.Event{Trigger: adaptation.MCQCorrect})
	require.NoError(t, err)
	_, err = st.RecordAdaptationEvent(ctx, id, adaptation.Event{Trigger: adaptation.UserRequest})
	require.NoError(t, err)

	events, err := db.EventRepo().QueryAdaptations(ctx, store.QueryOpts{SessionID: id})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.False(t, events[0].ProfileUpdated)
	assert.True(t, events[1].ProfileUpdated)
	assert.Equal(t, "user_request", events[1].Trigger)
	assert.Equal(t, "learner-2", events[1].UserID)
	assert.Equal(t, 1, events[1].AdaptationCount)

	stored, err := db.ProfileRepo().Get(ctx, "learner-2")
	require.NoError(t, err)
	assert.Equal(t, profile.Visual, stored.Profile.LearningStyle)
}

func TestCheckMisconception(t *testing.T) {
	st, id := learningStore(t, Deps{})
	ctx := context.Background()

	tests := []struct {
		name     string
		req      MisconceptionRequest
		detected bool
	}{
		{"incorrect mcq", MisconceptionRequest{InputType: "mcq", LearnerInput: "Preemption"}, true},
		{"correct mcq", MisconceptionRequest{InputType: "mcq", LearnerInput: "Preemption", IsCorrect: true}, false},
		{"blank", MisconceptionRequest{InputType: "mcq", LearnerInput: "  "}, false},
		{"off topic", MisconceptionRequest{InputType: "explanation", LearnerInput: "pizza", Understanding: adaptation.UnderstandingPoor, OffTopic: true}, false},
		{"partial explanation", MisconceptionRequest{InputType: "explanation", LearnerInput: "threads wait", Understanding: adaptation.UnderstandingPartial}, true},
		{"sound explanation", MisconceptionRequest{InputType: "explanation", LearnerInput: "threads wait", Understanding: adaptation.UnderstandingCorrect}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := st.CheckMisconception(ctx, id, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.detected, f.Detected)
		})
	}

	_, err := st.CheckMisconception(ctx, id, MisconceptionRequest{InputType: "essay", LearnerInput: "x"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCheckMisconception_GeneratorDown(t *testing.T) {
	st, id := learningStore(t, Deps{Generator: &stubGenerator{detectErr: errors.New("down")}})

	f, err := st.CheckMisconception(context.Background(), id, MisconceptionRequest{InputType: "mcq", LearnerInput: "Preemption"})
	require.NoError(t, err)
	assert.False(t, f.Detected)
}

func TestExplain(t *testing.T) {
	st, id := learningStore(t, Deps{})
	ctx := context.Background()

	exp, err := st.Explain(ctx, id, "")
	require.NoError(t, err)
	assert.Equal(t, style.StoryAnalogy, exp.StyleUsed)
	assert.Equal(t, "operating systems", exp.Topic)
	assert.Equal(t, profile.Default(), exp.ProfileUsed)

	_, err = st.RecordAdaptationEvent(ctx, id, adaptation.Event{Trigger: adaptation.Struggling})
	require.NoError(t, err)

	again, err := st.Explain(ctx, id, "deadlock")
	require.NoError(t, err)
	assert.Equal(t, style.VisualMental, again.StyleUsed)
	assert.Contains(t, again.Content, "Let's try")

	s, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, style.VisualMental, s.LastStyle)
}

func TestExplain_GeneratorDown(t *testing.T) {
	st, id := learningStore(t, Deps{Generator: &stubGenerator{explainErr: errors.New("down")}})

	_, err := st.Explain(context.Background(), id, "")
	assert.ErrorIs(t, err, ErrContentUnavailable)
}

func TestPractice(t *testing.T) {
	st, id := learningStore(t, Deps{})
	ctx := context.Background()

	qs, err := st.Practice(ctx, id, "", 2)
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	for _, n := range []int{-1, 11} {
		_, err := st.Practice(ctx, id, "", n)
		assert.ErrorIs(t, err, ErrValidation, "count %d", n)
	}
}
