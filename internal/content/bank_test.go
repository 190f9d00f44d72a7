package content

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

func TestBank_DiagnosticQuestionsPassPrepare(t *testing.T) {
	engine := diagnostic.New(diagnostic.DefaultConfig())
	for _, topic := range diagnostic.BankTopics() {
		qs, err := BankGenerator{}.DiagnosticQuestions(context.Background(), topic, 5)
		require.NoError(t, err)
		assert.Len(t, qs, 5)
		_, err = engine.Prepare(qs)
		assert.NoError(t, err, topic)
	}
}

func TestBank_Feedback(t *testing.T) {
	g := BankGenerator{}
	knowledge := diagnostic.Question{Probe: diagnostic.ProbeKnowledge, ConceptTested: "Heap Property"}

	fb, err := g.AnswerFeedback(context.Background(), knowledge, false)
	require.NoError(t, err)
	assert.Contains(t, fb, "Heap Property")

	fb, _ = g.AnswerFeedback(context.Background(), knowledge, true)
	assert.Contains(t, fb, "Nice work")

	fb, _ = g.AnswerFeedback(context.Background(), diagnostic.Question{Probe: diagnostic.ProbePreference}, true)
	assert.Contains(t, fb, "how you like to learn")
}

func TestBank_ExplainEveryStyle(t *testing.T) {
	for _, s := range style.All() {
		ex, err := BankGenerator{}.Explain(context.Background(), ExplainRequest{Topic: "operating_systems", Profile: profile.Default(), Style: s})
		require.NoError(t, err, s)
		assert.Equal(t, s, ex.StyleUsed)
		assert.NotEmpty(t, ex.Content)
		assert.Len(t, ex.KeyTakeaways, 3)
	}

	_, err := BankGenerator{}.Explain(context.Background(), ExplainRequest{Style: "nope"})
	assert.Error(t, err)
}

func TestBank_ExplainMentionsSwitch(t *testing.T) {
	ex, err := BankGenerator{}.Explain(context.Background(), ExplainRequest{
		Topic: "deadlock", Profile: profile.Default(), Style: style.VisualMental, Previous: style.StoryAnalogy,
	})
	require.NoError(t, err)
	assert.Contains(t, ex.Content, style.Describe(style.VisualMental))
}

func TestBank_EvaluateExplanation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want adaptation.Understanding
	}{
		{"too short", "it waits", adaptation.UnderstandingPoor},
		{"off vocabulary", "honestly I really cannot remember anything here", adaptation.UnderstandingPoor},
		{"one term", "processes sometimes wait forever because of resource problems", adaptation.UnderstandingPartial},
		{"several terms", "deadlock conditions need mutual exclusion, hold and wait, and circular wait on a resource", adaptation.UnderstandingCorrect},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := BankGenerator{}.EvaluateExplanation(context.Background(), EvaluationRequest{Topic: "deadlock", Explanation: tt.text})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ev.Understanding)
		})
	}
}

func TestBank_DetectMisconception(t *testing.T) {
	f, err := BankGenerator{}.DetectMisconception(context.Background(), misconception.Input{Type: misconception.InputMCQ, Topic: "data_structures"})
	require.NoError(t, err)
	assert.True(t, f.Detected)
	assert.Contains(t, f.Misconception, "data structures")
}

func TestBank_PracticeOrdering(t *testing.T) {
	low := profile.Default()
	low.Confidence = profile.ConfidenceLow
	qs, err := BankGenerator{}.Practice(context.Background(), "os", low, 3)
	require.NoError(t, err)
	require.Len(t, qs, 3)
	assert.Equal(t, profile.DifficultyMedium, qs[0].Difficulty)
	for _, q := range qs {
		assert.NotEqual(t, profile.DifficultyHard, q.Difficulty)
	}

	high := profile.Default()
	high.Confidence = profile.ConfidenceHigh
	qs, err = BankGenerator{}.Practice(context.Background(), "os", high, 0)
	require.NoError(t, err)
	assert.Len(t, qs, 4)
	assert.Equal(t, profile.DifficultyHard, qs[0].Difficulty)
}

func TestDisplayTopic(t *testing.T) {
	assert.Equal(t, "Operating systems", displayTopic("operating_systems"))
	assert.Equal(t, "This topic", displayTopic("  "))
}
