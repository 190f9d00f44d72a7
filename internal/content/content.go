// Package content turns adaptation decisions into learner-facing text:
// diagnostic questions, feedback, explanations and practice.
package content

import (
	"context"
	"errors"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// ErrNoContent is returned when a generator produced nothing usable.
var ErrNoContent = errors.New("no content generated")

// Generator produces structured content for a topic, profile and style.
// Implementations must be safe for concurrent use.
type Generator interface {
	// DiagnosticQuestions returns at least count candidate questions.
	DiagnosticQuestions(ctx context.Context, topic string, count int) ([]diagnostic.Question, error)

	// AnswerFeedback returns one encouraging sentence for a diagnostic answer.
	AnswerFeedback(ctx context.Context, q diagnostic.Question, correct bool) (string, error)

	// Insights summarizes a freshly built profile for the learner.
	Insights(ctx context.Context, p profile.Profile, s style.Style) (string, error)

	Explain(ctx context.Context, req ExplainRequest) (*Explanation, error)

	// EvaluateExplanation grades a learner's self-explanation.
	EvaluateExplanation(ctx context.Context, req EvaluationRequest) (*Evaluation, error)

	DetectMisconception(ctx context.Context, in misconception.Input) (*misconception.Finding, error)

	Practice(ctx context.Context, topic string, p profile.Profile, count int) ([]PracticeQuestion, error)

	// Flashcards returns at most count revision cards.
	Flashcards(ctx context.Context, topic string, p profile.Profile, count int) ([]Flashcard, error)

	// Summarize returns a short revision summary pitched at the profile.
	Summarize(ctx context.Context, topic string, p profile.Profile) (*Summary, error)
}

// ExplainRequest asks for an explanation of Topic in Style.
type ExplainRequest struct {
	Topic   string
	Profile profile.Profile
	Style   style.Style

	// Previous is the style used last time, if any. A re-explanation must
	// take a visibly different approach.
	Previous style.Style
}

// Reexplain reports whether the learner already saw a different style.
func (r ExplainRequest) Reexplain() bool {
	return r.Previous != "" && r.Previous != r.Style
}

// Explanation is a profile-conditioned explanation.
type Explanation struct {
	Topic            string          `json:"topic"`
	Content          string          `json:"content"`
	KeyTakeaways     []string        `json:"key_takeaways"`
	FollowUpQuestion string          `json:"follow_up_question"`
	StyleUsed        style.Style     `json:"style_used"`
	ProfileUsed      profile.Profile `json:"profile_used"`
}

// EvaluationRequest is a learner's attempt to explain a concept back.
type EvaluationRequest struct {
	Topic       string
	Question    string
	Explanation string
	Profile     profile.Profile
}

// Evaluation grades a self-explanation.
type Evaluation struct {
	Understanding adaptation.Understanding `json:"understanding"`
	Feedback      string                   `json:"feedback"`
	Hint          string                   `json:"hint,omitempty"`
}

// PracticeQuestion is a learning-phase MCQ.
type PracticeQuestion struct {
	Question     string             `json:"question"`
	Options      []string           `json:"options"`
	CorrectIndex int                `json:"correct_answer"`
	Explanation  string             `json:"explanation"`
	Difficulty   profile.Difficulty `json:"difficulty"`
}

// Flashcard is one revision card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Summary is a revision summary with its key points.
type Summary struct {
	Text      string   `json:"summary"`
	KeyPoints []string `json:"key_points"`
}

// difficultyMix returns how many easy, medium and hard questions suit the
// learner's confidence, scaled to count.
func difficultyMix(c profile.Confidence, count int) []profile.Difficulty {
	var weights [3]int
	switch c {
	case profile.ConfidenceLow:
		weights = [3]int{3, 2, 0}
	case profile.ConfidenceHigh:
		weights = [3]int{1, 2, 2}
	default:
		weights = [3]int{2, 2, 1}
	}
	levels := [3]profile.Difficulty{profile.DifficultyEasy, profile.DifficultyMedium, profile.DifficultyHard}

	out := make([]profile.Difficulty, 0, count)
	for len(out) < count {
		for i, w := range weights {
			for range w {
				if len(out) == count {
					return out
				}
				out = append(out, levels[i])
			}
		}
	}
	return out
}
