// Package diagnostic runs the short opening quiz and turns its answers into
// an initial learner profile.
package diagnostic

import (
	"errors"
	"time"

	"github.com/abhisek/mindpath/internal/profile"
)

var (
	ErrUnknownQuestion  = errors.New("question is not part of this diagnostic")
	ErrInvalidAnswer    = errors.New("invalid diagnostic answer")
	ErrInvalidQuestions = errors.New("invalid diagnostic question set")
	ErrNoAnswers        = errors.New("no diagnostic answers recorded")
)

// Probe says which profile dimension a question probes.
type Probe string

const (
	ProbeKnowledge       Probe = "knowledge"
	ProbeLearningStyle   Probe = "learning-style"
	ProbeDepthPreference Probe = "depth-preference"

	// ProbePreference probes both learning style and depth.
	ProbePreference Probe = "preference"
)

// Valid reports whether p is a known probe.
func (p Probe) Valid() bool {
	switch p {
	case ProbeKnowledge, ProbeLearningStyle, ProbeDepthPreference, ProbePreference:
		return true
	}
	return false
}

// IsKnowledge reports whether answers to this probe count toward accuracy.
func (p Probe) IsKnowledge() bool {
	return p == ProbeKnowledge
}

func (p Probe) votesStyle() bool {
	return p == ProbeLearningStyle || p == ProbePreference
}

func (p Probe) votesDepth() bool {
	return p == ProbeDepthPreference || p == ProbePreference
}

// Question is one diagnostic item.
type Question struct {
	ID            string             `json:"id"`
	Question      string             `json:"question"`
	Options       []string           `json:"options"`
	Difficulty    profile.Difficulty `json:"difficulty"`
	CorrectIndex  int                `json:"correct_answer"`
	Probe         Probe              `json:"probe"`
	ConceptTested string             `json:"concept_tested,omitempty"`

	// Per-option signals for preference probes.
	OptionStyles []profile.LearningStyle `json:"option_styles,omitempty"`
	OptionDepths []profile.Depth         `json:"option_depths,omitempty"`
}

// PublicQuestion is a Question as shown to the learner, without the answer
// key or option signals.
type PublicQuestion struct {
	ID         string             `json:"id"`
	Question   string             `json:"question"`
	Options    []string           `json:"options"`
	Difficulty profile.Difficulty `json:"difficulty"`
}

// Public strips the answer key.
func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Question:   q.Question,
		Options:    append([]string(nil), q.Options...),
		Difficulty: q.Difficulty,
	}
}

// Answer is one recorded response.
type Answer struct {
	QuestionID       string    `json:"question_id"`
	SelectedIndex    int       `json:"selected_answer"`
	TimeTakenSeconds float64   `json:"time_taken_seconds"`
	IsCorrect        bool      `json:"is_correct"`
	ConfidenceRating *int      `json:"confidence_rating,omitempty"`
	Feedback         string    `json:"feedback"`
	AnsweredAt       time.Time `json:"answered_at"`
}

// Config holds diagnostic thresholds.
type Config struct {
	// QuestionCount is the fixed diagnostic length, within 4 to 6.
	QuestionCount int `yaml:"question_count"`

	// HighAccuracy and MediumAccuracy bound the observed confidence bands.
	HighAccuracy   float64 `yaml:"high_accuracy"`
	MediumAccuracy float64 `yaml:"medium_accuracy"`

	Timing profile.Timing `yaml:"timing"`
}

const (
	MinQuestions = 4
	MaxQuestions = 6
	MinOptions   = 2
	MaxOptions   = 6
	MinRating    = 1
	MaxRating    = 5
)

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		QuestionCount:  5,
		HighAccuracy:   0.8,
		MediumAccuracy: 0.5,
		Timing:         profile.DefaultTiming(),
	}
}
