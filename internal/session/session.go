// Package session owns every learner session and is the only place that
// mutates one. Each session is guarded by its own mutex; content generation
// always happens with that mutex released.
package session

import (
	"slices"
	"time"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// Phase is where a session is in its lifecycle.
type Phase string

const (
	PhaseCreated    Phase = "created"
	PhaseDiagnosing Phase = "diagnosing"
	PhaseLearning   Phase = "learning"
)

// Session is one learner's working context.
type Session struct {
	ID      string          `json:"session_id"`
	UserID  string          `json:"user_id,omitempty"`
	Topic   string          `json:"topic"`
	Phase   Phase           `json:"phase"`
	Profile profile.Profile `json:"profile"`

	// Questions keep their answer keys and are never sent as-is.
	Questions []diagnostic.Question `json:"-"`
	Answers   []diagnostic.Answer   `json:"diagnostic_answers"`

	AdaptationCount int               `json:"adaptation_count"`
	LastStyle       style.Style       `json:"last_style,omitempty"`
	RecentMCQ       adaptation.Window `json:"recent_mcq"`

	// Learning-phase MCQ tally. The profile counters only reflect the
	// diagnostic.
	PracticeCorrect int `json:"practice_correct"`
	PracticeTotal   int `json:"practice_total"`

	Misconceptions []misconception.Finding `json:"detected_misconceptions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Style is the presentation style the current profile selects.
func (s Session) Style() style.Style {
	return style.Select(s.Profile)
}

// clone returns a copy that shares no slices with s.
func (s Session) clone() Session {
	s.Questions = slices.Clone(s.Questions)
	s.Answers = slices.Clone(s.Answers)
	s.RecentMCQ.Outcomes = slices.Clone(s.RecentMCQ.Outcomes)
	s.Misconceptions = slices.Clone(s.Misconceptions)
	return s
}

func (s *Session) answer(questionID string) (diagnostic.Answer, bool) {
	for _, a := range s.Answers {
		if a.QuestionID == questionID {
			return a, true
		}
	}
	return diagnostic.Answer{}, false
}

// Stats is a point-in-time count of live sessions by phase.
type Stats struct {
	Sessions    int           `json:"sessions"`
	ByPhase     map[Phase]int `json:"by_phase"`
	Adaptations int           `json:"adaptations"`
}
