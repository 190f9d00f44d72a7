package adaptation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/profile"
)

// TriggerKind classifies a piece of evidence about the learner.
type TriggerKind string

const (
	MCQIncorrect         TriggerKind = "mcq_incorrect"
	MCQCorrect           TriggerKind = "mcq_correct"
	ExplainBackIncorrect TriggerKind = "explain_back_incorrect"
	Struggling           TriggerKind = "struggling"
	SlowResponse         TriggerKind = "slow_response"
	UserRequest          TriggerKind = "user_request"
)

// Valid reports whether k is a known trigger.
func (k TriggerKind) Valid() bool {
	switch k {
	case MCQIncorrect, MCQCorrect, ExplainBackIncorrect, Struggling, SlowResponse, UserRequest:
		return true
	}
	return false
}

// IsMCQ reports whether k records a multiple-choice outcome.
func (k TriggerKind) IsMCQ() bool {
	return k == MCQIncorrect || k == MCQCorrect
}

// Understanding grades a learner's self-explanation.
type Understanding string

const (
	UnderstandingCorrect Understanding = "correct"
	UnderstandingPartial Understanding = "partial"
	UnderstandingPoor    Understanding = "poor"
)

// Valid reports whether u is a known grade.
func (u Understanding) Valid() bool {
	switch u {
	case UnderstandingCorrect, UnderstandingPartial, UnderstandingPoor:
		return true
	}
	return false
}

// Weak reports whether u is a partial or poor explanation.
func (u Understanding) Weak() bool {
	return u == UnderstandingPartial || u == UnderstandingPoor
}

// ErrInvalidEvent is returned by Event.Validate.
var ErrInvalidEvent = errors.New("invalid adaptation event")

// Event is one unit of evidence that may change the profile.
type Event struct {
	Trigger          TriggerKind        `json:"trigger"`
	TimeTakenSeconds float64            `json:"time_taken_seconds,omitempty"`
	Difficulty       profile.Difficulty `json:"difficulty,omitempty"`

	// Explanation is the learner's own explanation for explain-back events.
	Explanation   string        `json:"explanation,omitempty"`
	Understanding Understanding `json:"understanding,omitempty"`
	OffTopic      bool          `json:"off_topic,omitempty"`

	// Question and LearnerAnswer give context for misconception checks.
	Question      string `json:"question,omitempty"`
	LearnerAnswer string `json:"learner_answer,omitempty"`
}

// Validate checks the event payload is usable for its trigger.
func (e Event) Validate() error {
	if !e.Trigger.Valid() {
		return fmt.Errorf("%w: unknown trigger %q", ErrInvalidEvent, e.Trigger)
	}
	if e.TimeTakenSeconds < 0 {
		return fmt.Errorf("%w: time_taken_seconds must not be negative", ErrInvalidEvent)
	}
	if e.Difficulty != "" && !e.Difficulty.Valid() {
		return fmt.Errorf("%w: difficulty %q", ErrInvalidEvent, e.Difficulty)
	}
	if e.Understanding != "" && !e.Understanding.Valid() {
		return fmt.Errorf("%w: understanding %q", ErrInvalidEvent, e.Understanding)
	}
	switch e.Trigger {
	case ExplainBackIncorrect:
		if e.Understanding == "" && strings.TrimSpace(e.Explanation) == "" {
			return fmt.Errorf("%w: explain_back_incorrect needs an explanation or understanding", ErrInvalidEvent)
		}
	case SlowResponse:
		if e.TimeTakenSeconds == 0 {
			return fmt.Errorf("%w: slow_response needs time_taken_seconds", ErrInvalidEvent)
		}
	}
	return nil
}

// Window is the recent multiple-choice history of a session, oldest first.
type Window struct {
	Outcomes []bool `json:"outcomes"`
}

// Record appends one outcome and keeps at most size entries.
func (w *Window) Record(correct bool, size int) {
	w.Outcomes = append(w.Outcomes, correct)
	if size > 0 && len(w.Outcomes) > size {
		w.Outcomes = w.Outcomes[len(w.Outcomes)-size:]
	}
}

// Incorrect counts wrong answers among the last n outcomes.
func (w Window) Incorrect(n int) int {
	start := max(len(w.Outcomes)-n, 0)
	count := 0
	for _, ok := range w.Outcomes[start:] {
		if !ok {
			count++
		}
	}
	return count
}

// Reset forgets all outcomes.
func (w *Window) Reset() {
	w.Outcomes = nil
}
