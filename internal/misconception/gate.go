// Package misconception decides when a learner's mistake is worth a
// misconception lookup.
package misconception

import (
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/adaptation"
)

// InputType is the kind of learner input being checked.
type InputType string

const (
	InputMCQ         InputType = "mcq"
	InputExplanation InputType = "explanation"
)

// Valid reports whether t is a known input type.
func (t InputType) Valid() bool {
	return t == InputMCQ || t == InputExplanation
}

// ParseInputType converts a wire string into an InputType.
func ParseInputType(s string) (InputType, error) {
	v := InputType(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown input type %q", s)
	}
	return v, nil
}

// Input is what the gate looks at.
type Input struct {
	Type     InputType
	Topic    string
	Question string

	// Text is the learner's answer or explanation.
	Text string

	// IsCorrect applies to MCQ input.
	IsCorrect bool

	// Understanding applies to explanation input.
	Understanding adaptation.Understanding

	OffTopic bool
}

// Finding is the outcome of a misconception lookup.
type Finding struct {
	Detected      bool   `json:"misconception_detected"`
	Misconception string `json:"misconception,omitempty"`
	Correction    string `json:"correction,omitempty"`
}

// Rule rejects inputs that should not be checked. Reject returns true when
// the input must be skipped.
type Rule struct {
	Name   string
	Reject func(in Input) bool
}

// DefaultRules returns the skip rules in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "blank", Reject: func(in Input) bool { return strings.TrimSpace(in.Text) == "" }},
		{Name: "off-topic", Reject: func(in Input) bool { return in.OffTopic }},
		{Name: "correct-answer", Reject: func(in Input) bool { return in.Type == InputMCQ && in.IsCorrect }},
		{Name: "sound-explanation", Reject: func(in Input) bool {
			return in.Type == InputExplanation && !in.Understanding.Weak()
		}},
		{Name: "unknown-type", Reject: func(in Input) bool { return !in.Type.Valid() }},
	}
}

// Gate decides whether to ask for a misconception check.
type Gate struct {
	rules []Rule
}

// NewGate creates a Gate with the default rules.
func NewGate() *Gate {
	return &Gate{rules: DefaultRules()}
}

// ShouldCheck is true only for an incorrect MCQ answer or a partial or poor
// explanation that is neither blank nor off-topic.
func (g *Gate) ShouldCheck(in Input) bool {
	ok, _ := g.Decide(in)
	return ok
}

// Decide is ShouldCheck plus the name of the rule that skipped the input.
func (g *Gate) Decide(in Input) (bool, string) {
	for _, r := range g.rules {
		if r.Reject(in) {
			return false, r.Name
		}
	}
	return true, ""
}

// FromEvent maps an adaptation event to a gate input. ok is false for
// triggers that carry no learner answer to inspect.
func FromEvent(topic string, ev adaptation.Event) (Input, bool) {
	switch ev.Trigger {
	case adaptation.MCQIncorrect, adaptation.MCQCorrect:
		return Input{
			Type:      InputMCQ,
			Topic:     topic,
			Question:  ev.Question,
			Text:      ev.LearnerAnswer,
			IsCorrect: ev.Trigger == adaptation.MCQCorrect,
			OffTopic:  ev.OffTopic,
		}, true
	case adaptation.ExplainBackIncorrect:
		return Input{
			Type:          InputExplanation,
			Topic:         topic,
			Question:      ev.Question,
			Text:          ev.Explanation,
			Understanding: ev.Understanding,
			OffTopic:      ev.OffTopic,
		}, true
	}
	return Input{}, false
}
