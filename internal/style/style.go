// Package style maps a learner profile to a teaching-presentation style.
package style

import (
	"fmt"

	"github.com/abhisek/mindpath/internal/profile"
)

// Style is how an explanation is presented.
type Style string

const (
	StoryAnalogy Style = "story-analogy"
	StepByStep   Style = "step-by-step"
	ExamSmart    Style = "exam-smart"
	VisualMental Style = "visual-mental"
)

// All returns every style in declaration order.
func All() []Style {
	return []Style{StoryAnalogy, StepByStep, ExamSmart, VisualMental}
}

// Rule is one precedence step. Match returns true when the rule applies.
type Rule struct {
	Name  string
	Match func(p profile.Profile) bool
	Style Style
}

// Rules is the precedence list evaluated by Select. First match wins.
var Rules = []Rule{
	{
		Name: "low-confidence-slow-pace",
		Match: func(p profile.Profile) bool {
			return p.Confidence == profile.ConfidenceLow && p.Pace == profile.PaceSlow
		},
		Style: StoryAnalogy,
	},
	{
		Name:  "exam-focused",
		Match: func(p profile.Profile) bool { return p.LearningStyle == profile.ExamFocused },
		Style: ExamSmart,
	},
	{
		Name:  "formula-first",
		Match: func(p profile.Profile) bool { return p.DepthPreference == profile.FormulaFirst },
		Style: StepByStep,
	},
	{
		Name:  "visual",
		Match: func(p profile.Profile) bool { return p.LearningStyle == profile.Visual },
		Style: VisualMental,
	},
}

// Select returns the style for p. It depends on nothing but p.
func Select(p profile.Profile) Style {
	s, _ := Explain(p)
	return s
}

// Explain is Select plus the name of the rule that decided, or "default".
func Explain(p profile.Profile) (Style, string) {
	for _, r := range Rules {
		if r.Match(p) {
			return r.Style, r.Name
		}
	}
	return StoryAnalogy, "default"
}

// Valid reports whether s is a known style.
func (s Style) Valid() bool {
	switch s {
	case StoryAnalogy, StepByStep, ExamSmart, VisualMental:
		return true
	}
	return false
}

// Parse converts a wire string into a Style.
func Parse(s string) (Style, error) {
	v := Style(s)
	if !v.Valid() {
		return "", fmt.Errorf("unknown style %q", s)
	}
	return v, nil
}

// Describe returns a short learner-facing description of s.
func Describe(s Style) string {
	switch s {
	case StoryAnalogy:
		return "stories and real-world analogies"
	case StepByStep:
		return "numbered, step-by-step breakdowns"
	case ExamSmart:
		return "definitions, key terms and exam patterns"
	case VisualMental:
		return "diagrams and visual layouts"
	}
	return "a different approach"
}

// Instructions returns generation guidance for s, used in content prompts.
func Instructions(s Style) string {
	switch s {
	case StoryAnalogy:
		return "Open with a relatable story or everyday analogy, then connect it to the concept. Keep the tone gentle."
	case StepByStep:
		return "Start from the formal definition, then walk through numbered steps. Show each intermediate result."
	case ExamSmart:
		return "Lead with the precise definition and key terms. Highlight what examiners look for and add a mnemonic."
	case VisualMental:
		return "Describe the concept as a diagram: boxes, arrows, tables or ASCII art the learner can picture."
	}
	return ""
}
