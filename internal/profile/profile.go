package profile

import (
	"errors"
	"fmt"
)

// LearningStyle is how the learner prefers to take in new material.
type LearningStyle string

const (
	Conceptual  LearningStyle = "conceptual"
	Visual      LearningStyle = "visual"
	ExamFocused LearningStyle = "exam-focused"
)

// styleCycle is the fixed order used when a learner asks for something different.
var styleCycle = []LearningStyle{Conceptual, Visual, ExamFocused}

// Pace is the learner's processing speed.
type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceMedium Pace = "medium"
	PaceFast   Pace = "fast"
)

// Confidence is the learner's confidence band in the current subject.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Depth is whether the learner wants intuition or formal definitions first.
type Depth string

const (
	IntuitionFirst Depth = "intuition-first"
	FormulaFirst   Depth = "formula-first"
)

// ErrInvalidValue is returned when an enum value is not recognised.
var ErrInvalidValue = errors.New("invalid profile value")

// Profile is the adaptive state that drives presentation.
type Profile struct {
	LearningStyle   LearningStyle `json:"learning_style"`
	Pace            Pace          `json:"pace"`
	Confidence      Confidence    `json:"confidence"`
	DepthPreference Depth         `json:"depth_preference"`
	CorrectAnswers  int           `json:"correct_answers"`
	TotalAnswers    int           `json:"total_answers"`
}

// Default returns the profile every new session starts with.
func Default() Profile {
	return Profile{
		LearningStyle:   Conceptual,
		Pace:            PaceMedium,
		Confidence:      ConfidenceMedium,
		DepthPreference: IntuitionFirst,
	}
}

// Accuracy returns the fraction of correct answers, or 0 with no answers.
func (p Profile) Accuracy() float64 {
	if p.TotalAnswers == 0 {
		return 0
	}
	return float64(p.CorrectAnswers) / float64(p.TotalAnswers)
}

// Validate checks every enum field and the answer counters.
func (p Profile) Validate() error {
	if !p.LearningStyle.Valid() {
		return fmt.Errorf("%w: learning_style %q", ErrInvalidValue, p.LearningStyle)
	}
	if !p.Pace.Valid() {
		return fmt.Errorf("%w: pace %q", ErrInvalidValue, p.Pace)
	}
	if !p.Confidence.Valid() {
		return fmt.Errorf("%w: confidence %q", ErrInvalidValue, p.Confidence)
	}
	if !p.DepthPreference.Valid() {
		return fmt.Errorf("%w: depth_preference %q", ErrInvalidValue, p.DepthPreference)
	}
	if p.CorrectAnswers < 0 || p.TotalAnswers < 0 || p.CorrectAnswers > p.TotalAnswers {
		return fmt.Errorf("%w: answers %d/%d", ErrInvalidValue, p.CorrectAnswers, p.TotalAnswers)
	}
	return nil
}

// Valid reports whether s is one of the known learning styles.
func (s LearningStyle) Valid() bool {
	switch s {
	case Conceptual, Visual, ExamFocused:
		return true
	}
	return false
}

// Next returns the style after s in the cycle conceptual → visual → exam-focused.
func (s LearningStyle) Next() LearningStyle {
	for i, c := range styleCycle {
		if c == s {
			return styleCycle[(i+1)%len(styleCycle)]
		}
	}
	return Conceptual
}

// UnmarshalText implements encoding.TextUnmarshaler, rejecting unknown values.
func (s *LearningStyle) UnmarshalText(b []byte) error {
	v, err := ParseLearningStyle(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseLearningStyle converts a wire string into a LearningStyle.
func ParseLearningStyle(s string) (LearningStyle, error) {
	v := LearningStyle(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: learning_style %q", ErrInvalidValue, s)
	}
	return v, nil
}

var paceRank = map[Pace]int{PaceSlow: 0, PaceMedium: 1, PaceFast: 2}
var paceByRank = []Pace{PaceSlow, PaceMedium, PaceFast}

// Valid reports whether p is one of the known paces.
func (p Pace) Valid() bool {
	_, ok := paceRank[p]
	return ok
}

// Slower moves one band toward slow, saturating at slow.
func (p Pace) Slower() Pace {
	r, ok := paceRank[p]
	if !ok {
		return PaceMedium
	}
	return paceByRank[max(r-1, 0)]
}

// Faster moves one band toward fast, saturating at fast.
func (p Pace) Faster() Pace {
	r, ok := paceRank[p]
	if !ok {
		return PaceMedium
	}
	return paceByRank[min(r+1, len(paceByRank)-1)]
}

// UnmarshalText implements encoding.TextUnmarshaler, rejecting unknown values.
func (p *Pace) UnmarshalText(b []byte) error {
	v, err := ParsePace(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ParsePace converts a wire string into a Pace.
func ParsePace(s string) (Pace, error) {
	v := Pace(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: pace %q", ErrInvalidValue, s)
	}
	return v, nil
}

var confidenceRank = map[Confidence]int{ConfidenceLow: 0, ConfidenceMedium: 1, ConfidenceHigh: 2}
var confidenceByRank = []Confidence{ConfidenceLow, ConfidenceMedium, ConfidenceHigh}

// Valid reports whether c is one of the known confidence bands.
func (c Confidence) Valid() bool {
	_, ok := confidenceRank[c]
	return ok
}

// Rank returns 0 for low, 1 for medium and 2 for high.
func (c Confidence) Rank() int {
	return confidenceRank[c]
}

// ConfidenceFromRank is the inverse of Rank. Out-of-range ranks saturate.
func ConfidenceFromRank(r int) Confidence {
	return confidenceByRank[min(max(r, 0), len(confidenceByRank)-1)]
}

// Lower moves one band toward low, saturating at low.
func (c Confidence) Lower() Confidence {
	r, ok := confidenceRank[c]
	if !ok {
		return ConfidenceMedium
	}
	return ConfidenceFromRank(r - 1)
}

// Raise moves one band toward high, saturating at high.
func (c Confidence) Raise() Confidence {
	r, ok := confidenceRank[c]
	if !ok {
		return ConfidenceMedium
	}
	return ConfidenceFromRank(r + 1)
}

// UnmarshalText implements encoding.TextUnmarshaler, rejecting unknown values.
func (c *Confidence) UnmarshalText(b []byte) error {
	v, err := ParseConfidence(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseConfidence converts a wire string into a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	v := Confidence(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: confidence %q", ErrInvalidValue, s)
	}
	return v, nil
}

// Valid reports whether d is one of the known depth preferences.
func (d Depth) Valid() bool {
	return d == IntuitionFirst || d == FormulaFirst
}

// UnmarshalText implements encoding.TextUnmarshaler, rejecting unknown values.
func (d *Depth) UnmarshalText(b []byte) error {
	v, err := ParseDepth(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDepth converts a wire string into a Depth.
func ParseDepth(s string) (Depth, error) {
	v := Depth(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: depth_preference %q", ErrInvalidValue, s)
	}
	return v, nil
}
