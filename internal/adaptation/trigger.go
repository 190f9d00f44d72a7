// Package adaptation decides whether a piece of learner evidence is strong
// enough to change the profile, and how.
package adaptation

import (
	"fmt"

	"github.com/abhisek/mindpath/internal/profile"
)

// Config holds the tunable thresholds of the trigger.
type Config struct {
	// LookbackWindow is how many recent MCQ attempts are considered.
	LookbackWindow int `yaml:"lookback_window"`

	// RunLength is how many incorrect answers within the window trigger
	// remediation.
	RunLength int `yaml:"run_length"`

	// SlowMargin multiplies the slow threshold for slow_response events.
	SlowMargin float64 `yaml:"slow_margin"`

	Timing profile.Timing `yaml:"timing"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		LookbackWindow: 3,
		RunLength:      2,
		SlowMargin:     2.0,
		Timing:         profile.DefaultTiming(),
	}
}

// Trigger evaluates adaptation events against a profile. It holds no state.
type Trigger struct {
	cfg Config
}

// New creates a Trigger.
func New(cfg Config) *Trigger {
	if cfg.LookbackWindow < 1 {
		cfg.LookbackWindow = 1
	}
	if cfg.RunLength < 1 {
		cfg.RunLength = 1
	}
	if cfg.SlowMargin <= 0 {
		cfg.SlowMargin = 1
	}
	return &Trigger{cfg: cfg}
}

// Config returns the effective configuration.
func (t *Trigger) Config() Config {
	return t.cfg
}

// Evaluate decides whether ev changes p. history is the MCQ window before
// ev. A nil result means the evidence is not sufficient, or that the
// resulting profile would be identical to p.
func (t *Trigger) Evaluate(p profile.Profile, ev Event, history Window) *profile.Delta {
	b := &deltaBuilder{current: p}

	switch ev.Trigger {
	case MCQIncorrect:
		incorrect := history.Incorrect(t.cfg.LookbackWindow-1) + 1
		slow := ev.TimeTakenSeconds > t.cfg.Timing.SlowFor(ev.Difficulty)
		switch {
		case incorrect >= t.cfg.RunLength:
			b.remediate(fmt.Sprintf("%d of your last %d answers were incorrect", incorrect, min(len(history.Outcomes)+1, t.cfg.LookbackWindow)))
		case slow:
			b.remediate("that answer was incorrect and took longer than usual")
		}

	case MCQCorrect:
		// Correct answers only feed the window.

	case ExplainBackIncorrect:
		if ev.Understanding.Weak() {
			b.remediate(fmt.Sprintf("your explanation was %s", ev.Understanding))
		}

	case Struggling, UserRequest:
		why := "you said you are struggling"
		if ev.Trigger == UserRequest {
			why = "you asked for a different approach"
		}
		b.learningStyle(p.LearningStyle.Next(), why+", so let's switch to a "+string(p.LearningStyle.Next())+" approach")
		b.confidence(p.Confidence.Lower(), why+", so we'll take smaller steps")

	case SlowResponse:
		limit := t.cfg.SlowMargin * t.cfg.Timing.SlowFor(ev.Difficulty)
		if ev.TimeTakenSeconds >= limit {
			b.pace(p.Pace.Slower(), fmt.Sprintf("that took %.0fs, well over the usual %.0fs, so we'll slow the pace", ev.TimeTakenSeconds, t.cfg.Timing.SlowFor(ev.Difficulty)))
		}
	}

	return b.result()
}

// deltaBuilder only records fields that actually differ from current.
type deltaBuilder struct {
	current profile.Profile
	delta   profile.Delta
	touched bool
}

func (b *deltaBuilder) learningStyle(v profile.LearningStyle, reason string) {
	if v != b.current.LearningStyle {
		b.delta.SetLearningStyle(v, reason)
		b.touched = true
	}
}

func (b *deltaBuilder) pace(v profile.Pace, reason string) {
	if v != b.current.Pace {
		b.delta.SetPace(v, reason)
		b.touched = true
	}
}

func (b *deltaBuilder) confidence(v profile.Confidence, reason string) {
	if v != b.current.Confidence {
		b.delta.SetConfidence(v, reason)
		b.touched = true
	}
}

func (b *deltaBuilder) depth(v profile.Depth, reason string) {
	if v != b.current.DepthPreference {
		b.delta.SetDepthPreference(v, reason)
		b.touched = true
	}
}

// remediate lowers confidence one band, or once confidence is already low,
// moves toward conceptual, intuition-first teaching.
func (b *deltaBuilder) remediate(why string) {
	if b.current.Confidence != profile.ConfidenceLow {
		b.confidence(b.current.Confidence.Lower(), why+", so we'll rebuild confidence with smaller steps")
		return
	}
	b.learningStyle(profile.Conceptual, why+", so let's go back to stories and analogies")
	b.depth(profile.IntuitionFirst, why+", so we'll build intuition before formulas")
}

func (b *deltaBuilder) result() *profile.Delta {
	if !b.touched {
		return nil
	}
	d := b.delta
	return &d
}
