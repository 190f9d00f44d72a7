package style

import (
	"testing"

	"github.com/abhisek/mindpath/internal/profile"
)

func mk(ls profile.LearningStyle, pace profile.Pace, conf profile.Confidence, depth profile.Depth) profile.Profile {
	return profile.Profile{LearningStyle: ls, Pace: pace, Confidence: conf, DepthPreference: depth}
}

func TestSelect_Precedence(t *testing.T) {
	tests := []struct {
		name string
		p    profile.Profile
		want Style
		rule string
	}{
		{"low and slow beats exam", mk(profile.ExamFocused, profile.PaceSlow, profile.ConfidenceLow, profile.FormulaFirst), StoryAnalogy, "low-confidence-slow-pace"},
		{"exam beats formula", mk(profile.ExamFocused, profile.PaceMedium, profile.ConfidenceLow, profile.FormulaFirst), ExamSmart, "exam-focused"},
		{"formula beats visual", mk(profile.Visual, profile.PaceFast, profile.ConfidenceHigh, profile.FormulaFirst), StepByStep, "formula-first"},
		{"visual", mk(profile.Visual, profile.PaceFast, profile.ConfidenceHigh, profile.IntuitionFirst), VisualMental, "visual"},
		{"default", mk(profile.Conceptual, profile.PaceMedium, profile.ConfidenceMedium, profile.IntuitionFirst), StoryAnalogy, "default"},
		{"low but not slow", mk(profile.Conceptual, profile.PaceFast, profile.ConfidenceLow, profile.IntuitionFirst), StoryAnalogy, "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule := Explain(tt.p)
			if got != tt.want || rule != tt.rule {
				t.Errorf("Explain() = (%s, %s), want (%s, %s)", got, rule, tt.want, tt.rule)
			}
		})
	}
}

// Select must be total and stable over the whole profile space.
func TestSelect_TotalAndPure(t *testing.T) {
	styles := []profile.LearningStyle{profile.Conceptual, profile.Visual, profile.ExamFocused}
	paces := []profile.Pace{profile.PaceSlow, profile.PaceMedium, profile.PaceFast}
	confs := []profile.Confidence{profile.ConfidenceLow, profile.ConfidenceMedium, profile.ConfidenceHigh}
	depths := []profile.Depth{profile.IntuitionFirst, profile.FormulaFirst}

	n := 0
	for _, ls := range styles {
		for _, pc := range paces {
			for _, c := range confs {
				for _, d := range depths {
					p := mk(ls, pc, c, d)
					first := Select(p)
					if !first.Valid() {
						t.Fatalf("Select(%+v) returned invalid style %q", p, first)
					}
					for range 3 {
						if again := Select(p); again != first {
							t.Fatalf("Select(%+v) not stable: %s vs %s", p, first, again)
						}
					}
					n++
				}
			}
		}
	}
	if n != 54 {
		t.Fatalf("expected 54 combinations, got %d", n)
	}
}

func TestParse(t *testing.T) {
	for _, s := range All() {
		got, err := Parse(string(s))
		if err != nil || got != s {
			t.Errorf("Parse(%q) = %q, %v", s, got, err)
		}
		if Describe(s) == "" || Instructions(s) == "" {
			t.Errorf("missing description for %s", s)
		}
	}
	if _, err := Parse("interpretive-dance"); err == nil {
		t.Error("expected error for unknown style")
	}
}
