package profile

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDefault(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("default profile invalid: %v", err)
	}
	if p.LearningStyle != Conceptual || p.DepthPreference != IntuitionFirst {
		t.Errorf("unexpected default style/depth: %s/%s", p.LearningStyle, p.DepthPreference)
	}
}

func TestConfidence_Saturates(t *testing.T) {
	tests := []struct {
		in        Confidence
		lower, up Confidence
	}{
		{ConfidenceLow, ConfidenceLow, ConfidenceMedium},
		{ConfidenceMedium, ConfidenceLow, ConfidenceHigh},
		{ConfidenceHigh, ConfidenceMedium, ConfidenceHigh},
	}
	for _, tt := range tests {
		if got := tt.in.Lower(); got != tt.lower {
			t.Errorf("%s.Lower() = %s, want %s", tt.in, got, tt.lower)
		}
		if got := tt.in.Raise(); got != tt.up {
			t.Errorf("%s.Raise() = %s, want %s", tt.in, got, tt.up)
		}
	}
}

func TestPace_Saturates(t *testing.T) {
	if got := PaceSlow.Slower(); got != PaceSlow {
		t.Errorf("slow.Slower() = %s", got)
	}
	if got := PaceFast.Slower(); got != PaceMedium {
		t.Errorf("fast.Slower() = %s", got)
	}
	if got := PaceFast.Faster(); got != PaceFast {
		t.Errorf("fast.Faster() = %s", got)
	}
}

func TestLearningStyle_NextCycles(t *testing.T) {
	s := Conceptual
	want := []LearningStyle{Visual, ExamFocused, Conceptual}
	for _, w := range want {
		s = s.Next()
		if s != w {
			t.Fatalf("Next() = %s, want %s", s, w)
		}
	}
}

func TestUnmarshal_RejectsUnknown(t *testing.T) {
	var p Profile
	err := json.Unmarshal([]byte(`{"learning_style":"auditory","pace":"fast","confidence":"low","depth_preference":"formula-first"}`), &p)
	if err == nil {
		t.Fatal("expected error for unknown learning style")
	}
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestUnmarshal_RoundTripsWireNames(t *testing.T) {
	in := Profile{LearningStyle: ExamFocused, Pace: PaceSlow, Confidence: ConfidenceHigh, DepthPreference: FormulaFirst}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"learning_style":"exam-focused","pace":"slow","confidence":"high","depth_preference":"formula-first","correct_answers":0,"total_answers":0}`
	if string(b) != want {
		t.Fatalf("marshal = %s", b)
	}
}

func TestValidate_Counters(t *testing.T) {
	p := Default()
	p.CorrectAnswers = 3
	p.TotalAnswers = 2
	if err := p.Validate(); err == nil {
		t.Fatal("expected error when correct > total")
	}
}

func TestDelta_ApplyReportsOnlyRealChanges(t *testing.T) {
	p := Default()
	var d Delta
	d.SetConfidence(ConfidenceLow, "lower confidence")
	d.SetLearningStyle(Conceptual, "already conceptual")

	next, changes, err := d.Apply(p)
	if err != nil {
		t.Fatal(err)
	}
	if next.Confidence != ConfidenceLow {
		t.Errorf("confidence = %s", next.Confidence)
	}
	if len(changes) != 1 || changes[0].Field != FieldConfidence {
		t.Fatalf("changes = %+v", changes)
	}
	if p.Confidence != ConfidenceMedium {
		t.Error("Apply mutated its input")
	}
}

func TestDelta_IsNoop(t *testing.T) {
	p := Default()
	var d Delta
	d.SetPace(PaceMedium, "same")
	if !d.IsNoop(p) {
		t.Error("expected no-op delta")
	}
}

func TestDelta_ApplyRejectsInvalid(t *testing.T) {
	p := Default()
	bad := Pace("glacial")
	d := Delta{Pace: &bad}
	got, _, err := d.Apply(p)
	if err == nil {
		t.Fatal("expected error")
	}
	if got != p {
		t.Error("profile changed on rejected delta")
	}
}
