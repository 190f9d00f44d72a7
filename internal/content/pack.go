package content

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// Kind selects which study material a pack contains.
type Kind string

const (
	KindAll        Kind = "all"
	KindMCQs       Kind = "mcqs"
	KindFlashcards Kind = "flashcards"
	KindSummary    Kind = "summary"
)

// ParseKind converts a wire string into a Kind. Empty means KindAll.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	switch k {
	case "":
		return KindAll, nil
	case KindAll, KindMCQs, KindFlashcards, KindSummary:
		return k, nil
	}
	return "", fmt.Errorf("content_type %q must be all, mcqs, flashcards or summary", s)
}

func (k Kind) includes(part Kind) bool {
	return k == KindAll || k == part
}

// Pack is generated study material for one topic.
type Pack struct {
	Topic       string             `json:"topic"`
	Summary     string             `json:"summary,omitempty"`
	KeyPoints   []string           `json:"key_points,omitempty"`
	MCQs        []PracticeQuestion `json:"mcqs,omitempty"`
	Flashcards  []Flashcard        `json:"flashcards,omitempty"`
	ProfileUsed profile.Profile    `json:"profile_used"`
}

// BuildPack generates the parts kind asks for concurrently. Any failed or
// empty part fails the pack.
func BuildPack(ctx context.Context, g Generator, topic string, p profile.Profile, kind Kind, count int) (*Pack, error) {
	pack := &Pack{Topic: topic, ProfileUsed: p}
	eg, ctx := errgroup.WithContext(ctx)

	if kind.includes(KindMCQs) {
		eg.Go(func() error {
			qs, err := g.Practice(ctx, topic, p, count)
			if err == nil && len(qs) == 0 {
				err = ErrNoContent
			}
			if err != nil {
				return fmt.Errorf("mcqs: %w", err)
			}
			pack.MCQs = qs
			return nil
		})
	}
	if kind.includes(KindFlashcards) {
		eg.Go(func() error {
			cards, err := g.Flashcards(ctx, topic, p, count)
			if err == nil && len(cards) == 0 {
				err = ErrNoContent
			}
			if err != nil {
				return fmt.Errorf("flashcards: %w", err)
			}
			pack.Flashcards = cards
			return nil
		})
	}
	if kind.includes(KindSummary) {
		eg.Go(func() error {
			sum, err := g.Summarize(ctx, topic, p)
			if err == nil && (sum == nil || strings.TrimSpace(sum.Text) == "") {
				err = ErrNoContent
			}
			if err != nil {
				return fmt.Errorf("summary: %w", err)
			}
			pack.Summary = sum.Text
			pack.KeyPoints = sum.KeyPoints
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pack, nil
}

// Comparison is one topic explained for two contrasting learners.
type Comparison struct {
	Topic  string       `json:"topic"`
	Before *Explanation `json:"before"`
	After  *Explanation `json:"after"`
}

// Contrasting profiles for Compare: an unsure learner who wants intuition
// and a confident one preparing for exams.
var (
	compareBefore = profile.Profile{
		LearningStyle:   profile.Conceptual,
		Pace:            profile.PaceSlow,
		Confidence:      profile.ConfidenceLow,
		DepthPreference: profile.IntuitionFirst,
	}
	compareAfter = profile.Profile{
		LearningStyle:   profile.ExamFocused,
		Pace:            profile.PaceFast,
		Confidence:      profile.ConfidenceHigh,
		DepthPreference: profile.FormulaFirst,
	}
)

// Compare explains topic for the two contrasting profiles concurrently.
func Compare(ctx context.Context, g Generator, topic string) (*Comparison, error) {
	out := &Comparison{Topic: topic}
	eg, ctx := errgroup.WithContext(ctx)
	for _, side := range []struct {
		p   profile.Profile
		dst **Explanation
	}{{compareBefore, &out.Before}, {compareAfter, &out.After}} {
		eg.Go(func() error {
			exp, err := g.Explain(ctx, ExplainRequest{Topic: topic, Profile: side.p, Style: style.Select(side.p)})
			if err != nil {
				return err
			}
			*side.dst = exp
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
