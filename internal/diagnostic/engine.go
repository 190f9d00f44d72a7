package diagnostic

import (
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/profile"
)

// Engine validates, scores and aggregates diagnostics. It holds no session
// state and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// New creates an Engine. An out-of-range question count falls back to the
// default.
func New(cfg Config) *Engine {
	if cfg.QuestionCount < MinQuestions || cfg.QuestionCount > MaxQuestions {
		cfg.QuestionCount = DefaultConfig().QuestionCount
	}
	if cfg.HighAccuracy <= 0 {
		cfg.HighAccuracy = DefaultConfig().HighAccuracy
	}
	if cfg.MediumAccuracy <= 0 {
		cfg.MediumAccuracy = DefaultConfig().MediumAccuracy
	}
	if cfg.Timing.FastSeconds <= 0 || cfg.Timing.SlowSeconds <= 0 {
		cfg.Timing = profile.DefaultTiming()
	}
	return &Engine{cfg: cfg}
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Prepare validates a generated question set and trims it to the configured
// length. It fails when fewer usable questions than that are given.
func (e *Engine) Prepare(qs []Question) ([]Question, error) {
	seen := make(map[string]bool, len(qs))
	out := make([]Question, 0, e.cfg.QuestionCount)
	for i, q := range qs {
		if err := ValidateQuestion(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidQuestions, q.ID)
		}
		seen[q.ID] = true
		if len(out) < e.cfg.QuestionCount {
			out = append(out, q)
		}
	}
	if len(out) < e.cfg.QuestionCount {
		return nil, fmt.Errorf("%w: got %d questions, need %d", ErrInvalidQuestions, len(out), e.cfg.QuestionCount)
	}
	return out, nil
}

// ValidateQuestion checks a single question is well formed.
func ValidateQuestion(q Question) error {
	switch {
	case strings.TrimSpace(q.ID) == "":
		return fmt.Errorf("%w: empty id", ErrInvalidQuestions)
	case strings.TrimSpace(q.Question) == "":
		return fmt.Errorf("%w: %s: empty question text", ErrInvalidQuestions, q.ID)
	case len(q.Options) < MinOptions || len(q.Options) > MaxOptions:
		return fmt.Errorf("%w: %s: %d options, want %d-%d", ErrInvalidQuestions, q.ID, len(q.Options), MinOptions, MaxOptions)
	case q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options):
		return fmt.Errorf("%w: %s: correct index %d out of range", ErrInvalidQuestions, q.ID, q.CorrectIndex)
	case !q.Difficulty.Valid():
		return fmt.Errorf("%w: %s: difficulty %q", ErrInvalidQuestions, q.ID, q.Difficulty)
	case !q.Probe.Valid():
		return fmt.Errorf("%w: %s: probe %q", ErrInvalidQuestions, q.ID, q.Probe)
	}
	if q.Probe.votesStyle() {
		if len(q.OptionStyles) != len(q.Options) {
			return fmt.Errorf("%w: %s: need one style signal per option", ErrInvalidQuestions, q.ID)
		}
		for _, s := range q.OptionStyles {
			if !s.Valid() {
				return fmt.Errorf("%w: %s: style signal %q", ErrInvalidQuestions, q.ID, s)
			}
		}
	}
	if q.Probe.votesDepth() {
		if len(q.OptionDepths) != len(q.Options) {
			return fmt.Errorf("%w: %s: need one depth signal per option", ErrInvalidQuestions, q.ID)
		}
		for _, d := range q.OptionDepths {
			if !d.Valid() {
				return fmt.Errorf("%w: %s: depth signal %q", ErrInvalidQuestions, q.ID, d)
			}
		}
	}
	return nil
}

// CheckAnswer validates a submission against its question.
func CheckAnswer(q Question, selected int, seconds float64, rating *int) error {
	if selected < 0 || selected >= len(q.Options) {
		return fmt.Errorf("%w: selected_answer %d out of range for %d options", ErrInvalidAnswer, selected, len(q.Options))
	}
	if seconds < 0 {
		return fmt.Errorf("%w: time_taken_seconds must not be negative", ErrInvalidAnswer)
	}
	if rating != nil && (*rating < MinRating || *rating > MaxRating) {
		return fmt.Errorf("%w: confidence_rating %d outside %d-%d", ErrInvalidAnswer, *rating, MinRating, MaxRating)
	}
	return nil
}

// Score reports whether selected is correct. Preference probes have no
// wrong answer.
func Score(q Question, selected int) bool {
	if !q.Probe.IsKnowledge() {
		return true
	}
	return selected == q.CorrectIndex
}

// Find returns the question with the given id.
func Find(qs []Question, id string) (Question, bool) {
	for _, q := range qs {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Complete aggregates the recorded answers into a fresh profile.
func (e *Engine) Complete(qs []Question, answers []Answer) (profile.Profile, error) {
	if len(answers) == 0 {
		return profile.Profile{}, ErrNoAnswers
	}

	byID := make(map[string]Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	p := profile.Default()
	t := e.cfg.Timing

	var (
		totalSeconds float64
		ratingSum    int
		ratings      int
		styleVotes   = map[profile.LearningStyle]int{}
		depthVotes   = map[profile.Depth]int{}
	)

	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return profile.Profile{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, a.QuestionID)
		}

		seconds := t.Normalize(a.TimeTakenSeconds, q.Difficulty)
		if q.Probe.IsKnowledge() && !a.IsCorrect && seconds < t.FastSeconds {
			// A fast wrong answer never counts as fast.
			seconds = t.FastSeconds
		}
		totalSeconds += seconds

		if a.ConfidenceRating != nil {
			ratingSum += *a.ConfidenceRating
			ratings++
		}

		if q.Probe.IsKnowledge() {
			p.TotalAnswers++
			if a.IsCorrect {
				p.CorrectAnswers++
			}
			continue
		}
		if q.Probe.votesStyle() && a.SelectedIndex < len(q.OptionStyles) {
			styleVotes[q.OptionStyles[a.SelectedIndex]]++
		}
		if q.Probe.votesDepth() && a.SelectedIndex < len(q.OptionDepths) {
			depthVotes[q.OptionDepths[a.SelectedIndex]]++
		}
	}

	p.Pace = e.pace(totalSeconds / float64(len(answers)))
	p.Confidence = e.confidence(p, ratingSum, ratings)
	p.LearningStyle = argmax(styleVotes, profile.Conceptual)
	p.DepthPreference = argmax(depthVotes, profile.IntuitionFirst)
	return p, nil
}

func (e *Engine) pace(mean float64) profile.Pace {
	switch {
	case mean < e.cfg.Timing.FastSeconds:
		return profile.PaceFast
	case mean > e.cfg.Timing.SlowSeconds:
		return profile.PaceSlow
	}
	return profile.PaceMedium
}

// confidence combines observed accuracy with the self-reported rating. When
// they disagree by more than one band, the lower wins.
func (e *Engine) confidence(p profile.Profile, ratingSum, ratings int) profile.Confidence {
	observed := profile.ConfidenceMedium
	if p.TotalAnswers > 0 {
		acc := p.Accuracy()
		switch {
		case acc >= e.cfg.HighAccuracy:
			observed = profile.ConfidenceHigh
		case acc >= e.cfg.MediumAccuracy:
			observed = profile.ConfidenceMedium
		default:
			observed = profile.ConfidenceLow
		}
	}
	if ratings == 0 {
		return observed
	}

	mean := float64(ratingSum) / float64(ratings)
	reported := profile.ConfidenceMedium
	switch {
	case mean <= 2:
		reported = profile.ConfidenceLow
	case mean >= 4:
		reported = profile.ConfidenceHigh
	}

	gap := observed.Rank() - reported.Rank()
	if gap >= -1 && gap <= 1 {
		return observed
	}
	return profile.ConfidenceFromRank(min(observed.Rank(), reported.Rank()))
}

// argmax returns the single most-voted key. Any tie at the top, or no votes
// at all, resolves to def.
func argmax[K comparable](votes map[K]int, def K) K {
	best, top, tied := def, 0, false
	for k, n := range votes {
		switch {
		case n > top:
			best, top, tied = k, n, false
		case n == top && n > 0:
			tied = true
		}
	}
	if top == 0 || tied {
		return def
	}
	return best
}
