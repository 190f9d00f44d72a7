package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/store"
	"github.com/abhisek/mindpath/internal/style"
)

// AdaptationResult reports what an adaptation event did to the profile.
type AdaptationResult struct {
	ProfileUpdated  bool             `json:"profile_updated"`
	Profile         profile.Profile  `json:"profile"`
	PreviousProfile *profile.Profile `json:"previous_profile,omitempty"`
	UpdatedProfile  *profile.Profile `json:"updated_profile,omitempty"`
	Changes         []profile.Change `json:"changes,omitempty"`
	ChangeReasons   []string         `json:"change_reasons,omitempty"`
	AdaptationCount int              `json:"adaptation_count"`
	Style           style.Style      `json:"style"`

	// Message is set when the presentation style changed.
	Message string `json:"adaptation_message,omitempty"`

	// Understanding is the grade given to an explain-back event.
	Understanding adaptation.Understanding `json:"understanding,omitempty"`

	Misconception *misconception.Finding `json:"misconception,omitempty"`
}

// MisconceptionRequest asks whether a learner's input shows a misconception.
type MisconceptionRequest struct {
	Topic         string
	Question      string
	LearnerInput  string
	InputType     string
	IsCorrect     bool
	Understanding adaptation.Understanding
	OffTopic      bool
}

// RecordAdaptationEvent feeds one piece of evidence to the adaptation
// trigger. A triggering event changes the profile and increments the
// adaptation count in one step; anything else leaves both untouched.
// Misconception lookup happens after the commit and never fails the call.
func (st *Store) RecordAdaptationEvent(ctx context.Context, id string, ev adaptation.Event) (AdaptationResult, error) {
	const op = "record adaptation event"

	if err := ev.Validate(); err != nil {
		return AdaptationResult{}, newError(KindValidation, op, err)
	}

	if ev.Trigger == adaptation.ExplainBackIncorrect && ev.Understanding == "" {
		graded, err := st.gradeExplanation(ctx, op, id, ev)
		if err != nil {
			return AdaptationResult{}, err
		}
		ev.Understanding = graded
	}

	var (
		res   AdaptationResult
		in    misconception.Input
		check bool
	)
	err := st.with(op, id, func(s *Session) error {
		if s.Phase != PhaseLearning {
			return phaseError(op, s.Phase, PhaseLearning)
		}

		prev := s.Profile
		next := prev
		var changes []profile.Change
		var reasons []string
		if delta := st.trigger.Evaluate(prev, ev, s.RecentMCQ); delta != nil {
			var err error
			if next, changes, err = delta.Apply(prev); err != nil {
				return fmt.Errorf("%s: apply delta: %w", op, err)
			}
			reasons = delta.Reasons
		}
		updated := len(changes) > 0

		if ev.Trigger.IsMCQ() {
			correct := ev.Trigger == adaptation.MCQCorrect
			s.PracticeTotal++
			if correct {
				s.PracticeCorrect++
			}
			if updated {
				// The run that caused remediation is spent.
				s.RecentMCQ.Reset()
			} else {
				s.RecentMCQ.Record(correct, st.trigger.Config().LookbackWindow)
			}
		}
		if updated {
			s.Profile = next
			s.AdaptationCount++
		}
		st.commit(s)

		res = AdaptationResult{
			ProfileUpdated:  updated,
			Profile:         s.Profile,
			AdaptationCount: s.AdaptationCount,
			Style:           style.Select(s.Profile),
			Understanding:   ev.Understanding,
		}
		if updated {
			res.PreviousProfile = &prev
			res.UpdatedProfile = &next
			res.Changes = changes
			res.ChangeReasons = reasons
			res.Message = styleMessage(style.Select(prev), res.Style)
			st.persist(ctx, s.UserID, next)
		}
		st.recordEvent(ctx, s, string(ev.Trigger), res)

		var ok bool
		in, ok = misconception.FromEvent(s.Topic, ev)
		check = ok && st.gate.ShouldCheck(in)
		return nil
	})
	if err != nil {
		return AdaptationResult{}, err
	}

	if res.ProfileUpdated {
		st.log.Info("profile adapted", "session_id", id, "trigger", ev.Trigger,
			"changes", len(res.Changes), "adaptation_count", res.AdaptationCount)
	} else {
		st.log.Debug("adaptation event recorded", "session_id", id, "trigger", ev.Trigger)
	}

	if check {
		res.Misconception = st.lookupMisconception(ctx, id, in)
	}
	return res, nil
}

// CheckMisconception runs the gate and, when it passes, asks the generator.
// Generator failures yield an empty finding rather than an error.
func (st *Store) CheckMisconception(ctx context.Context, id string, req MisconceptionRequest) (misconception.Finding, error) {
	const op = "check misconception"

	typ, err := misconception.ParseInputType(req.InputType)
	if err != nil {
		return misconception.Finding{}, newError(KindValidation, op, err)
	}
	if req.Understanding != "" && !req.Understanding.Valid() {
		return misconception.Finding{}, newError(KindValidation, op, fmt.Errorf("understanding %q", req.Understanding))
	}

	topic := strings.TrimSpace(req.Topic)
	err = st.with(op, id, func(s *Session) error {
		if topic == "" {
			topic = s.Topic
		}
		return nil
	})
	if err != nil {
		return misconception.Finding{}, err
	}

	in := misconception.Input{
		Type:          typ,
		Topic:         topic,
		Question:      req.Question,
		Text:          req.LearnerInput,
		IsCorrect:     req.IsCorrect,
		Understanding: req.Understanding,
		OffTopic:      req.OffTopic,
	}
	if ok, rule := st.gate.Decide(in); !ok {
		st.log.Debug("misconception check skipped", "session_id", id, "rule", rule)
		return misconception.Finding{}, nil
	}

	f := st.lookupMisconception(ctx, id, in)
	if f == nil {
		return misconception.Finding{}, nil
	}
	return *f, nil
}

// gradeExplanation asks the generator to grade a self-explanation before
// the event is evaluated. Nothing is locked while it runs.
func (st *Store) gradeExplanation(ctx context.Context, op, id string, ev adaptation.Event) (adaptation.Understanding, error) {
	var req content.EvaluationRequest
	err := st.with(op, id, func(s *Session) error {
		if s.Phase != PhaseLearning {
			return phaseError(op, s.Phase, PhaseLearning)
		}
		req = content.EvaluationRequest{
			Topic:       s.Topic,
			Question:    ev.Question,
			Explanation: ev.Explanation,
			Profile:     s.Profile,
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	eval, err := st.gen.EvaluateExplanation(ctx, req)
	if err != nil {
		return "", newError(KindContentUnavailable, op, err)
	}
	if !eval.Understanding.Valid() {
		return "", newError(KindContentUnavailable, op, fmt.Errorf("%w: understanding %q", content.ErrNoContent, eval.Understanding))
	}
	return eval.Understanding, nil
}

// lookupMisconception returns a detected misconception, or nil when there
// is none or the lookup failed. Detected ones are kept on the session.
func (st *Store) lookupMisconception(ctx context.Context, id string, in misconception.Input) *misconception.Finding {
	f, err := st.gen.DetectMisconception(ctx, in)
	if err != nil {
		st.log.Warn("misconception lookup failed", "session_id", id, "error", err)
		return nil
	}
	if f == nil || !f.Detected {
		return nil
	}

	err = st.with("record misconception", id, func(s *Session) error {
		s.Misconceptions = append(s.Misconceptions, *f)
		st.commit(s)
		return nil
	})
	if err != nil && !errors.Is(err, ErrUnknownSession) {
		st.log.Warn("failed to record misconception", "session_id", id, "error", err)
	}
	return f
}

// recordEvent appends the decision to the event log. Callers hold the
// session lock so log order matches adaptation order.
func (st *Store) recordEvent(ctx context.Context, s *Session, trigger string, res AdaptationResult) {
	if st.events == nil {
		return
	}
	data := store.AdaptationEventData{
		SessionID:       s.ID,
		UserID:          s.UserID,
		Trigger:         trigger,
		ProfileUpdated:  res.ProfileUpdated,
		Changes:         res.Changes,
		Reasons:         res.ChangeReasons,
		AdaptationCount: res.AdaptationCount,
	}
	if err := st.events.AppendAdaptation(context.WithoutCancel(ctx), data); err != nil {
		st.log.Warn("failed to record adaptation event", "session_id", s.ID, "error", err)
	}
}

// styleMessage announces a style switch, or returns "" when there is none.
func styleMessage(before, after style.Style) string {
	if before == after {
		return ""
	}
	return fmt.Sprintf("I noticed %s might not be clicking for you. Let me try %s instead!",
		style.Describe(before), style.Describe(after))
}
