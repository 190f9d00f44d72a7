package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// AnswerInput is one diagnostic submission.
type AnswerInput struct {
	QuestionID       string
	SelectedIndex    int
	TimeTakenSeconds float64
	ConfidenceRating *int
}

// AnswerResult is the outcome of a diagnostic submission.
type AnswerResult struct {
	IsCorrect bool   `json:"is_correct"`
	Feedback  string `json:"feedback"`

	// UpdatedProfile is the profile the answers so far would produce. The
	// session profile itself only changes on completion.
	UpdatedProfile *profile.Profile `json:"updated_profile,omitempty"`

	AlreadyAnswered bool `json:"already_answered"`
}

// CompleteResult is the profile built from a finished diagnostic.
type CompleteResult struct {
	Profile  profile.Profile `json:"profile"`
	Insights string          `json:"insights"`
	Style    style.Style     `json:"style"`
}

// StartDiagnostic returns the diagnostic questions for the session, asking
// the generator only on the first call. Concurrent first calls share one
// generation.
func (st *Store) StartDiagnostic(ctx context.Context, id, topic string) ([]diagnostic.PublicQuestion, error) {
	const op = "start diagnostic"
	topic = strings.TrimSpace(topic)

	var cached []diagnostic.PublicQuestion
	err := st.with(op, id, func(s *Session) error {
		switch s.Phase {
		case PhaseLearning:
			return phaseError(op, PhaseLearning, PhaseCreated, PhaseDiagnosing)
		case PhaseDiagnosing:
			if topic != "" && !strings.EqualFold(topic, s.Topic) {
				return topicFixed(op, s.Topic)
			}
			cached = publicQuestions(s.Questions)
		}
		if topic == "" {
			topic = s.Topic
		}
		return nil
	})
	if err != nil || cached != nil {
		return cached, err
	}
	if topic == "" {
		return nil, newError(KindValidation, op, errors.New("topic is required"))
	}

	// Callers only share a generation when they ask for the same topic.
	key := id + "\x00" + strings.ToLower(topic)
	ch := st.flight.DoChan(key, func() (any, error) {
		gctx, cancel := st.detached(ctx)
		defer cancel()
		qs, err := st.gen.DiagnosticQuestions(gctx, topic, st.engine.Config().QuestionCount)
		if err != nil {
			return nil, err
		}
		return st.engine.Prepare(qs)
	})

	var qs []diagnostic.Question
	select {
	case <-ctx.Done():
		return nil, newError(KindContentUnavailable, op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			st.log.Warn("diagnostic generation failed", "session_id", id, "topic", topic, "error", res.Err)
			return nil, newError(KindContentUnavailable, op, res.Err)
		}
		qs = res.Val.([]diagnostic.Question)
	}

	var out []diagnostic.PublicQuestion
	err = st.with(op, id, func(s *Session) error {
		switch s.Phase {
		case PhaseLearning:
			return phaseError(op, PhaseLearning, PhaseCreated, PhaseDiagnosing)
		case PhaseDiagnosing:
			// Another caller committed first.
			if !strings.EqualFold(topic, s.Topic) {
				return topicFixed(op, s.Topic)
			}
			out = publicQuestions(s.Questions)
			return nil
		}
		s.Questions = qs
		s.Topic = topic
		s.Phase = PhaseDiagnosing
		st.commit(s)
		out = publicQuestions(qs)
		st.log.Info("diagnostic started", "session_id", id, "topic", topic, "questions", len(qs))
		return nil
	})
	return out, err
}

func topicFixed(op, topic string) error {
	return newError(KindPhase, op, fmt.Errorf("topic is fixed to %q during the diagnostic", topic))
}

// SubmitDiagnosticAnswer records and scores one answer. A repeated
// submission for the same question returns the stored result together with
// an AlreadyAnswered error; nothing is re-scored.
func (st *Store) SubmitDiagnosticAnswer(ctx context.Context, id string, in AnswerInput) (AnswerResult, error) {
	const op = "submit diagnostic answer"

	var (
		q       diagnostic.Question
		correct bool
		dup     *AnswerResult
	)
	err := st.with(op, id, func(s *Session) error {
		if s.Phase == PhaseCreated {
			return phaseError(op, PhaseCreated, PhaseDiagnosing)
		}
		var ok bool
		if q, ok = diagnostic.Find(s.Questions, in.QuestionID); !ok {
			return newError(KindUnknownQuestion, op, fmt.Errorf("%w: %s", diagnostic.ErrUnknownQuestion, in.QuestionID))
		}
		if prev, ok := s.answer(in.QuestionID); ok {
			r := duplicateResult(prev)
			dup = &r
			return newError(KindAlreadyAnswered, op, nil)
		}
		if s.Phase != PhaseDiagnosing {
			return phaseError(op, s.Phase, PhaseDiagnosing)
		}
		if err := diagnostic.CheckAnswer(q, in.SelectedIndex, in.TimeTakenSeconds, in.ConfidenceRating); err != nil {
			return newError(KindValidation, op, err)
		}
		correct = diagnostic.Score(q, in.SelectedIndex)
		return nil
	})
	if err != nil {
		if dup != nil {
			return *dup, err
		}
		return AnswerResult{}, err
	}

	feedback, err := st.gen.AnswerFeedback(ctx, q, correct)
	if err != nil {
		st.log.Warn("answer feedback failed", "session_id", id, "question_id", q.ID, "error", err)
		feedback = ""
	}

	var res AnswerResult
	err = st.with(op, id, func(s *Session) error {
		if prev, ok := s.answer(in.QuestionID); ok {
			res = duplicateResult(prev)
			return newError(KindAlreadyAnswered, op, nil)
		}
		if s.Phase != PhaseDiagnosing {
			return phaseError(op, s.Phase, PhaseDiagnosing)
		}

		a := diagnostic.Answer{
			QuestionID:       q.ID,
			SelectedIndex:    in.SelectedIndex,
			TimeTakenSeconds: in.TimeTakenSeconds,
			IsCorrect:        correct,
			ConfidenceRating: in.ConfidenceRating,
			Feedback:         feedback,
			AnsweredAt:       st.now(),
		}
		s.Answers = append(s.Answers, a)
		st.commit(s)

		res = storedResult(a)
		if p, err := st.engine.Complete(s.Questions, s.Answers); err == nil {
			res.UpdatedProfile = &p
		}
		return nil
	})
	return res, err
}

// CompleteDiagnostic builds the profile from the recorded answers and moves
// the session to learning. It only succeeds once.
func (st *Store) CompleteDiagnostic(ctx context.Context, id string) (CompleteResult, error) {
	const op = "complete diagnostic"

	var p profile.Profile
	err := st.with(op, id, func(s *Session) error {
		if s.Phase != PhaseDiagnosing {
			return phaseError(op, s.Phase, PhaseDiagnosing)
		}
		built, err := st.engine.Complete(s.Questions, s.Answers)
		if err != nil {
			return newError(KindValidation, op, err)
		}
		p = built
		s.Profile = p
		s.Phase = PhaseLearning
		s.RecentMCQ.Reset()
		st.commit(s)
		st.persist(ctx, s.UserID, p)
		return nil
	})
	if err != nil {
		return CompleteResult{}, err
	}

	sty := style.Select(p)
	st.log.Info("diagnostic completed", "session_id", id, "style", sty, "answers", p.TotalAnswers)

	insights, err := st.gen.Insights(ctx, p, sty)
	if err != nil {
		st.log.Warn("insights generation failed", "session_id", id, "error", err)
		insights = ""
	}
	return CompleteResult{Profile: p, Insights: insights, Style: sty}, nil
}

func storedResult(a diagnostic.Answer) AnswerResult {
	return AnswerResult{IsCorrect: a.IsCorrect, Feedback: a.Feedback}
}

func duplicateResult(a diagnostic.Answer) AnswerResult {
	r := storedResult(a)
	r.AlreadyAnswered = true
	return r
}

func publicQuestions(qs []diagnostic.Question) []diagnostic.PublicQuestion {
	out := make([]diagnostic.PublicQuestion, len(qs))
	for i, q := range qs {
		out[i] = q.Public()
	}
	return out
}
