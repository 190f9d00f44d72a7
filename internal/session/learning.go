package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// Explain produces an explanation of topic in the style the current profile
// selects. An empty topic means the session topic.
func (st *Store) Explain(ctx context.Context, id, topic string) (*content.Explanation, error) {
	const op = "explain"

	var req content.ExplainRequest
	err := st.with(op, id, func(s *Session) error {
		req = content.ExplainRequest{
			Topic:    resolveTopic(s, topic),
			Profile:  s.Profile,
			Style:    style.Select(s.Profile),
			Previous: s.LastStyle,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if req.Topic == "" {
		return nil, newError(KindValidation, op, errors.New("topic is required"))
	}

	exp, err := st.gen.Explain(ctx, req)
	if err != nil {
		st.log.Warn("explanation failed", "session_id", id, "topic", req.Topic, "error", err)
		return nil, newError(KindContentUnavailable, op, err)
	}

	err = st.with(op, id, func(s *Session) error {
		s.LastStyle = exp.StyleUsed
		st.commit(s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	st.log.Debug("explanation served", "session_id", id, "style", exp.StyleUsed, "reexplain", req.Reexplain())
	return exp, nil
}

// Practice produces count practice questions for topic. Zero means the
// configured default.
func (st *Store) Practice(ctx context.Context, id, topic string, count int) ([]content.PracticeQuestion, error) {
	const op = "practice"

	if count == 0 {
		count = st.cfg.PracticeCount
	}
	if count < 1 || count > st.cfg.MaxPracticeCount {
		return nil, newError(KindValidation, op, fmt.Errorf("count must be between 1 and %d", st.cfg.MaxPracticeCount))
	}

	var p profile.Profile
	err := st.with(op, id, func(s *Session) error {
		topic = resolveTopic(s, topic)
		p = s.Profile
		return nil
	})
	if err != nil {
		return nil, err
	}
	if topic == "" {
		return nil, newError(KindValidation, op, errors.New("topic is required"))
	}

	qs, err := st.gen.Practice(ctx, topic, p, count)
	if err == nil && len(qs) == 0 {
		err = content.ErrNoContent
	}
	if err != nil {
		st.log.Warn("practice generation failed", "session_id", id, "topic", topic, "error", err)
		return nil, newError(KindContentUnavailable, op, err)
	}
	return qs, nil
}

// resolveTopic prefers the requested topic over the session's.
func resolveTopic(s *Session, requested string) string {
	if t := strings.TrimSpace(requested); t != "" {
		return t
	}
	return s.Topic
}
