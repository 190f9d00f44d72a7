package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/style"
)

// manualUpdate is the event log trigger for profile edits made by the learner.
const manualUpdate = "manual_update"

// ReexplainResult is an explanation served after the learner asked for a
// different take.
type ReexplainResult struct {
	Explanation     *content.Explanation `json:"explanation"`
	StyleUsed       style.Style          `json:"style_used"`
	PreviousStyle   *style.Style         `json:"previous_style"`
	StyleChanged    bool                 `json:"style_changed"`
	Message         string               `json:"message"`
	Profile         profile.Profile      `json:"new_profile"`
	AdaptationCount int                  `json:"adaptation_count"`
}

// Reexplain records a user_request or struggling event and then explains
// topic again under the adapted profile. An empty trigger means user_request.
func (st *Store) Reexplain(ctx context.Context, id, topic string, trigger adaptation.TriggerKind) (*ReexplainResult, error) {
	const op = "reexplain"

	switch trigger {
	case "":
		trigger = adaptation.UserRequest
	case adaptation.UserRequest, adaptation.Struggling:
	default:
		return nil, newError(KindValidation, op, fmt.Errorf("trigger must be %s or %s", adaptation.UserRequest, adaptation.Struggling))
	}

	var previous style.Style
	err := st.with(op, id, func(s *Session) error {
		previous = s.LastStyle
		return nil
	})
	if err != nil {
		return nil, err
	}

	res, err := st.RecordAdaptationEvent(ctx, id, adaptation.Event{Trigger: trigger})
	if err != nil {
		return nil, err
	}
	exp, err := st.Explain(ctx, id, topic)
	if err != nil {
		return nil, err
	}

	out := &ReexplainResult{
		Explanation:     exp,
		StyleUsed:       exp.StyleUsed,
		StyleChanged:    previous != exp.StyleUsed,
		Message:         res.Message,
		Profile:         res.Profile,
		AdaptationCount: res.AdaptationCount,
	}
	if previous != "" {
		out.PreviousStyle = &previous
	}
	switch {
	case out.Message != "":
	case out.StyleChanged && previous != "":
		out.Message = styleMessage(previous, exp.StyleUsed)
	default:
		out.Message = fmt.Sprintf("Here's another way to look at it, still through %s.", style.Describe(exp.StyleUsed))
	}
	return out, nil
}

// Compare explains topic for two contrasting learner profiles side by side.
// An empty topic means the session topic.
func (st *Store) Compare(ctx context.Context, id, topic string) (*content.Comparison, error) {
	const op = "compare explanations"

	err := st.with(op, id, func(s *Session) error {
		topic = resolveTopic(s, topic)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if topic == "" {
		return nil, newError(KindValidation, op, errors.New("topic is required"))
	}

	cmp, err := content.Compare(ctx, st.gen, topic)
	if err != nil {
		st.log.Warn("comparison failed", "session_id", id, "topic", topic, "error", err)
		return nil, newError(KindContentUnavailable, op, err)
	}
	return cmp, nil
}

// GenerateContent builds study material of the given kind for topic,
// pitched at the session's profile. An empty kind means all of it.
func (st *Store) GenerateContent(ctx context.Context, id, topic, kind string) (*content.Pack, error) {
	const op = "generate content"

	k, err := content.ParseKind(kind)
	if err != nil {
		return nil, newError(KindValidation, op, err)
	}

	var p profile.Profile
	err = st.with(op, id, func(s *Session) error {
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

	pack, err := content.BuildPack(ctx, st.gen, topic, p, k, st.cfg.PracticeCount)
	if err != nil {
		st.log.Warn("content generation failed", "session_id", id, "topic", topic, "kind", k, "error", err)
		return nil, newError(KindContentUnavailable, op, err)
	}
	st.log.Debug("content generated", "session_id", id, "kind", k)
	return pack, nil
}

// ProfileUpdate is a learner's own edit of their profile. Empty fields are
// left alone.
type ProfileUpdate struct {
	LearningStyle   string `json:"learning_style"`
	Pace            string `json:"pace"`
	Confidence      string `json:"confidence"`
	DepthPreference string `json:"depth_preference"`
}

func (u ProfileUpdate) delta() (profile.Delta, error) {
	var d profile.Delta
	if v := strings.TrimSpace(u.LearningStyle); v != "" {
		ls, err := profile.ParseLearningStyle(v)
		if err != nil {
			return d, err
		}
		d.SetLearningStyle(ls, "Learning style set by the learner")
	}
	if v := strings.TrimSpace(u.Pace); v != "" {
		pace, err := profile.ParsePace(v)
		if err != nil {
			return d, err
		}
		d.SetPace(pace, "Pace set by the learner")
	}
	if v := strings.TrimSpace(u.Confidence); v != "" {
		c, err := profile.ParseConfidence(v)
		if err != nil {
			return d, err
		}
		d.SetConfidence(c, "Confidence set by the learner")
	}
	if v := strings.TrimSpace(u.DepthPreference); v != "" {
		depth, err := profile.ParseDepth(v)
		if err != nil {
			return d, err
		}
		d.SetDepthPreference(depth, "Depth preference set by the learner")
	}
	if len(d.Reasons) == 0 {
		return d, errors.New("at least one profile field is required")
	}
	return d, nil
}

// UpdateProfile applies a learner's edit during learning. An edit that
// changes something counts as an adaptation; one that changes nothing is
// reported with ProfileUpdated false.
func (st *Store) UpdateProfile(ctx context.Context, id string, u ProfileUpdate) (AdaptationResult, error) {
	const op = "update profile"

	delta, err := u.delta()
	if err != nil {
		return AdaptationResult{}, newError(KindValidation, op, err)
	}

	var res AdaptationResult
	err = st.with(op, id, func(s *Session) error {
		if s.Phase != PhaseLearning {
			return phaseError(op, s.Phase, PhaseLearning)
		}

		prev := s.Profile
		next, changes, err := delta.Apply(prev)
		if err != nil {
			return newError(KindValidation, op, err)
		}
		res = AdaptationResult{
			ProfileUpdated:  len(changes) > 0,
			Profile:         prev,
			AdaptationCount: s.AdaptationCount,
			Style:           style.Select(prev),
		}
		if !res.ProfileUpdated {
			return nil
		}

		s.Profile = next
		s.AdaptationCount++
		st.commit(s)

		res.Profile = next
		res.PreviousProfile = &prev
		res.UpdatedProfile = &next
		res.Changes = changes
		res.ChangeReasons = delta.Reasons
		res.AdaptationCount = s.AdaptationCount
		res.Style = style.Select(next)
		res.Message = styleMessage(style.Select(prev), res.Style)
		st.persist(ctx, s.UserID, next)
		st.recordEvent(ctx, s, manualUpdate, res)
		return nil
	})
	if err != nil {
		return AdaptationResult{}, err
	}

	if res.ProfileUpdated {
		st.log.Info("profile updated by learner", "session_id", id, "changes", len(res.Changes),
			"adaptation_count", res.AdaptationCount)
	}
	return res, nil
}
