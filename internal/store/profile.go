package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/mindpath/internal/profile"
)

type profileRepo struct {
	db *sql.DB
}

func (r *profileRepo) Save(ctx context.Context, userID string, p profile.Profile) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	now := formatTime(time.Now())
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO learner_profiles
			(user_id, learning_style, pace, confidence, depth_preference, correct_answers, total_answers, sessions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			learning_style = excluded.learning_style,
			pace = excluded.pace,
			confidence = excluded.confidence,
			depth_preference = excluded.depth_preference,
			correct_answers = excluded.correct_answers,
			total_answers = excluded.total_answers,
			updated_at = excluded.updated_at`,
		userID, p.LearningStyle, p.Pace, p.Confidence, p.DepthPreference, p.CorrectAnswers, p.TotalAnswers, now, now,
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (r *profileRepo) Get(ctx context.Context, userID string) (*StoredProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, learning_style, pace, confidence, depth_preference, correct_answers, total_answers,
			sessions, created_at, updated_at
		FROM learner_profiles WHERE user_id = ?`, userID)
	sp, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return sp, nil
}

func (r *profileRepo) TouchSession(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE learner_profiles SET sessions = sessions + 1 WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("touch profile: %w", err)
	}
	return nil
}

func (r *profileRepo) List(ctx context.Context) ([]StoredProfile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, learning_style, pace, confidence, depth_preference, correct_answers, total_answers,
			sessions, created_at, updated_at
		FROM learner_profiles ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []StoredProfile
	for rows.Next() {
		sp, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		out = append(out, *sp)
	}
	return out, rows.Err()
}

func (r *profileRepo) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM learner_profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanProfile reads one row and re-validates the enums, so a hand-edited
// database cannot smuggle unknown values into a session.
func scanProfile(s scanner) (*StoredProfile, error) {
	var (
		sp                   StoredProfile
		style, pace, conf    string
		depth                string
		createdAt, updatedAt string
	)
	if err := s.Scan(&sp.UserID, &style, &pace, &conf, &depth, &sp.Profile.CorrectAnswers,
		&sp.Profile.TotalAnswers, &sp.Sessions, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if sp.Profile.LearningStyle, err = profile.ParseLearningStyle(style); err != nil {
		return nil, err
	}
	if sp.Profile.Pace, err = profile.ParsePace(pace); err != nil {
		return nil, err
	}
	if sp.Profile.Confidence, err = profile.ParseConfidence(conf); err != nil {
		return nil, err
	}
	if sp.Profile.DepthPreference, err = profile.ParseDepth(depth); err != nil {
		return nil, err
	}
	sp.CreatedAt = parseTime(createdAt)
	sp.UpdatedAt = parseTime(updatedAt)
	return &sp, nil
}
