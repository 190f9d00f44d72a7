package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// sequenceCounter hands out one monotonic sequence shared by every event
// table, so adaptation decisions and the LLM calls they caused can be
// ordered against each other.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func newID() string {
	return ulid.Make().String()
}

func (r *eventRepo) AppendAdaptation(ctx context.Context, data AdaptationEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	changes, err := json.Marshal(data.Changes)
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}
	reasons, err := json.Marshal(data.Reasons)
	if err != nil {
		return fmt.Errorf("marshal reasons: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO adaptation_events
			(id, sequence, session_id, user_id, trigger_kind, profile_updated, changes, reasons, adaptation_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		newID(), seqNum, data.SessionID, nullString(data.UserID), data.Trigger, data.ProfileUpdated,
		string(changes), string(reasons), data.AdaptationCount, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("save adaptation event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAdaptations(ctx context.Context, opts QueryOpts) ([]AdaptationEvent, error) {
	where, args := opts.filter()
	q := `SELECT id, sequence, session_id, COALESCE(user_id, ''), trigger_kind, profile_updated,
		COALESCE(changes, 'null'), COALESCE(reasons, 'null'), adaptation_count, created_at
		FROM adaptation_events` + where + ` ORDER BY sequence ASC`
	if opts.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query adaptation events: %w", err)
	}
	defer rows.Close()

	var out []AdaptationEvent
	for rows.Next() {
		var (
			ev               AdaptationEvent
			changes, reasons string
			created          string
		)
		if err := rows.Scan(&ev.ID, &ev.Sequence, &ev.SessionID, &ev.UserID, &ev.Trigger, &ev.ProfileUpdated,
			&changes, &reasons, &ev.AdaptationCount, &created); err != nil {
			return nil, fmt.Errorf("scan adaptation event: %w", err)
		}
		if err := json.Unmarshal([]byte(changes), &ev.Changes); err != nil {
			return nil, fmt.Errorf("decode changes for %s: %w", ev.ID, err)
		}
		if err := json.Unmarshal([]byte(reasons), &ev.Reasons); err != nil {
			return nil, fmt.Errorf("decode reasons for %s: %w", ev.ID, err)
		}
		ev.CreatedAt = parseTime(created)
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (o QueryOpts) filter() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if o.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, o.SessionID)
	}
	if o.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, o.UserID)
	}
	if o.After > 0 {
		clauses = append(clauses, "sequence > ?")
		args = append(args, o.After)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
