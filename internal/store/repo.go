package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/mindpath/internal/profile"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit     int    // max results (0 = unlimited)
	SessionID string // exact match when set
	UserID    string // exact match when set
	After     int64  // sequence > After
}

// StoredProfile is a returning learner's last known profile.
type StoredProfile struct {
	UserID    string
	Profile   profile.Profile
	Sessions  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepo persists learner profiles keyed by user id.
type ProfileRepo interface {
	// Save upserts the profile for userID.
	Save(ctx context.Context, userID string, p profile.Profile) error

	// Get returns the stored profile, or ErrNotFound.
	Get(ctx context.Context, userID string) (*StoredProfile, error)

	// TouchSession counts a new session for userID, if the user exists.
	TouchSession(ctx context.Context, userID string) error

	// List returns all stored profiles, most recently updated first.
	List(ctx context.Context) ([]StoredProfile, error)

	// Delete removes the stored profile. Deleting a missing user is not an
	// error.
	Delete(ctx context.Context, userID string) error
}

// AdaptationEventData captures one adaptation decision.
type AdaptationEventData struct {
	SessionID       string
	UserID          string
	Trigger         string
	ProfileUpdated  bool
	Changes         []profile.Change
	Reasons         []string
	AdaptationCount int
}

// AdaptationEvent is a stored adaptation decision.
type AdaptationEvent struct {
	ID        string
	Sequence  int64
	CreatedAt time.Time
	AdaptationEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEvent is a stored LLM request.
type LLMRequestEvent struct {
	ID        string
	Sequence  int64
	CreatedAt time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM requests per model and purpose.
type LLMUsage struct {
	Model        string
	Purpose      string
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs float64
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendAdaptation records an adaptation decision.
	AppendAdaptation(ctx context.Context, data AdaptationEventData) error

	// QueryAdaptations returns adaptation events in sequence order.
	QueryAdaptations(ctx context.Context, opts QueryOpts) ([]AdaptationEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMRequests returns LLM request events, newest first.
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// LLMUsage aggregates LLM requests by model and purpose.
	LLMUsage(ctx context.Context) ([]LLMUsage, error)
}
