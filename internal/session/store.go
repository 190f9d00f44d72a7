package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/mindpath/internal/adaptation"
	"github.com/abhisek/mindpath/internal/content"
	"github.com/abhisek/mindpath/internal/diagnostic"
	"github.com/abhisek/mindpath/internal/logger"
	"github.com/abhisek/mindpath/internal/misconception"
	"github.com/abhisek/mindpath/internal/profile"
	"github.com/abhisek/mindpath/internal/store"
)

// Config holds session lifecycle settings.
type Config struct {
	// TTL is how long an idle session survives. Zero disables expiry.
	TTL time.Duration `yaml:"ttl"`

	// PracticeCount is the default number of practice questions.
	PracticeCount int `yaml:"practice_count"`

	// MaxPracticeCount caps a single practice request.
	MaxPracticeCount int `yaml:"max_practice_count"`

	// GenerationTimeout bounds content generation that outlives its
	// request, such as a shared diagnostic fetch.
	GenerationTimeout time.Duration `yaml:"generation_timeout"`
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		TTL:               2 * time.Hour,
		PracticeCount:     5,
		MaxPracticeCount:  10,
		GenerationTimeout: 60 * time.Second,
	}
}

// ProfileStore persists profiles of returning learners.
type ProfileStore interface {
	Save(ctx context.Context, userID string, p profile.Profile) error
	Get(ctx context.Context, userID string) (*store.StoredProfile, error)
	TouchSession(ctx context.Context, userID string) error
}

// EventLog records adaptation decisions.
type EventLog interface {
	AppendAdaptation(ctx context.Context, data store.AdaptationEventData) error
}

// Deps are the collaborators a Store composes. Generator is required;
// Profiles and Events may be nil.
type Deps struct {
	Generator content.Generator
	Engine    *diagnostic.Engine
	Trigger   *adaptation.Trigger
	Gate      *misconception.Gate
	Profiles  ProfileStore
	Events    EventLog
	Logger    *logger.Logger
}

type entry struct {
	mu sync.Mutex
	s  Session

	// Read by the sweeper without holding mu.
	lastSeen atomic.Int64
	deleted  atomic.Bool
}

// Store is the authoritative, in-memory owner of every session.
type Store struct {
	cfg      Config
	gen      content.Generator
	engine   *diagnostic.Engine
	trigger  *adaptation.Trigger
	gate     *misconception.Gate
	profiles ProfileStore
	events   EventLog
	log      *logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*entry

	flight singleflight.Group
}

// NewStore creates a Store. Missing policy components get their defaults.
func NewStore(cfg Config, deps Deps) *Store {
	def := DefaultConfig()
	if cfg.PracticeCount <= 0 {
		cfg.PracticeCount = def.PracticeCount
	}
	if cfg.MaxPracticeCount < cfg.PracticeCount {
		cfg.MaxPracticeCount = max(def.MaxPracticeCount, cfg.PracticeCount)
	}
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = def.GenerationTimeout
	}
	if deps.Engine == nil {
		deps.Engine = diagnostic.New(diagnostic.DefaultConfig())
	}
	if deps.Trigger == nil {
		deps.Trigger = adaptation.New(adaptation.DefaultConfig())
	}
	if deps.Gate == nil {
		deps.Gate = misconception.NewGate()
	}
	if deps.Generator == nil {
		deps.Generator = content.NewBankGenerator()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Store{
		cfg:      cfg,
		gen:      deps.Generator,
		engine:   deps.Engine,
		trigger:  deps.Trigger,
		gate:     deps.Gate,
		profiles: deps.Profiles,
		events:   deps.Events,
		log:      deps.Logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// StartSession creates a session. A known userID starts from the stored
// profile; everyone else starts from the default one.
func (st *Store) StartSession(ctx context.Context, topic, userID string) (Session, error) {
	st.sweep()

	userID = strings.TrimSpace(userID)
	p := profile.Default()
	if userID != "" && st.profiles != nil {
		stored, err := st.profiles.Get(ctx, userID)
		switch {
		case err == nil:
			p = stored.Profile
			if err := st.profiles.TouchSession(ctx, userID); err != nil {
				st.log.Warn("failed to count session", "user_id", userID, "error", err)
			}
		case errors.Is(err, store.ErrNotFound):
		default:
			st.log.Warn("failed to load stored profile", "user_id", userID, "error", err)
		}
	}

	now := st.now()
	e := &entry{s: Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Topic:     strings.TrimSpace(topic),
		Phase:     PhaseCreated,
		Profile:   p,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	e.lastSeen.Store(now.UnixNano())

	st.mu.Lock()
	st.sessions[e.s.ID] = e
	st.mu.Unlock()

	st.log.Info("session started", "session_id", e.s.ID, "user_id", userID, "topic", e.s.Topic)
	return e.s.clone(), nil
}

// Get returns a snapshot of the session.
func (st *Store) Get(_ context.Context, id string) (Session, error) {
	var out Session
	err := st.with("get", id, func(s *Session) error {
		out = s.clone()
		return nil
	})
	return out, err
}

// Reset destroys the session. Later calls with its id fail with
// UnknownSession.
func (st *Store) Reset(_ context.Context, id string) error {
	e, err := st.acquire("reset", id)
	if err != nil {
		return err
	}
	e.deleted.Store(true)
	e.mu.Unlock()
	st.remove(id, e)
	st.log.Info("session reset", "session_id", id)
	return nil
}

// Stats counts live sessions.
func (st *Store) Stats() Stats {
	st.sweep()

	st.mu.RLock()
	entries := make([]*entry, 0, len(st.sessions))
	for _, e := range st.sessions {
		entries = append(entries, e)
	}
	st.mu.RUnlock()

	out := Stats{ByPhase: make(map[Phase]int)}
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted.Load() {
			out.Sessions++
			out.ByPhase[e.s.Phase]++
			out.Adaptations += e.s.AdaptationCount
		}
		e.mu.Unlock()
	}
	return out
}

// acquire returns the live entry for id with its mutex held.
func (st *Store) acquire(op, id string) (*entry, error) {
	st.mu.RLock()
	e, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, newError(KindUnknownSession, op, nil)
	}

	e.mu.Lock()
	if e.deleted.Load() {
		e.mu.Unlock()
		return nil, newError(KindUnknownSession, op, nil)
	}
	now := st.now()
	if st.expired(e, now) {
		e.deleted.Store(true)
		e.mu.Unlock()
		st.remove(id, e)
		return nil, newError(KindUnknownSession, op, errors.New("session expired"))
	}
	e.lastSeen.Store(now.UnixNano())
	return e, nil
}

func (st *Store) expired(e *entry, now time.Time) bool {
	return st.cfg.TTL > 0 && now.Sub(time.Unix(0, e.lastSeen.Load())) > st.cfg.TTL
}

// remove deletes id from the index if it still maps to e.
func (st *Store) remove(id string, e *entry) {
	st.mu.Lock()
	if st.sessions[id] == e {
		delete(st.sessions, id)
	}
	st.mu.Unlock()
}

// sweep drops expired sessions. It runs on session creation instead of a
// background timer.
func (st *Store) sweep() {
	if st.cfg.TTL <= 0 {
		return
	}
	now := st.now()

	st.mu.Lock()
	defer st.mu.Unlock()
	for id, e := range st.sessions {
		if st.expired(e, now) {
			e.deleted.Store(true)
			delete(st.sessions, id)
			st.log.Debug("session expired", "session_id", id)
		}
	}
}

// with runs fn on the live session with its lock held. The lock is
// released even if fn panics, so a failed request never wedges a session.
func (st *Store) with(op, id string, fn func(s *Session) error) error {
	e, err := st.acquire(op, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	return fn(&e.s)
}

// commit stamps the update time. Callers hold the session lock.
func (st *Store) commit(s *Session) {
	s.UpdatedAt = st.now()
}

// persist saves the profile of a returning learner, best-effort.
func (st *Store) persist(ctx context.Context, userID string, p profile.Profile) {
	if userID == "" || st.profiles == nil {
		return
	}
	if err := st.profiles.Save(context.WithoutCancel(ctx), userID, p); err != nil {
		st.log.Warn("failed to persist profile", "user_id", userID, "error", err)
	}
}

// detached bounds generation that must not depend on the caller's
// cancellation.
func (st *Store) detached(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), st.cfg.GenerationTimeout)
}
