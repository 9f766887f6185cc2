package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Rrens/honeypot/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// entry guards one live session. Lock order is entry.mu before
// SessionStore.mu; the registry lock is never held while taking an entry lock.
type entry struct {
	mu      sync.Mutex
	session *domain.Session
	gone    bool
}

// SessionStore implements domain.SessionStore in process memory
type SessionStore struct {
	mu          sync.RWMutex
	sessions    map[string]*entry
	idleTimeout time.Duration
	now         func() time.Time
}

// NewSessionStore creates a store whose sessions expire after idleTimeout
// of inactivity. A non-positive timeout keeps sessions until terminated.
func NewSessionStore(idleTimeout time.Duration) *SessionStore {
	return &SessionStore{
		sessions:    make(map[string]*entry),
		idleTimeout: idleTimeout,
		now:         time.Now,
	}
}

// Create registers a fresh session with a newly generated id
func (s *SessionStore) Create(ctx context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	for _, taken := s.sessions[id]; taken; _, taken = s.sessions[id] {
		id = uuid.New().String()
	}

	sess := domain.NewSession(id, s.now())
	s.sessions[id] = &entry{session: sess}

	log.Info().Str("session_id", id).Msg("created session")
	return sess.Clone()
}

// Get returns a copy of a live session. Unknown, terminated and idle-expired
// ids yield domain.ErrSessionNotFound; expired entries are dropped on the way.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	e, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	return e.session.Clone(), nil
}

// Touch refreshes the activity timestamp of a live session
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	e, err := s.lock(id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()

	e.session.LastActiveAt = s.now()
	return nil
}

// RecordTurn appends one exchange and merges its indicators atomically
func (s *SessionStore) RecordTurn(ctx context.Context, id string, rec domain.TurnRecord) (*domain.Session, error) {
	e, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	e.session.Apply(rec, s.now())

	log.Debug().
		Str("session_id", id).
		Int("turns", e.session.TurnCount).
		Int("indicators", e.session.Intelligence.Len()).
		Msg("recorded turn")

	return e.session.Clone(), nil
}

// Terminate optionally records a final exchange, then removes the session for
// good and returns its final snapshot
func (s *SessionStore) Terminate(ctx context.Context, id string, final *domain.TurnRecord) (*domain.Session, error) {
	e, err := s.lock(id)
	if err != nil {
		return nil, err
	}
	defer e.mu.Unlock()

	if final != nil {
		e.session.Apply(*final, s.now())
	}
	e.session.Terminated = true
	s.drop(id, e)

	log.Info().
		Str("session_id", id).
		Int("turns", e.session.TurnCount).
		Int("indicators", e.session.Intelligence.Len()).
		Msg("terminated session")

	return e.session.Clone(), nil
}

// Count returns the number of live, non-expired sessions
func (s *SessionStore) Count(ctx context.Context) int {
	count := 0
	for _, e := range s.snapshot() {
		e.mu.Lock()
		if !e.gone && !e.session.IsExpired(s.now(), s.idleTimeout) {
			count++
		}
		e.mu.Unlock()
	}
	return count
}

// Sweep drops every idle-expired session and returns how many were removed
func (s *SessionStore) Sweep(ctx context.Context) int {
	removed := 0
	now := s.now()
	for id, e := range s.snapshot() {
		e.mu.Lock()
		if !e.gone && e.session.IsExpired(now, s.idleTimeout) {
			s.drop(id, e)
			removed++
		}
		e.mu.Unlock()
	}
	return removed
}

// StartSweeper periodically prunes idle sessions until ctx is cancelled
func (s *SessionStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.idleTimeout <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		log.Info().Dur("interval", interval).Dur("idle_timeout", s.idleTimeout).Msg("session sweeper started")

		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(ctx); n > 0 {
					log.Info().Int("removed", n).Msg("pruned idle sessions")
				}
			case <-ctx.Done():
				log.Info().Msg("session sweeper stopped")
				return
			}
		}
	}()
}

// Close discards every live session
func (s *SessionStore) Close() {
	s.mu.Lock()
	old := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range old {
		e.mu.Lock()
		e.gone = true
		e.mu.Unlock()
	}
	log.Info().Int("discarded", len(old)).Msg("session store closed")
}

// lock returns the entry for id with its mutex held, or ErrSessionNotFound.
// An expired entry is dropped before reporting the miss.
func (s *SessionStore) lock(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}

	e.mu.Lock()
	if e.gone {
		e.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	if e.session.IsExpired(s.now(), s.idleTimeout) {
		s.drop(id, e)
		e.mu.Unlock()
		log.Info().Str("session_id", id).Msg("session expired")
		return nil, domain.ErrSessionNotFound
	}
	return e, nil
}

// drop marks e gone and unregisters it. Caller holds e.mu.
func (s *SessionStore) drop(id string, e *entry) {
	e.gone = true
	s.mu.Lock()
	if s.sessions[id] == e {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
}

func (s *SessionStore) snapshot() map[string]*entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*entry, len(s.sessions))
	for id, e := range s.sessions {
		out[id] = e
	}
	return out
}
