// Package session provides the per-user session store, turn serialization and turn ids.
package session

import (
	"sync"

	"ai-language-tutor-service/internal/models"
	"ai-language-tutor-service/internal/observability/metrics"
)

// Store keeps one Session per user in memory for the lifetime of the process.
// Thread-safe for concurrent access across distinct users. Turns of the same user
// are expected to be serialized by the caller (see Locker).
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	metrics  *metrics.Metrics
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*models.Session),
		metrics:  metrics.DefaultMetrics,
	}
}

// Get returns a copy of the user's session or ErrNoSession.
func (s *Store) Get(userID string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return models.Session{}, models.ErrNoSession
	}
	return *sess, nil
}

// GetOrCreate returns the user's session, creating one in choose_language if absent.
// The boolean reports whether a session was created.
func (s *Store) GetOrCreate(userID, defaultNativeLanguage string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[userID]; ok {
		return *sess, false
	}
	sess := models.NewSession(userID, defaultNativeLanguage)
	s.sessions[userID] = &sess
	s.metrics.SetActiveSessions(len(s.sessions))
	return sess, true
}

// Update applies fn to a copy of the user's session and stores the result only if
// fn succeeds and the stage invariants still hold. Fails with ErrNoSession when the
// user has no session.
func (s *Store) Update(userID string, fn func(*models.Session) error) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[userID]
	if !ok {
		return models.Session{}, models.ErrNoSession
	}

	next := *current
	if err := fn(&next); err != nil {
		return *current, err
	}
	if err := next.Validate(); err != nil {
		return *current, err
	}
	if next.Stage != current.Stage {
		s.metrics.RecordStageTransition(current.Stage.String(), next.Stage.String())
	}
	*current = next
	return next, nil
}

// Reset replaces the user's session with a fresh one in choose_language.
// An existing native language is kept; defaultNativeLanguage is used otherwise.
func (s *Store) Reset(userID, defaultNativeLanguage string) models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	native := defaultNativeLanguage
	if old, ok := s.sessions[userID]; ok && old.NativeLanguage != "" {
		native = old.NativeLanguage
	}
	sess := models.NewSession(userID, native)
	s.sessions[userID] = &sess
	s.metrics.SetActiveSessions(len(s.sessions))
	return sess
}

// Delete discards the user's session. Returns false if none existed.
func (s *Store) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[userID]; !ok {
		return false
	}
	delete(s.sessions, userID)
	s.metrics.SetActiveSessions(len(s.sessions))
	return true
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
