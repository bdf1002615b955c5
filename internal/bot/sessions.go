package bot

import (
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/cinepoll/cinepoll/internal/prefs"
)

// Session is one chat's conversation state. Values returned by Get are
// copies; mutate through the Sessions methods.
type Session struct {
	ChatID    int64
	State     State
	Language  prefs.Language
	Country   prefs.Country
	StartedAt time.Time
	UpdatedAt time.Time
}

// Sessions tracks active conversations keyed by chat. Safe for concurrent
// use.
type Sessions struct {
	mu     sync.Mutex
	byChat map[int64]*Session
	clock  clockwork.Clock
	ttl    time.Duration
}

// NewSessions creates a session tracker. Sessions idle longer than ttl are
// removed by PruneStale.
func NewSessions(clock clockwork.Clock, ttl time.Duration) *Sessions {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Sessions{
		byChat: make(map[int64]*Session),
		clock:  clock,
		ttl:    ttl,
	}
}

// Start begins a new conversation for the chat, replacing any existing one.
func (s *Sessions) Start(chatID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now().UTC()
	sess := &Session{
		ChatID:    chatID,
		State:     StateAwaitingLanguage,
		StartedAt: now,
		UpdatedAt: now,
	}
	s.byChat[chatID] = sess
	return *sess
}

// Get returns a copy of the chat's session.
func (s *Sessions) Get(chatID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byChat[chatID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// SetLanguage records the resolved language and advances the conversation
// to the country prompt.
func (s *Sessions) SetLanguage(chatID int64, lang prefs.Language) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byChat[chatID]
	if !ok {
		return ErrNoSession
	}
	if !sess.State.CanTransitionTo(StateAwaitingCountry) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sess.State, StateAwaitingCountry)
	}
	sess.Language = lang
	sess.State = StateAwaitingCountry
	sess.UpdatedAt = s.clock.Now().UTC()
	return nil
}

// SetCountry records the resolved country. The conversation advances to
// awaiting-vote separately, once the poll is actually sent.
func (s *Sessions) SetCountry(chatID int64, country prefs.Country) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byChat[chatID]
	if !ok {
		return ErrNoSession
	}
	sess.Country = country
	sess.UpdatedAt = s.clock.Now().UTC()
	return nil
}

// Transition moves the conversation to the target state after validating
// the move.
func (s *Sessions) Transition(chatID int64, to State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byChat[chatID]
	if !ok {
		return ErrNoSession
	}
	if !sess.State.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sess.State, to)
	}
	sess.State = to
	sess.UpdatedAt = s.clock.Now().UTC()
	return nil
}

// End removes the chat's session, if any.
func (s *Sessions) End(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byChat, chatID)
}

// Len returns the number of active sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byChat)
}

// PruneStale removes sessions idle longer than the TTL and returns how
// many were removed.
func (s *Sessions) PruneStale() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.clock.Now().UTC().Add(-s.ttl)
	removed := 0
	for chatID, sess := range s.byChat {
		if sess.UpdatedAt.Before(cutoff) {
			delete(s.byChat, chatID)
			removed++
		}
	}
	return removed
}
