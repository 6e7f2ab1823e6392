// Package auth holds session state for the API. Sessions gate every
// repository and lesson operation: no user means no access.
package auth

import (
	"sync"

	"github.com/google/uuid"
)

// User is the signed-in identity attached to a session.
type User struct {
	ID    string `json:"id"`
	Login string `json:"login"`
	Email string `json:"email"`
}

// Observer receives the signed-in user on login and nil on logout.
type Observer func(user *User)

// Sessions is an explicit session registry with cancellable observer
// registration, replacing any ambient global auth state.
type Sessions struct {
	mu        sync.RWMutex
	byToken   map[string]User
	observers map[int]Observer
	nextObsID int
}

// NewSessions creates an empty session registry.
func NewSessions() *Sessions {
	return &Sessions{
		byToken:   make(map[string]User),
		observers: make(map[int]Observer),
	}
}

// Login registers a session for user and returns its token.
func (s *Sessions) Login(user User) string {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	token := uuid.NewString()

	s.mu.Lock()
	s.byToken[token] = user
	observers := s.snapshotObservers()
	s.mu.Unlock()

	for _, obs := range observers {
		obs(&user)
	}
	return token
}

// Logout removes the session for token, if any, and notifies observers with
// a nil user.
func (s *Sessions) Logout(token string) {
	s.mu.Lock()
	_, existed := s.byToken[token]
	delete(s.byToken, token)
	observers := s.snapshotObservers()
	s.mu.Unlock()

	if !existed {
		return
	}
	for _, obs := range observers {
		obs(nil)
	}
}

// UserForToken returns the current user for a session token, or false when
// there is no such session.
func (s *Sessions) UserForToken(token string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byToken[token]
	return u, ok
}

// Subscribe registers an observer for session state changes and returns a
// cancel function that removes the registration.
func (s *Sessions) Subscribe(obs Observer) (cancel func()) {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = obs
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// snapshotObservers copies the observer set; callers must hold mu.
func (s *Sessions) snapshotObservers() []Observer {
	observers := make([]Observer, 0, len(s.observers))
	for _, obs := range s.observers {
		observers = append(observers, obs)
	}
	return observers
}
