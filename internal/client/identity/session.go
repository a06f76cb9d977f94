// Package identity holds the client's in-memory auth session. It satisfies
// api.TokenProvider so the transport can fetch a fresh credential per call
// without caching it.
package identity

import (
	"context"
	"sync"

	"memoirvault/internal/common"
)

// Session is the active identity session. The zero value is a signed-out
// session. Safe for concurrent use.
type Session struct {
	mu     sync.RWMutex
	token  string
	userID string
}

// SignIn stores the credential and owner obtained from a successful login.
func (s *Session) SignIn(token, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.userID = userID
}

// SignOut clears the session.
func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.userID = ""
}

// Token returns the current bearer credential, or
// common.ErrNotAuthenticated when no user is signed in.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", common.ErrNotAuthenticated
	}
	return s.token, nil
}

// UserID returns the signed-in user's ID, empty when signed out.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

// Active reports whether a user is signed in.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}
