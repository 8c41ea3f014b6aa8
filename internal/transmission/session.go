package transmission

import "sync"

// SessionHeader carries the daemon's anti-CSRF session token.
const SessionHeader = "X-Transmission-Session-Id"

// unknownSession is sent until the daemon hands out a real token.
const unknownSession = "unknown"

// Session holds the latest session token for one Client. Readers building
// request headers share the lock; a renewal replaces the value exclusively,
// so a concurrent read sees either the old or the new token in full.
type Session struct {
	mu    sync.RWMutex
	token string
}

// NewSession returns a Session primed with the "unknown" sentinel.
func NewSession() *Session {
	return &Session{token: unknownSession}
}

// Token returns the current token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Replace swaps in a renewed token.
func (s *Session) Replace(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}
