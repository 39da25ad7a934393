package cache

import (
	"sync"
	"time"
)

// Closer is implemented by anything a SessionCache can evict.
type Closer interface {
	Close()
}

type sessionEntry[S Closer] struct {
	session  S
	lastSeen time.Time
}

// SessionCache stores console sessions by token and evicts idle ones.
type SessionCache[S Closer] struct {
	mu       sync.RWMutex
	sessions map[string]*sessionEntry[S]
	idle     time.Duration
	now      func() time.Time
}

func NewSessionCache[S Closer](idle time.Duration) *SessionCache[S] {
	return &SessionCache[S]{
		sessions: make(map[string]*sessionEntry[S]),
		idle:     idle,
		now:      time.Now,
	}
}

// Add stores s under token, closing any session it replaces.
func (c *SessionCache[S]) Add(token string, s S) {
	c.mu.Lock()
	prev, ok := c.sessions[token]
	c.sessions[token] = &sessionEntry[S]{session: s, lastSeen: c.now()}
	c.mu.Unlock()
	if ok {
		prev.session.Close()
	}
}

// Find returns the session for token and marks it as seen.
func (c *SessionCache[S]) Find(token string) (S, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.sessions[token]
	if !ok {
		var zero S
		return zero, false
	}
	e.lastSeen = c.now()
	return e.session, true
}

// Delete removes and closes the session for token.
func (c *SessionCache[S]) Delete(token string) {
	c.mu.Lock()
	e, ok := c.sessions[token]
	delete(c.sessions, token)
	c.mu.Unlock()
	if ok {
		e.session.Close()
	}
}

// Sweep closes and removes sessions idle for longer than the idle timeout.
// It returns how many were evicted.
func (c *SessionCache[S]) Sweep() int {
	if c.idle <= 0 {
		return 0
	}
	c.mu.Lock()
	cutoff := c.now().Add(-c.idle)
	evicted := make([]S, 0)
	for token, e := range c.sessions {
		if e.lastSeen.Before(cutoff) {
			evicted = append(evicted, e.session)
			delete(c.sessions, token)
		}
	}
	c.mu.Unlock()

	for _, s := range evicted {
		s.Close()
	}
	return len(evicted)
}

func (c *SessionCache[S]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}
