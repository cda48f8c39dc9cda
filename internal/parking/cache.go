package parking

import (
	"sync"
	"time"
)

// Source identifies where a cached session list came from.
type Source string

// Cache sources.
const (
	SourceNone     Source = ""
	SourceSnapshot Source = "snapshot"
	SourceRefresh  Source = "refresh"
	SourceScene    Source = "scene"
)

// CacheState is a consistent copy of the cache contents.
type CacheState struct {
	Sessions  []Session `json:"sessions"`
	Version   uint64    `json:"version"`
	Source    Source    `json:"source"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionCache holds the latest session list received from the backend.
//
// Thread Safety: all methods are safe for concurrent use. Replace swaps the
// whole list, so readers never observe a partially updated list.
type SessionCache struct {
	mu        sync.RWMutex
	sessions  []Session
	version   uint64
	source    Source
	updatedAt time.Time
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{}
}

// Replace stores a copy of sessions and returns the new cache version.
func (c *SessionCache) Replace(sessions []Session, source Source, at time.Time) uint64 {
	cp := CloneSessions(sessions)
	if cp == nil {
		cp = []Session{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = cp
	c.version++
	c.source = source
	c.updatedAt = at
	return c.version
}

// Sessions returns a copy of the cached list.
func (c *SessionCache) Sessions() []Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CloneSessions(c.sessions)
}

// State returns the cached list with its metadata.
func (c *SessionCache) State() CacheState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return CacheState{
		Sessions:  CloneSessions(c.sessions),
		Version:   c.version,
		Source:    c.source,
		UpdatedAt: c.updatedAt,
	}
}

// Version returns the number of replacements so far.
func (c *SessionCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
