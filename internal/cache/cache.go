package cache

import (
	"context"
	"sync"
	"time"
)

// SessionRegistry tracks issued session ids so tokens can be revoked
// before they expire.
type SessionRegistry interface {
	Put(ctx context.Context, sessionID string, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, bool, error)
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

type MemorySessionRegistry struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemorySessionRegistry() *MemorySessionRegistry {
	return &MemorySessionRegistry{
		now:     time.Now,
		entries: make(map[string]memoryEntry),
	}
}

func (r *MemorySessionRegistry) Put(_ context.Context, sessionID string, userID string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sweepLocked()
	r.entries[sessionID] = memoryEntry{userID: userID, expiresAt: r.now().Add(ttl)}
	return nil
}

func (r *MemorySessionRegistry) Lookup(_ context.Context, sessionID string) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[sessionID]
	if !ok {
		return "", false, nil
	}
	if !r.now().Before(entry.expiresAt) {
		delete(r.entries, sessionID)
		return "", false, nil
	}
	return entry.userID, true, nil
}

func (r *MemorySessionRegistry) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, sessionID)
	return nil
}

func (r *MemorySessionRegistry) sweepLocked() {
	now := r.now()
	for id, entry := range r.entries {
		if !now.Before(entry.expiresAt) {
			delete(r.entries, id)
		}
	}
}
