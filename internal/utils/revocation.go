package utils

import (
	"sync"
	"time"
)

// RevocationList remembers token ids that were ended early by a logout.
// An entry is kept only until the token would have expired on its own.
type RevocationList struct {
	mu      sync.RWMutex
	entries map[string]time.Time // jti -> token expiry
	done    chan struct{}
	once    sync.Once
}

// NewRevocationList starts a background sweep that drops expired entries
// every interval.
func NewRevocationList(interval time.Duration) *RevocationList {
	r := &RevocationList{
		entries: make(map[string]time.Time),
		done:    make(chan struct{}),
	}
	go r.sweepLoop(interval)
	return r
}

func (r *RevocationList) Revoke(jti string, expiresAt time.Time) {
	if jti == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[jti] = expiresAt
}

func (r *RevocationList) IsRevoked(jti string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[jti]
	return ok
}

func (r *RevocationList) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Close stops the sweep. Safe to call more than once.
func (r *RevocationList) Close() {
	r.once.Do(func() { close(r.done) })
}

func (r *RevocationList) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case now := <-ticker.C:
			r.sweep(now)
		}
	}
}

func (r *RevocationList) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for jti, exp := range r.entries {
		if now.After(exp) {
			delete(r.entries, jti)
		}
	}
}
