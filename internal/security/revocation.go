package security

import (
	"sync"
	"time"
)

// RevocationStore is a concurrency-safe set of revoked-but-not-yet-expired
// encoded token strings. Entries live only in process memory; a token present
// in the store is always treated as invalid regardless of structural validity.
//
// The store is an explicitly constructed component passed to everything that
// needs it; there is no package-level singleton.
type RevocationStore struct {
	mu sync.RWMutex
	m  map[string]struct{}
}

// NewRevocationStore returns an empty RevocationStore.
func NewRevocationStore() *RevocationStore {
	return &RevocationStore{m: make(map[string]struct{})}
}

// Revoke inserts encoded into the set. Idempotent; safe under unbounded
// concurrent callers.
func (s *RevocationStore) Revoke(encoded string) {
	s.mu.Lock()
	s.m[encoded] = struct{}{}
	s.mu.Unlock()
}

// IsRevoked reports whether encoded has been revoked. A Revoke that
// happened-before this call is always observed.
func (s *RevocationStore) IsRevoked(encoded string) bool {
	s.mu.RLock()
	_, ok := s.m[encoded]
	s.mu.RUnlock()
	return ok
}

// Len returns the current number of revoked entries.
func (s *RevocationStore) Len() int {
	s.mu.RLock()
	n := len(s.m)
	s.mu.RUnlock()
	return n
}

// Sweep removes every entry whose decoded token is expired at now, and every
// entry that fails to decode. Entries are evaluated against a snapshot of the
// key set and removed one at a time, so readers are never blocked for longer
// than a single removal. An entry inserted concurrently with a sweep either
// survives it or is evaluated against now like any other. A decode failure is
// isolated to its entry and never aborts the sweep. Returns the number of
// entries removed.
func (s *RevocationStore) Sweep(now time.Time, codec *TokenCodec) int {
	s.mu.RLock()
	keys := make([]string, 0, len(s.m))
	for k := range s.m {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	removed := 0
	for _, k := range keys {
		tok, err := codec.Decode(k)
		if err == nil && !tok.Expired(now) {
			continue
		}
		s.mu.Lock()
		if _, ok := s.m[k]; ok {
			delete(s.m, k)
			removed++
		}
		s.mu.Unlock()
	}
	return removed
}
