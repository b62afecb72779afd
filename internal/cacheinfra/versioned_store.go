// Package cacheinfra provides the default cache.Store implementation:
// an in-memory map of version-stamped entries with lazy dual expiry.
package cacheinfra

import (
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/bookwork/go-bookshop/cache"
)

// entry is one stored value. A tombstone entry carries no value; it
// exists only to fence out populates that began before the
// invalidation that produced it.
type entry struct {
	value      any
	version    cache.Version
	createdAt  time.Time
	absExpiry  time.Time
	sliding    time.Duration
	lastAccess atomic.Int64 // unix nanos
	tombstone  bool
}

// live reports whether the entry can still be served at now.
func (e *entry) live(now time.Time) bool {
	if e.tombstone {
		return false
	}
	if !now.Before(e.absExpiry) {
		return false
	}
	if e.sliding > 0 {
		last := time.Unix(0, e.lastAccess.Load())
		if now.Sub(last) >= e.sliding {
			return false
		}
	}
	return true
}

// VersionedStore implements cache.Store. Entries are kept in a
// concurrent map keyed by logical resource name; per-key ordering is
// enforced through the map's atomic Compute, so unrelated keys never
// serialize against each other.
//
// Expiry is lazy: a dead entry is detected (and dropped) by the Get
// that finds it, not by a background sweeper. The key space here is a
// handful of listing keys, so there is nothing worth sweeping.
type VersionedStore struct {
	entries *xsync.MapOf[string, *entry]
	clock   func() time.Time
	counter atomic.Uint64
}

var _ cache.Store = (*VersionedStore)(nil)

// New returns an empty store using the wall clock.
func New() *VersionedStore {
	return NewWithClock(time.Now)
}

// NewWithClock lets tests drive expiry deterministically.
func NewWithClock(clock func() time.Time) *VersionedStore {
	return &VersionedStore{
		entries: xsync.NewMapOf[string, *entry](),
		clock:   clock,
	}
}

// Begin implements cache.Store.
func (s *VersionedStore) Begin() cache.Version {
	return cache.Version(s.counter.Add(1))
}

// Get implements cache.Store. A hit touches the sliding window; a dead
// entry is removed so the map does not accumulate corpses.
func (s *VersionedStore) Get(key string) (any, bool) {
	e, ok := s.entries.Load(key)
	if !ok {
		return nil, false
	}
	now := s.clock()
	if !e.live(now) {
		if !e.tombstone {
			// Only drop the exact entry we saw; a concurrent Set may
			// already have replaced it.
			s.entries.Compute(key, func(cur *entry, loaded bool) (*entry, bool) {
				if !loaded || cur == e {
					return nil, true
				}
				return cur, false
			})
		}
		return nil, false
	}
	e.lastAccess.Store(now.UnixNano())
	return e.value, true
}

// Set implements cache.Store. The write is rejected when the stored
// entry - live, expired or tombstone - carries a version at or past v:
// the caller's data predates what the store has already seen.
func (s *VersionedStore) Set(key string, value any, ttl cache.TTL, v cache.Version) bool {
	now := s.clock()
	accepted := false
	s.entries.Compute(key, func(cur *entry, loaded bool) (*entry, bool) {
		if loaded && cur.version >= v {
			return cur, false
		}
		e := &entry{
			value:     value,
			version:   v,
			createdAt: now,
			absExpiry: now.Add(ttl.Absolute),
			sliding:   ttl.Sliding,
		}
		e.lastAccess.Store(now.UnixNano())
		accepted = true
		return e, false
	})
	return accepted
}

// Invalidate implements cache.Store. The key is replaced by a
// tombstone stamped with a fresh version, so a populate whose Begin
// predates this call can no longer land. The tombstone reads as a
// miss and is overwritten by the next accepted Set.
func (s *VersionedStore) Invalidate(key string) {
	fence := cache.Version(s.counter.Add(1))
	s.entries.Compute(key, func(cur *entry, loaded bool) (*entry, bool) {
		if loaded && cur.version >= fence {
			return cur, false
		}
		return &entry{version: fence, tombstone: true}, false
	})
}

// Len returns the number of stored entries, tombstones included.
func (s *VersionedStore) Len() int {
	return s.entries.Size()
}
