package cache

import (
	"fmt"
	"time"
)

// Version is a monotonically increasing stamp handed out by Begin.
// Every populate carries the version taken at the start of the read
// that produced it, so the store can reject writes that would
// resurrect data older than what it already holds.
type Version uint64

// TTL pairs the two independent expiration policies an entry carries.
// Absolute bounds maximum staleness from creation; Sliding evicts
// entries that go cold. Both must hold for a hit.
type TTL struct {
	Absolute time.Duration
	Sliding  time.Duration
}

// Store is the read-through/write-invalidate cache the catalog
// repositories compose with.
//
// The populate discipline: call Begin before reading the source of
// truth, then pass the returned Version to Set. Set reports false when
// a newer entry (or a newer invalidation) is already present, in which
// case the caller's data is stale and must be discarded.
type Store interface {
	// Get returns the cached value when present and not expired.
	// A hit touches the entry's sliding window. No side effects on miss.
	Get(key string) (any, bool)

	// Begin returns a fresh version stamp. Take it before querying the
	// backing store for the data the subsequent Set will carry.
	Begin() Version

	// Set stores value under key, overwriting any older entry. It
	// reports whether the write was accepted.
	Set(key string, value any, ttl TTL, v Version) bool

	// Invalidate removes the entry unconditionally and fences out any
	// in-flight populate that began before this call. Idempotent on
	// absent keys.
	Invalidate(key string)
}

// CorruptEntryError reports a cached value that does not decode to the
// type the caller expects. Callers treat it as a miss, drop the entry
// and refetch; it never fails the read path.
type CorruptEntryError struct {
	Key  string
	Want string
	Got  string
}

func (e *CorruptEntryError) Error() string {
	return fmt.Sprintf("cache: corrupt entry %q: want %s, got %s", e.Key, e.Want, e.Got)
}

// GetTyped is the type-safe read used by callers that know what an
// entry should hold. A present entry of the wrong dynamic type is
// surfaced as *CorruptEntryError with found=false.
func GetTyped[T any](s Store, key string) (T, bool, error) {
	var zero T
	raw, ok := s.Get(key)
	if !ok {
		return zero, false, nil
	}
	value, ok := raw.(T)
	if !ok {
		return zero, false, &CorruptEntryError{
			Key:  key,
			Want: fmt.Sprintf("%T", zero),
			Got:  fmt.Sprintf("%T", raw),
		}
	}
	return value, true, nil
}
