// Package cache defines the read-through/write-invalidate cache
// contract the catalog repositories compose with.
//
// # Overview
//
// The package exports the Store interface plus the small vocabulary
// around it:
//
//   - Store: Get / Set / Invalidate with a version-stamped populate
//     discipline (see below)
//   - TTL: the absolute + sliding expiration pair every entry carries
//   - ListKey: deterministic key derivation for full-collection
//     listings ("all-books", "all-authors", ...)
//   - GetTyped: generic, type-safe read that degrades a mis-typed
//     entry to a miss instead of failing the read path
//
// The default implementation lives in internal/cacheinfra.
//
// # Populate discipline
//
// Invalidate-then-repopulate is racy when populates are not ordered: a
// write invalidates and repopulates with fresh data while a slower
// concurrent reader repopulates with data it fetched before the write.
// The Store contract closes this with version stamps. A caller that
// intends to populate takes a Version from Begin before it queries the
// source of truth:
//
//	v := store.Begin()
//	books, err := backing.QueryAll(ctx)
//	if err == nil {
//		store.Set(key, books, ttl, v)
//	}
//
// Set rejects the write when the store already holds an entry - or an
// invalidation fence - stamped with a newer version. The slow reader's
// stale populate loses; the caller simply serves the data it fetched
// and lets the next reader repopulate.
//
// # Expiry
//
// An entry is served only while now < absoluteExpiry and the time
// since its last access is within the sliding window. Expiry is lazy:
// checked at lookup, never swept by a background goroutine.
package cache
