// Package catalog holds the shop's entities and the cached
// repositories over them.
//
// # Overview
//
// Repository[T] decorates a storage.EntityStore[T] with one policy,
// identical across Author, Book, Category and Publisher:
//
//   - GetAll: cached under the kind's listing key ("all-books", ...),
//     version-stamped on populate, coalesced under concurrent misses.
//   - GetByID / Search: straight to the backing store. Point and
//     filtered queries have an unbounded key space and no natural
//     invalidation trigger, so caching them would only pin garbage.
//   - Add / Update / Delete: validate, write, invalidate the listing,
//     eagerly repopulate. Eager repopulation trades store load on the
//     write for not paying a miss on the next read.
//
// Customers and orders get the same repository without TTL tuning or a
// gate; their listings are not hot paths in this shop.
//
// # Error policy on writes
//
// A backing-store failure during the write aborts before invalidation,
// so the cache keeps serving the pre-write state, which is consistent.
// A failure during the post-write repopulation does not fail the
// write: the entry stays invalidated and the next GetAll repopulates
// lazily.
package catalog
