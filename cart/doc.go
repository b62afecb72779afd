// Package cart manages one JSON cart document per user with
// read-modify-write semantics.
//
// The document is a single mutable aggregate: every operation loads
// the whole line list, transforms it in memory and writes it back.
// Load-mutate-store with no concurrency control loses updates the
// moment two requests for the same user interleave, so every mutation
// here runs as an optimistic compare-and-swap: the write is
// conditional on the version observed at load, and a lost race replays
// the whole sequence (bounded constant-backoff retry). The catalog
// snapshot in each line - title and price at add time - is taken once
// and never refreshed.
//
// Carts live beside the catalog cache, not behind it: cart reads and
// writes always go to the backing store.
package cart
