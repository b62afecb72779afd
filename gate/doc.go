// Package gate provides bounded-concurrency admission control for hot
// read paths.
//
// # Overview
//
// A Limiter holds an independent slot pool per named resource. Callers
// wrap the guarded operation in Do (or DoValue for operations that
// return a result):
//
//	limiter, _ := gate.New(gate.DefaultConfig())
//	books, err := gate.DoValue(ctx, limiter, "books", func(ctx context.Context) ([]Book, error) {
//		return store.QueryAll(ctx)
//	})
//
// # Lifecycle of one gated call
//
// Waiting -> Admitted -> {Completed | Cancelled | Failed}, with
// Waiting -> TimedOut reachable only before admission. Two distinct
// failures separate the phases: ErrAcquireTimeout means the caller
// never got in; ErrCancelled means it got in and the operation
// deadline elapsed mid-flight. In both cases no slot is leaked - the
// release is deferred against every exit path, and a caller arriving
// after a cancellation can acquire immediately.
//
// Cancellation is scoped: an expired deadline cancels only that call's
// in-flight work. Other admitted callers and waiters are unaffected.
package gate
