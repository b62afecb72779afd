package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/semaphore"
)

// ErrAcquireTimeout reports that no slot became free within the
// acquisition timeout. The caller was never admitted and holds nothing.
var ErrAcquireTimeout = errors.New("gate: acquire timeout")

// ErrCancelled reports that the caller was admitted but the operation
// deadline elapsed mid-flight. The slot has been released and any
// partial result discarded.
var ErrCancelled = errors.New("gate: operation cancelled")

// Config sets the admission policy for one guarded resource.
type Config struct {
	// Capacity is the number of concurrently admitted executions.
	Capacity int

	// AcquireTimeout bounds how long a caller waits for a slot.
	AcquireTimeout time.Duration

	// OpTimeout is the deadline the admitted operation runs under,
	// independent of AcquireTimeout.
	OpTimeout time.Duration
}

// DefaultConfig returns the stock policy: five slots, one second to
// get in, five seconds to finish.
func DefaultConfig() Config {
	return Config{
		Capacity:       5,
		AcquireTimeout: time.Second,
		OpTimeout:      5 * time.Second,
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.AcquireTimeout, validation.Required, validation.Min(time.Duration(1))),
		validation.Field(&c.OpTimeout, validation.Required, validation.Min(time.Duration(1))),
	)
}

type resource struct {
	sem *semaphore.Weighted
	cfg Config
}

// Limiter is a bounded-concurrency admission gate keyed by resource
// name. Each resource gets its own independent slot pool, created
// lazily from the per-resource override or the default policy.
type Limiter struct {
	defaults  Config
	overrides map[string]Config
	resources *xsync.MapOf[string, *resource]
}

// New creates a Limiter with the given default policy. Per-resource
// overrides can be supplied with WithResource.
func New(defaults Config, opts ...Option) (*Limiter, error) {
	if err := defaults.Validate(); err != nil {
		return nil, fmt.Errorf("gate: invalid default config: %w", err)
	}
	l := &Limiter{
		defaults:  defaults,
		overrides: map[string]Config{},
		resources: xsync.NewMapOf[string, *resource](),
	}
	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// Option configures a Limiter at construction time.
type Option func(*Limiter) error

// WithResource pins a dedicated policy to one resource name.
func WithResource(name string, cfg Config) Option {
	return func(l *Limiter) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("gate: invalid config for resource %q: %w", name, err)
		}
		l.overrides[name] = cfg
		return nil
	}
}

func (l *Limiter) resource(name string) *resource {
	r, _ := l.resources.LoadOrCompute(name, func() *resource {
		cfg, ok := l.overrides[name]
		if !ok {
			cfg = l.defaults
		}
		return &resource{
			sem: semaphore.NewWeighted(int64(cfg.Capacity)),
			cfg: cfg,
		}
	})
	return r
}

// Do runs fn under the named resource's admission policy.
//
// The call blocks until a slot is free or the acquisition timeout
// elapses (ErrAcquireTimeout). Once admitted, fn runs under a child
// context carrying the operation deadline; when that deadline expires
// before fn completes, the error surfaced is ErrCancelled. The slot is
// released on every exit path.
func (l *Limiter) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	r := l.resource(name)

	acquireCtx, cancelAcquire := context.WithTimeout(ctx, r.cfg.AcquireTimeout)
	defer cancelAcquire()

	if err := r.sem.Acquire(acquireCtx, 1); err != nil {
		if ctx.Err() != nil {
			// The caller gave up, not us.
			return ctx.Err()
		}
		return fmt.Errorf("%w: resource %q after %s", ErrAcquireTimeout, name, r.cfg.AcquireTimeout)
	}
	defer r.sem.Release(1)

	opCtx, cancelOp := context.WithTimeout(ctx, r.cfg.OpTimeout)
	defer cancelOp()

	err := fn(opCtx)
	if err != nil && opCtx.Err() != nil && ctx.Err() == nil {
		return fmt.Errorf("%w: resource %q after %s: %w", ErrCancelled, name, r.cfg.OpTimeout, err)
	}
	return err
}

// DoValue is the generic companion of Do for operations that produce
// a result. Since Go methods cannot have type parameters, this is a
// package-level function.
func DoValue[T any](ctx context.Context, l *Limiter, name string, fn func(context.Context) (T, error)) (T, error) {
	var out T
	err := l.Do(ctx, name, func(ctx context.Context) error {
		var innerErr error
		out, innerErr = fn(ctx)
		return innerErr
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
