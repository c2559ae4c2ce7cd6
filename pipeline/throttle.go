package pipeline

import "context"

// Waiter blocks until the caller may proceed. resilience.RateLimiter
// satisfies it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// RateLimit holds every value until w admits it, so downstream stages see at
// most the rate w allows. A nil waiter passes values through untouched.
func RateLimit[T any](p *Pipeline[T], w Waiter) *Pipeline[T] {
	if w == nil {
		return p
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &rateLimitIter[T]{source: p.create(ctx), waiter: w}
		},
	}
}

type rateLimitIter[T any] struct {
	source Iterator[T]
	waiter Waiter
}

func (it *rateLimitIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.waiter.Wait(ctx); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *rateLimitIter[T]) Close() error { return it.source.Close() }
