package pipeline

import "context"

// Iterator yields values one at a time. Next returns ok=false once the
// stream is exhausted.
type Iterator[T any] interface {
	Next(ctx context.Context) (val T, ok bool, err error)
	Close() error
}

// Pipeline is a lazy stream of T. Building one does no work; the stages run
// when Collect or Ordered pulls from it.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// FromSlice streams items in order.
func FromSlice[T any](items []T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// Collect pulls every value into a slice. On error it returns the values
// pulled so far together with the error.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	var out []T
	err := each(ctx, p, func(v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

// each pulls values until the stream ends, fn fails or ctx is done, and
// always closes the iterator.
func each[T any](ctx context.Context, p *Pipeline[T], fn func(T) error) error {
	it := p.create(ctx)
	defer it.Close()
	for {
		v, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

type sliceIter[T any] struct {
	items []T
	pos   int
}

func (it *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.pos >= len(it.items) {
		return zero, false, nil
	}
	v := it.items[it.pos]
	it.pos++
	return v, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

// message is one value or error sent by a worker goroutine.
type message[T any] struct {
	val T
	err error
}

// chanIter drains the output channel of a concurrent stage.
type chanIter[T any] struct {
	ch   <-chan message[T]
	stop func() error
}

func (it *chanIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case m, open := <-it.ch:
		if !open {
			return zero, false, nil
		}
		if m.err != nil {
			return zero, false, m.err
		}
		return m.val, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

func (it *chanIter[T]) Close() error { return it.stop() }
