package pipeline

import (
	"context"
	"fmt"
	"sync"
)

// Parallel applies fn to each value concurrently with up to n workers.
// Order is NOT preserved. The first worker error cancels the remaining work.
func Parallel[I, O any](p *Pipeline[I], n int, fn func(context.Context, I) (O, error)) *Pipeline[O] {
	if n <= 0 {
		n = 1
	}
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			source := p.create(ctx)
			workerCtx, cancel := context.WithCancel(ctx)
			out := make(chan message[O], n)
			in := make(chan I, n)

			var wg sync.WaitGroup

			// Producer: pull from source into input channel
			go func() {
				defer close(in)
				for {
					val, ok, err := source.Next(workerCtx)
					if err != nil {
						select {
						case out <- message[O]{err: err}:
						case <-workerCtx.Done():
						}
						return
					}
					if !ok {
						return
					}
					select {
					case in <- val:
					case <-workerCtx.Done():
						return
					}
				}
			}()

			for range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for val := range in {
						o, err := fn(workerCtx, val)
						if err != nil {
							select {
							case out <- message[O]{err: err}:
							case <-workerCtx.Done():
							}
							cancel()
							return
						}
						select {
						case out <- message[O]{val: o}:
						case <-workerCtx.Done():
							return
						}
					}
				}()
			}

			go func() {
				wg.Wait()
				close(out)
			}()

			return &chanIter[O]{
				ch: out,
				stop: func() error {
					cancel()
					return source.Close()
				},
			}
		},
	}
}

// Ordered collects an indexed pipeline into a slice of length n, placing each
// value at its Index. An index outside [0, n) is an error.
func Ordered[T any](ctx context.Context, p *Pipeline[Indexed[T]], n int) ([]T, error) {
	out := make([]T, n)
	err := each(ctx, p, func(v Indexed[T]) error {
		if v.Index < 0 || v.Index >= n {
			return fmt.Errorf("pipeline: index %d out of range [0, %d)", v.Index, n)
		}
		out[v.Index] = v.Value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
