package session

import "context"

// Outcome is the result of an asynchronous task
type Outcome[T any] struct {
	Value T
	Err   error
}

// Go runs fn in its own goroutine. The returned channel receives exactly one
// Outcome and is then closed.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Outcome[T] {
	ch := make(chan Outcome[T], 1)
	go func() {
		defer close(ch)
		v, err := fn(ctx)
		ch <- Outcome[T]{Value: v, Err: err}
	}()
	return ch
}
