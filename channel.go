package reactz

import (
	"context"
)

// FromChannel emits every item received from ch and completes when ch is
// closed. Each subscription starts one goroutine that reads ch until it is
// closed, ctx is done or the subscription is disposed. Cancelling ctx
// completes the stream.
//
// Several subscriptions to the same channel compete for its items.
//
// Example:
//
//	requests := reactz.FromChannel(ctx, requestCh)
func FromChannel[T any](ctx context.Context, ch <-chan T) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		ctx, cancel := context.WithCancel(ctx)

		go func() {
			defer cancel()
			for {
				select {
				case <-ctx.Done():
					observer.OnCompleted()
					return
				case item, ok := <-ch:
					if !ok {
						observer.OnCompleted()
						return
					}
					observer.OnNext(item)
				}
			}
		}()

		return NewDisposable(cancel)
	})
}

// ToChannel subscribes to source on a new goroutine and returns a channel
// carrying its values and, if it fails, its error. The channel is closed when
// the stream terminates or ctx is done, and the subscription is disposed.
// The channel is unbuffered; a slow reader holds up the producer.
//
// This bridges observable pipelines back into channel-based consumers:
//
//	for n := range reactz.ToChannel(ctx, pairs) {
//		if n.Kind == reactz.KindError {
//			return n.Err
//		}
//		handle(n.Value)
//	}
func ToChannel[T any](ctx context.Context, source Observable[T]) <-chan Notification[T] {
	out := make(chan Notification[T])
	done := make(chan struct{})
	g := &gate{}
	closed := false

	// send and finish only run inside g.
	send := func(n Notification[T]) bool {
		if closed {
			return false
		}
		select {
		case out <- n:
			return true
		case <-ctx.Done():
			return false
		}
	}
	finish := func() {
		if closed {
			return
		}
		closed = true
		close(done)
		close(out)
	}

	go func() {
		subscription := source.Subscribe(ObserverFuncs[T]{
			Next: func(v T) {
				g.post(func() {
					if !send(Next(v)) {
						finish()
					}
				})
			},
			Error: func(err error) {
				g.post(func() {
					send(Error[T](err))
					finish()
				})
			},
			Completed: func() {
				g.post(finish)
			},
		})

		select {
		case <-ctx.Done():
			g.post(finish)
		case <-done:
		}
		subscription.Dispose()
	}()

	return out
}
