package reactz

import "sync/atomic"

// autoDetachObserver enforces the notification grammar for an observer:
// nothing is forwarded after a terminal notification, and the subscription is
// disposed as soon as one arrives.
type autoDetachObserver[T any] struct {
	observer     Observer[T]
	subscription *SerialDisposable
	stopped      atomic.Bool
}

func newAutoDetachObserver[T any](observer Observer[T]) *autoDetachObserver[T] {
	return &autoDetachObserver[T]{
		observer:     observer,
		subscription: NewSerialDisposable(),
	}
}

func (o *autoDetachObserver[T]) OnNext(value T) {
	if o.stopped.Load() {
		return
	}
	o.observer.OnNext(value)
}

func (o *autoDetachObserver[T]) OnError(err error) {
	if !o.stopped.CompareAndSwap(false, true) {
		return
	}
	defer o.subscription.Dispose()
	o.observer.OnError(err)
}

func (o *autoDetachObserver[T]) OnCompleted() {
	if !o.stopped.CompareAndSwap(false, true) {
		return
	}
	defer o.subscription.Dispose()
	o.observer.OnCompleted()
}

// Dispose stops forwarding and disposes the upstream subscription.
func (o *autoDetachObserver[T]) Dispose() {
	o.stopped.Store(true)
	o.subscription.Dispose()
}

// releaseObserver forwards to observer and disposes release once a terminal
// notification has been delivered.
type releaseObserver[T any] struct {
	observer Observer[T]
	release  Disposable
}

func (o releaseObserver[T]) OnNext(value T) {
	o.observer.OnNext(value)
}

func (o releaseObserver[T]) OnError(err error) {
	defer o.release.Dispose()
	o.observer.OnError(err)
}

func (o releaseObserver[T]) OnCompleted() {
	defer o.release.Dispose()
	o.observer.OnCompleted()
}
