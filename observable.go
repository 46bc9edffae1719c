package reactz

// Create builds an Observable from a subscribe function.
//
// The observer passed to subscribe enforces the notification grammar: values
// sent after a terminal notification are dropped, and the Disposable returned
// by subscribe is disposed as soon as a terminal notification is delivered or
// the subscription is disposed, whichever comes first.
//
// Example:
//
//	ticks := reactz.Create(func(o reactz.Observer[int]) reactz.Disposable {
//		o.OnNext(1)
//		o.OnNext(2)
//		o.OnCompleted()
//		return reactz.Empty()
//	})
func Create[T any](subscribe func(observer Observer[T]) Disposable) Observable[T] {
	return ObservableFunc[T](func(observer Observer[T]) Disposable {
		detach := newAutoDetachObserver(observer)
		detach.subscription.Set(subscribe(detach))
		return detach
	})
}
