package reactz

// Merge combines several sources into one stream. Values are forwarded in
// the order they arrive, never concurrently. The result completes once every
// source has completed, and fails with the first source error, unsubscribing
// from the others.
//
// When to use:
//   - Collecting events from several producers into one correlation input
//   - Combining the close signals of several windows
//
// Example:
//
//	events := reactz.Merge(orders, refunds, adjustments)
func Merge[T any](sources ...Observable[T]) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		if len(sources) == 0 {
			observer.OnCompleted()
			return Empty()
		}

		g := &gate{}
		subscriptions := NewCompositeDisposable()
		remaining := len(sources)
		stopped := false

		for _, source := range sources {
			inner := NewSerialDisposable()
			subscriptions.Add(inner)
			inner.Set(source.Subscribe(ObserverFuncs[T]{
				Next: func(v T) {
					g.post(func() {
						if !stopped {
							observer.OnNext(v)
						}
					})
				},
				Error: func(err error) {
					g.post(func() {
						if stopped {
							return
						}
						stopped = true
						observer.OnError(err)
					})
				},
				Completed: func() {
					g.post(func() {
						if stopped {
							return
						}
						subscriptions.Remove(inner)
						remaining--
						if remaining == 0 {
							stopped = true
							observer.OnCompleted()
						}
					})
				},
			}))
		}
		return subscriptions
	})
}
