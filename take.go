package reactz

// Take emits the first count values of source, then completes and
// unsubscribes from source. A count of zero or less completes immediately.
//
// When to use:
//   - Limit processing to a sample of data
//   - Early termination of infinite streams
//
// Example:
//
//	// Only the first response counts.
//	first := reactz.Take(responses, 1)
func Take[T any](source Observable[T], count int) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		if count <= 0 {
			observer.OnCompleted()
			return Empty()
		}

		taken := 0
		return source.Subscribe(ObserverFuncs[T]{
			Next: func(value T) {
				if taken >= count {
					return
				}
				taken++
				observer.OnNext(value)
				if taken == count {
					observer.OnCompleted()
				}
			},
			Error:     observer.OnError,
			Completed: observer.OnCompleted,
		})
	})
}
