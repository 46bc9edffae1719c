package reactz

// Skip discards the first count values of source.
// After skipping count values, all subsequent values are passed through.
//
// When to use:
//   - Skip warm-up data at the start of a stream
//   - Close a group after its n-th element: Skip(group, n-1) fires on it
//
// Example:
//
//	// A group lasts for three elements.
//	byKey := reactz.NewGroupByUntil(events, keyOf, reactz.Identity[Event](),
//		func(g *reactz.Group[string, Event]) (reactz.Observable[Event], error) {
//			return reactz.Skip[Event](g, 2), nil
//		})
func Skip[T any](source Observable[T], count int) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		skipped := 0
		return source.Subscribe(ObserverFuncs[T]{
			Next: func(value T) {
				if skipped < count {
					skipped++
					return
				}
				observer.OnNext(value)
			},
			Error:     observer.OnError,
			Completed: observer.OnCompleted,
		})
	})
}
