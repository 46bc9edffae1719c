package reactz

// Filter passes through the values of source for which predicate returns true.
// Values that don't match are discarded; terminal notifications pass through.
//
// When to use:
//   - Remove invalid or unwanted data from streams
//   - Build a duration stream that fires on a specific value
//
// Example:
//
//	// Close each group when its first error entry shows up.
//	errorsOnly := reactz.Filter[LogEntry](group, func(e LogEntry) bool {
//		return e.Level == "ERROR"
//	})
func Filter[T any](source Observable[T], predicate func(T) bool) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		return source.Subscribe(ObserverFuncs[T]{
			Next: func(value T) {
				if predicate(value) {
					observer.OnNext(value)
				}
			},
			Error:     observer.OnError,
			Completed: observer.OnCompleted,
		})
	})
}
