package reactz

// Map transforms each value of source with fn.
// A failing fn errors the result and unsubscribes from source.
//
// When to use:
//   - Type conversions between data representations
//   - Extracting fields or computing derived values
//   - Turning a duration stream's values into a common type
//
// Example:
//
//	lengths := reactz.Map(words, func(w string) (int, error) {
//		return len(w), nil
//	})
func Map[In, Out any](source Observable[In], fn func(In) (Out, error)) Observable[Out] {
	return Create(func(observer Observer[Out]) Disposable {
		return source.Subscribe(ObserverFuncs[In]{
			Next: func(value In) {
				out, err := fn(value)
				if err != nil {
					observer.OnError(err)
					return
				}
				observer.OnNext(out)
			},
			Error:     observer.OnError,
			Completed: observer.OnCompleted,
		})
	})
}

// Identity returns a selector that passes values through unchanged.
func Identity[T any]() func(T) (T, error) {
	return func(value T) (T, error) {
		return value, nil
	}
}
