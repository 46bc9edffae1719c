package reactz

// Just emits values and completes.
func Just[T any](values ...T) Observable[T] {
	return FromSlice(values)
}

// FromSlice emits the items of values in order and completes.
func FromSlice[T any](values []T) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		for _, v := range values {
			observer.OnNext(v)
		}
		observer.OnCompleted()
		return Empty()
	})
}

// EmptyObservable completes immediately without emitting.
func EmptyObservable[T any]() Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		observer.OnCompleted()
		return Empty()
	})
}

// Never neither emits nor terminates.
func Never[T any]() Observable[T] {
	return ObservableFunc[T](func(Observer[T]) Disposable {
		return Empty()
	})
}

// Throw fails immediately with err.
func Throw[T any](err error) Observable[T] {
	return Create(func(observer Observer[T]) Disposable {
		observer.OnError(err)
		return Empty()
	})
}
