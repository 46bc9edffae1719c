// Package reactz provides push-based, composable asynchronous streams.
//
// A producer emits zero or more values followed by at most one terminal
// notification (an error or a completion). Consumers attach an Observer to an
// Observable and receive a Disposable that tears the subscription down.
//
// The heart of the package is a windowing engine that dynamically creates,
// keys and time-bounds sub-streams:
//
//   - GroupBy / GroupByUntil split a stream into keyed groups, optionally
//     closing each group when its own duration stream fires.
//   - Join / GroupJoin correlate two streams by overlapping windows, each
//     window bounded by a per-element duration stream.
//
// Every operator relies on the disposable composition primitives
// (CompositeDisposable, SerialDisposable, RefCountDisposable) for exactly-once,
// leak-free teardown.
//
// Basic usage:
//
//	orders := reactz.FromSlice([]Order{...})
//
//	byCustomer := reactz.NewGroupBy(orders,
//		func(o Order) (string, error) { return o.CustomerID, nil },
//		func(o Order) (Order, error) { return o, nil },
//	).WithName("orders-by-customer")
//
//	sub := reactz.Subscribe[*reactz.Group[string, Order]](byCustomer,
//		func(g *reactz.Group[string, Order]) {
//			reactz.Subscribe[Order](g, func(o Order) {
//				fmt.Printf("%s: %v\n", g.Key(), o)
//			}, nil, nil)
//		},
//		func(err error) { log.Printf("grouping failed: %v", err) },
//		nil,
//	)
//	defer sub.Dispose()
//
// Downstream notifications of a single subscription are never delivered
// concurrently: each operator subscription owns a serialization gate through
// which every source event passes.
package reactz

// Observer receives the notifications of a stream.
// An Observable calls OnNext zero or more times followed by at most one call
// to OnError or OnCompleted. Calls are never overlapped.
type Observer[T any] interface {
	// OnNext delivers the next value of the stream.
	OnNext(value T)

	// OnError terminates the stream with a failure.
	OnError(err error)

	// OnCompleted terminates the stream successfully.
	OnCompleted()
}

// Observable is a push source of values of type T.
type Observable[T any] interface {
	// Subscribe attaches an observer and returns the handle that tears the
	// subscription down. Disposing the handle more than once has no effect.
	Subscribe(observer Observer[T]) Disposable
}

// Disposable is an idempotent teardown handle.
type Disposable interface {
	Dispose()
}

// ObservableFunc adapts a subscribe function to the Observable interface.
type ObservableFunc[T any] func(observer Observer[T]) Disposable

// Subscribe calls f(observer).
func (f ObservableFunc[T]) Subscribe(observer Observer[T]) Disposable {
	return f(observer)
}

// ObserverFuncs adapts plain callbacks to the Observer interface.
// Nil callbacks are ignored.
type ObserverFuncs[T any] struct {
	Next      func(T)
	Error     func(error)
	Completed func()
}

func (o ObserverFuncs[T]) OnNext(value T) {
	if o.Next != nil {
		o.Next(value)
	}
}

func (o ObserverFuncs[T]) OnError(err error) {
	if o.Error != nil {
		o.Error(err)
	}
}

func (o ObserverFuncs[T]) OnCompleted() {
	if o.Completed != nil {
		o.Completed()
	}
}

// Subscribe attaches callbacks to source. Any callback may be nil.
func Subscribe[T any](source Observable[T], onNext func(T), onError func(error), onCompleted func()) Disposable {
	return source.Subscribe(ObserverFuncs[T]{
		Next:      onNext,
		Error:     onError,
		Completed: onCompleted,
	})
}
