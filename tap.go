package reactz

import (
	"go.uber.org/zap"
)

// Tap runs a side effect for every notification of a stream while passing the
// stream through unchanged. It is meant for logging, tracing and counting:
// anything that observes without changing what flows downstream.
//
// The side effect receives the materialized Notification, so values, errors
// and completion are all visible to it. A panicking side effect is logged
// and the notification is still forwarded.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Tap[T any] struct {
	source Observable[T]
	fn     func(Notification[T])
	name   string
	logger *zap.Logger
}

// NewTap creates a Tap over source calling fn for each notification.
//
// When to use:
//   - Debug logging at a specific pipeline stage
//   - Counting groups or pairs as they are emitted
//   - Audit trails that must not alter the data
//
// Example:
//
//	var pairs atomic.Int64
//	counted := reactz.NewTap(joined, func(n reactz.Notification[Pair]) {
//		if n.Kind == reactz.KindNext {
//			pairs.Add(1)
//		}
//	}).WithName("pair-counter")
func NewTap[T any](source Observable[T], fn func(Notification[T])) *Tap[T] {
	return &Tap[T]{
		source: source,
		fn:     fn,
		name:   "tap",
		logger: zap.NewNop(),
	}
}

// WithName sets a custom name for this operator.
// If not set, defaults to "tap".
func (t *Tap[T]) WithName(name string) *Tap[T] {
	t.name = name
	return t
}

// WithLogger sets the logger used to report side-effect panics.
func (t *Tap[T]) WithLogger(logger *zap.Logger) *Tap[T] {
	t.logger = logger
	return t
}

// Name returns the operator name.
func (t *Tap[T]) Name() string {
	return t.name
}

// Subscribe attaches observer to the tapped stream.
func (t *Tap[T]) Subscribe(observer Observer[T]) Disposable {
	logger := operatorLogger(t.logger, t.name)
	return Create(func(o Observer[T]) Disposable {
		observe := func(n Notification[T]) {
			t.run(logger, n)
			n.Accept(o)
		}
		return t.source.Subscribe(ObserverFuncs[T]{
			Next:      func(v T) { observe(Next(v)) },
			Error:     func(err error) { observe(Error[T](err)) },
			Completed: func() { observe(Completed[T]()) },
		})
	}).Subscribe(observer)
}

func (t *Tap[T]) run(logger *zap.Logger, n Notification[T]) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("side effect panicked",
				zap.String("operator", t.name),
				zap.Stringer("notification", n),
				zap.Any("panic", r),
			)
		}
	}()
	t.fn(n)
}
