package testing

import "github.com/zoobzio/reactz"

// Default ticks used by Start.
const (
	Created    int64 = 100
	Subscribed int64 = 200
	Disposed   int64 = 1000
)

// Start builds the observable under test at Created, subscribes a Recorder
// at Subscribed and disposes the subscription at Disposed, running the
// scheduler to the end.
func Start[T any](s *Scheduler, create func() reactz.Observable[T]) *Recorder[T] {
	return StartAt(s, Created, Subscribed, Disposed, create)
}

// StartAt is Start with explicit ticks.
func StartAt[T any](s *Scheduler, created, subscribed, disposed int64, create func() reactz.Observable[T]) *Recorder[T] {
	recorder := NewRecorder[T](s)

	var source reactz.Observable[T]
	var subscription reactz.Disposable

	s.ScheduleAbsolute(created, func() {
		source = create()
	})
	s.ScheduleAbsolute(subscribed, func() {
		subscription = source.Subscribe(recorder)
	})
	s.ScheduleAbsolute(disposed, func() {
		subscription.Dispose()
	})

	s.Start()
	return recorder
}
