package reactz

import (
	"time"

	"github.com/zoobzio/clockz"
)

// Clock provides time operations; tests substitute clockz.NewFakeClock().
type Clock = clockz.Clock

// RealClock is the default Clock using standard time.
var RealClock Clock = clockz.RealClock

// Scheduler runs actions after a delay. The windowing operators never
// schedule anything themselves; time enters a pipeline through sources such
// as Timer, typically used as duration streams.
type Scheduler interface {
	// Now returns the scheduler's notion of the current time.
	Now() time.Time

	// Schedule runs action once delay has elapsed. Disposing the returned
	// handle before then cancels it.
	Schedule(action func(), delay time.Duration) Disposable
}

// ClockScheduler schedules actions on a Clock.
type ClockScheduler struct {
	clock Clock
}

// NewClockScheduler creates a Scheduler backed by clock.
func NewClockScheduler(clock Clock) *ClockScheduler {
	return &ClockScheduler{clock: clock}
}

// DefaultScheduler schedules on the real clock.
var DefaultScheduler Scheduler = NewClockScheduler(RealClock)

// Now returns the clock's current time.
func (s *ClockScheduler) Now() time.Time {
	return s.clock.Now()
}

// Schedule runs action on its own goroutine when delay elapses.
func (s *ClockScheduler) Schedule(action func(), delay time.Duration) Disposable {
	if delay < 0 {
		delay = 0
	}
	timer := s.clock.AfterFunc(delay, action)
	return NewDisposable(func() {
		timer.Stop()
	})
}

// Timer emits 0 once delay has elapsed on scheduler, then completes.
// It is the usual way to give a window a fixed lifetime.
//
// Example:
//
//	// Each request stays joinable for two seconds.
//	func(r Request) (reactz.Observable[int64], error) {
//		return reactz.Timer(2*time.Second, reactz.DefaultScheduler), nil
//	}
func Timer(delay time.Duration, scheduler Scheduler) Observable[int64] {
	return Create(func(observer Observer[int64]) Disposable {
		return scheduler.Schedule(func() {
			observer.OnNext(0)
			observer.OnCompleted()
		}, delay)
	})
}
