// Package testing provides a deterministic virtual-time harness for reactz.
//
// Time is measured in ticks. A Scheduler runs scheduled actions in tick
// order, and in scheduling order for equal ticks, on the goroutine that
// advances it. Hot and cold observables replay recorded notifications at
// fixed ticks and remember when they were subscribed and unsubscribed, and a
// Recorder captures what an operator emitted and when.
//
// Example:
//
//	s := rxtest.NewScheduler()
//	xs := rxtest.NewHotObservable(s,
//		rxtest.OnNext(210, 1),
//		rxtest.OnCompleted[int](250),
//	)
//	res := rxtest.Start(s, func() reactz.Observable[int] { return xs })
//	rxtest.AssertMessages(t, []rxtest.Recorded[int]{
//		rxtest.OnNext(210, 1),
//		rxtest.OnCompleted[int](250),
//	}, res.Messages())
package testing

import (
	"container/heap"
	"math"
	"sync"
	"time"

	"github.com/zoobzio/reactz"
)

// Scheduler is a reactz.Scheduler driven by virtual time.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Scheduler struct {
	mu      sync.Mutex
	clock   int64
	seq     uint64
	waiters waiterQueue
}

// waiter represents an action waiting for a specific tick.
type waiter struct {
	action func()
	target int64
	seq    uint64
	index  int
	active bool
}

// NewScheduler creates a Scheduler at tick 0.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Clock returns the current tick.
func (s *Scheduler) Clock() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

// Now returns the current tick as a time, one tick per nanosecond.
func (s *Scheduler) Now() time.Time {
	return time.Unix(0, s.Clock()).UTC()
}

// Schedule runs action delay ticks from now.
func (s *Scheduler) Schedule(action func(), delay time.Duration) reactz.Disposable {
	s.mu.Lock()
	target := s.clock + int64(delay)
	s.mu.Unlock()
	return s.ScheduleAbsolute(target, action)
}

// ScheduleAbsolute runs action at tick at, or at the current tick if at has
// already passed.
func (s *Scheduler) ScheduleAbsolute(at int64, action func()) reactz.Disposable {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at < s.clock {
		at = s.clock
	}
	w := &waiter{
		action: action,
		target: at,
		seq:    s.seq,
		active: true,
	}
	s.seq++
	heap.Push(&s.waiters, w)

	return reactz.NewDisposable(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		w.active = false
	})
}

// AdvanceTo runs every action due up to and including tick t, then sets the
// clock to t.
func (s *Scheduler) AdvanceTo(t int64) {
	for {
		s.mu.Lock()
		w := s.next(t)
		if w == nil {
			if t > s.clock {
				s.clock = t
			}
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		w.action()
	}
}

// AdvanceBy moves the clock forward by d ticks.
func (s *Scheduler) AdvanceBy(d int64) {
	s.AdvanceTo(s.Clock() + d)
}

// Start runs actions until none are left.
func (s *Scheduler) Start() {
	for {
		s.mu.Lock()
		w := s.next(math.MaxInt64)
		s.mu.Unlock()
		if w == nil {
			return
		}

		w.action()
	}
}

// HasWaiters reports whether any active action is pending.
func (s *Scheduler) HasWaiters() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.waiters {
		if w.active {
			return true
		}
	}
	return false
}

// next removes the earliest active waiter due by limit and moves the clock
// to its tick. It returns nil when there is none. Caller must hold s.mu.
func (s *Scheduler) next(limit int64) *waiter {
	for len(s.waiters) > 0 {
		head := s.waiters[0]
		if !head.active {
			heap.Pop(&s.waiters)
			continue
		}
		if head.target > limit {
			return nil
		}
		heap.Pop(&s.waiters)
		head.active = false
		if head.target > s.clock {
			s.clock = head.target
		}
		return head
	}
	return nil
}

// waiterQueue orders waiters by tick, then by scheduling order.
type waiterQueue []*waiter

func (q waiterQueue) Len() int { return len(q) }

func (q waiterQueue) Less(i, j int) bool {
	if q[i].target != q[j].target {
		return q[i].target < q[j].target
	}
	return q[i].seq < q[j].seq
}

func (q waiterQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *waiterQueue) Push(x any) {
	w := x.(*waiter) //nolint:forcetypeassert // waiterQueue only holds waiters
	w.index = len(*q)
	*q = append(*q, w)
}

func (q *waiterQueue) Pop() any {
	old := *q
	n := len(old)
	w := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return w
}
