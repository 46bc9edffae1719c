package testing

import (
	"sync"

	"github.com/zoobzio/reactz"
)

// Recorder is an Observer that stamps every notification it receives with
// the scheduler's current tick.
type Recorder[T any] struct {
	scheduler *Scheduler
	messages  []Recorded[T]
	mu        sync.Mutex
}

// NewRecorder creates a Recorder reading time from s.
func NewRecorder[T any](s *Scheduler) *Recorder[T] {
	return &Recorder[T]{scheduler: s}
}

func (r *Recorder[T]) OnNext(value T) {
	r.record(reactz.Next(value))
}

func (r *Recorder[T]) OnError(err error) {
	r.record(reactz.Error[T](err))
}

func (r *Recorder[T]) OnCompleted() {
	r.record(reactz.Completed[T]())
}

func (r *Recorder[T]) record(n reactz.Notification[T]) {
	at := r.scheduler.Clock()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Recorded[T]{Time: at, Notification: n})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder[T]) Messages() []Recorded[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded[T], len(r.messages))
	copy(out, r.messages)
	return out
}

// Values returns the recorded values, ignoring terminal notifications.
func (r *Recorder[T]) Values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []T
	for _, m := range r.messages {
		if m.Notification.Kind == reactz.KindNext {
			out = append(out, m.Notification.Value)
		}
	}
	return out
}
