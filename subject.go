package reactz

import "sync"

type subjectState int

const (
	subjectLive subjectState = iota
	subjectTerminated
	subjectDisposed
)

// Subject forwards notifications to its current observers and remembers how
// it terminated.
//
// A Subject starts live. The first OnError or OnCompleted moves it to the
// terminated state, which is absorbing: later subscribers immediately receive
// the stored terminal notification and no values. Values are never replayed.
//
// Disposing a live Subject drops every observer without notifying it, and
// later subscribers receive nothing at all. Disposing a terminated Subject
// leaves it terminated.
type Subject[T any] struct {
	mu        sync.Mutex
	observers []*subjectSubscription[T]
	terminal  Notification[T]
	state     subjectState
}

// NewSubject creates a live Subject.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

type subjectSubscription[T any] struct {
	subject  *Subject[T]
	observer Observer[T]
}

func (s *subjectSubscription[T]) Dispose() {
	s.subject.remove(s)
}

// Subscribe attaches observer. On a terminated Subject the stored terminal
// notification is delivered before Subscribe returns.
func (s *Subject[T]) Subscribe(observer Observer[T]) Disposable {
	s.mu.Lock()
	switch s.state {
	case subjectTerminated:
		terminal := s.terminal
		s.mu.Unlock()
		terminal.Accept(observer)
		return Empty()
	case subjectDisposed:
		s.mu.Unlock()
		return Empty()
	}

	sub := &subjectSubscription[T]{subject: s, observer: observer}
	s.observers = append(s.observers, sub)
	s.mu.Unlock()
	return sub
}

// OnNext forwards value to every attached observer.
func (s *Subject[T]) OnNext(value T) {
	s.mu.Lock()
	if s.state != subjectLive {
		s.mu.Unlock()
		return
	}
	observers := append([]*subjectSubscription[T](nil), s.observers...)
	s.mu.Unlock()

	for _, sub := range observers {
		sub.observer.OnNext(value)
	}
}

// OnError terminates the Subject with err.
func (s *Subject[T]) OnError(err error) {
	s.terminate(Error[T](err))
}

// OnCompleted terminates the Subject successfully.
func (s *Subject[T]) OnCompleted() {
	s.terminate(Completed[T]())
}

func (s *Subject[T]) terminate(n Notification[T]) {
	s.mu.Lock()
	if s.state != subjectLive {
		s.mu.Unlock()
		return
	}
	s.state = subjectTerminated
	s.terminal = n
	observers := s.observers
	s.observers = nil
	s.mu.Unlock()

	for _, sub := range observers {
		n.Accept(sub.observer)
	}
}

// HasObservers reports whether any observer is attached.
func (s *Subject[T]) HasObservers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.observers) > 0
}

// IsTerminated reports whether the Subject received a terminal notification.
func (s *Subject[T]) IsTerminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == subjectTerminated
}

// Dispose drops every observer of a live Subject without notifying them.
func (s *Subject[T]) Dispose() {
	s.mu.Lock()
	if s.state != subjectLive {
		s.mu.Unlock()
		return
	}
	s.state = subjectDisposed
	s.observers = nil
	s.mu.Unlock()
}

func (s *Subject[T]) remove(target *subjectSubscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.observers {
		if sub == target {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}
