package reactz

import "sync"

// SerialDisposable holds a replaceable inner disposable.
// Setting a new inner disposes the previous one. Once the serial is disposed,
// every inner assigned afterwards is disposed immediately.
type SerialDisposable struct {
	mu       sync.Mutex
	current  Disposable
	disposed bool
}

// NewSerialDisposable creates an empty SerialDisposable.
func NewSerialDisposable() *SerialDisposable {
	return &SerialDisposable{}
}

// Get returns the current inner disposable, or nil.
func (s *SerialDisposable) Get() Disposable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the inner disposable and disposes the previous one.
func (s *SerialDisposable) Set(d Disposable) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		if d != nil {
			d.Dispose()
		}
		return
	}
	previous := s.current
	s.current = d
	s.mu.Unlock()

	if previous != nil && previous != d {
		previous.Dispose()
	}
}

// IsDisposed reports whether Dispose has been called.
func (s *SerialDisposable) IsDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Dispose disposes the current inner disposable and every future one.
func (s *SerialDisposable) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		current.Dispose()
	}
}
