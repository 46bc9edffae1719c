package reactz

import "sync"

// RefCountDisposable disposes its primary disposable only after the owner has
// released it with Dispose and every reference issued by GetDisposable has
// been disposed as well.
//
// Group and window streams handed to consumers take a reference for each
// subscription, which keeps the operator's upstream subscriptions alive until
// the last of them goes away.
type RefCountDisposable struct {
	mu       sync.Mutex
	primary  Disposable
	count    int
	released bool
	disposed bool
}

// NewRefCountDisposable wraps primary.
func NewRefCountDisposable(primary Disposable) *RefCountDisposable {
	return &RefCountDisposable{primary: primary}
}

// GetDisposable issues a reference. A reference requested after the primary
// has been disposed is a no-op handle.
func (r *RefCountDisposable) GetDisposable() Disposable {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.disposed {
		return Empty()
	}
	r.count++
	return NewDisposable(r.release)
}

// IsDisposed reports whether the primary has been disposed.
func (r *RefCountDisposable) IsDisposed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disposed
}

// Dispose signals that the owner issues no more references. The primary is
// disposed now if no reference is outstanding, otherwise when the last one is.
func (r *RefCountDisposable) Dispose() {
	r.mu.Lock()
	if r.released || r.disposed {
		r.mu.Unlock()
		return
	}
	r.released = true
	primary := r.takePrimaryLocked()
	r.mu.Unlock()

	if primary != nil {
		primary.Dispose()
	}
}

func (r *RefCountDisposable) release() {
	r.mu.Lock()
	if r.disposed {
		r.mu.Unlock()
		return
	}
	r.count--
	primary := r.takePrimaryLocked()
	r.mu.Unlock()

	if primary != nil {
		primary.Dispose()
	}
}

// takePrimaryLocked hands out the primary once the release conditions hold.
// Caller must hold r.mu.
func (r *RefCountDisposable) takePrimaryLocked() Disposable {
	if !r.released || r.count > 0 {
		return nil
	}
	r.disposed = true
	primary := r.primary
	r.primary = nil
	return primary
}
