package reactz

import "sync"

// CompositeDisposable disposes a group of disposables together.
// Members added after the composite was disposed are disposed immediately.
type CompositeDisposable struct {
	mu       sync.Mutex
	members  []Disposable
	disposed bool
}

// NewCompositeDisposable creates a composite holding the given members.
func NewCompositeDisposable(members ...Disposable) *CompositeDisposable {
	c := &CompositeDisposable{
		members: make([]Disposable, 0, len(members)),
	}
	for _, d := range members {
		if d != nil {
			c.members = append(c.members, d)
		}
	}
	return c
}

// Add stores d, or disposes it right away when the composite is already disposed.
func (c *CompositeDisposable) Add(d Disposable) {
	if d == nil {
		return
	}

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		d.Dispose()
		return
	}
	c.members = append(c.members, d)
	c.mu.Unlock()
}

// Remove takes d out of the composite and disposes it.
// It reports whether d was a member.
func (c *CompositeDisposable) Remove(d Disposable) bool {
	if d == nil {
		return false
	}

	c.mu.Lock()
	found := false
	for i, m := range c.members {
		if m == d {
			copy(c.members[i:], c.members[i+1:])
			c.members[len(c.members)-1] = nil
			c.members = c.members[:len(c.members)-1]
			found = true
			break
		}
	}
	c.mu.Unlock()

	if found {
		d.Dispose()
	}
	return found
}

// Len returns the number of members currently held.
func (c *CompositeDisposable) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.members)
}

// IsDisposed reports whether Dispose has been called.
func (c *CompositeDisposable) IsDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// Dispose disposes every member exactly once and marks the composite disposed.
func (c *CompositeDisposable) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	members := c.members
	c.members = nil
	c.mu.Unlock()

	// Members are disposed outside the lock; a member may call back into Remove.
	for _, d := range members {
		d.Dispose()
	}
}
