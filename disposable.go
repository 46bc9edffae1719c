package reactz

import "sync"

// NewDisposable returns a Disposable that runs fn the first time it is disposed.
func NewDisposable(fn func()) Disposable {
	return &actionDisposable{action: fn}
}

type actionDisposable struct {
	action func()
	once   sync.Once
}

func (d *actionDisposable) Dispose() {
	d.once.Do(func() {
		if d.action != nil {
			d.action()
		}
	})
}

// Empty returns a Disposable that does nothing.
func Empty() Disposable {
	return emptyDisposable{}
}

type emptyDisposable struct{}

func (emptyDisposable) Dispose() {}
