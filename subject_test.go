package reactz

import (
	"errors"
	"testing"
)

type collector[T any] struct {
	values    []T
	err       error
	completed int
}

func (c *collector[T]) OnNext(v T)        { c.values = append(c.values, v) }
func (c *collector[T]) OnError(err error) { c.err = err }
func (c *collector[T]) OnCompleted()      { c.completed++ }

func TestSubjectLive(t *testing.T) {
	s := NewSubject[int]()
	a, b := &collector[int]{}, &collector[int]{}

	subA := s.Subscribe(a)
	s.Subscribe(b)
	if !s.HasObservers() {
		t.Fatal("expected observers")
	}

	s.OnNext(1)
	subA.Dispose()
	s.OnNext(2)
	s.OnCompleted()

	if len(a.values) != 1 || a.completed != 0 {
		t.Errorf("detached observer saw %v, completed %d", a.values, a.completed)
	}
	if len(b.values) != 2 || b.completed != 1 {
		t.Errorf("attached observer saw %v, completed %d", b.values, b.completed)
	}
	if s.HasObservers() {
		t.Error("terminated subject should release observers")
	}
}

func TestSubjectTerminalMemory(t *testing.T) {
	t.Run("completion", func(t *testing.T) {
		s := NewSubject[string]()
		s.OnNext("dropped")
		s.OnCompleted()
		s.OnNext("after")

		late := &collector[string]{}
		s.Subscribe(late)

		if len(late.values) != 0 {
			t.Errorf("late subscriber received values %v", late.values)
		}
		if late.completed != 1 {
			t.Errorf("expected one completion, got %d", late.completed)
		}
		if !s.IsTerminated() {
			t.Error("expected terminated subject")
		}
	})

	t.Run("error", func(t *testing.T) {
		errBoom := errors.New("boom")
		s := NewSubject[string]()
		s.OnError(errBoom)
		s.OnCompleted()

		late := &collector[string]{}
		s.Subscribe(late)

		if !errors.Is(late.err, errBoom) {
			t.Errorf("expected stored error, got %v", late.err)
		}
		if late.completed != 0 {
			t.Error("second terminal must be ignored")
		}
	})

	t.Run("dispose keeps terminal", func(t *testing.T) {
		s := NewSubject[int]()
		s.OnCompleted()
		s.Dispose()

		late := &collector[int]{}
		s.Subscribe(late)
		if late.completed != 1 {
			t.Error("disposing a terminated subject must keep its terminal")
		}
	})
}

func TestSubjectDisposed(t *testing.T) {
	s := NewSubject[int]()
	early := &collector[int]{}
	s.Subscribe(early)

	s.Dispose()
	s.OnNext(1)
	s.OnCompleted()

	late := &collector[int]{}
	s.Subscribe(late)

	for name, c := range map[string]*collector[int]{"early": early, "late": late} {
		if len(c.values) != 0 || c.completed != 0 || c.err != nil {
			t.Errorf("%s observer of disposed subject was notified: %+v", name, c)
		}
	}
	if s.IsTerminated() {
		t.Error("disposed subject is not terminated")
	}
}
