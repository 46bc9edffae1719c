package reactz

import (
	"container/list"
	"sync"
)

// windowShape selects what a window hands to consumers.
type windowShape int

const (
	// shapeFlat windows only carry their owning value.
	shapeFlat windowShape = iota
	// shapeGrouped windows also carry a stream handed to consumers.
	shapeGrouped
)

// faultFanout selects who receives a fault besides the result observer.
type faultFanout int

const (
	// fanoutResult delivers the fault to the result observer only; open
	// window streams are disposed without a notification.
	fanoutResult faultFanout = iota
	// fanoutAll also errors every open window stream.
	fanoutAll
)

// windowStrategy is the tag that turns the two windowing engines into the
// four public operators.
type windowStrategy struct {
	// hasDuration windows close when their duration stream fires.
	hasDuration bool
	shape       windowShape
	// fanout applies to faults raised while handling source elements.
	fanout faultFanout
	// expiryFanout applies to faults raised while closing an expired window.
	expiryFanout faultFanout
}

var (
	groupByStrategy      = windowStrategy{shape: shapeGrouped, fanout: fanoutAll, expiryFanout: fanoutAll}
	groupByUntilStrategy = windowStrategy{hasDuration: true, shape: shapeGrouped, fanout: fanoutAll, expiryFanout: fanoutResult}
	joinStrategy         = windowStrategy{hasDuration: true, shape: shapeFlat, fanout: fanoutResult, expiryFanout: fanoutResult}
	groupJoinStrategy    = windowStrategy{hasDuration: true, shape: shapeGrouped, fanout: fanoutAll, expiryFanout: fanoutAll}
)

// window is the activity span of one group or one joined element.
// Windows are owned by an engine gate and are not safe for concurrent use.
type window[V, S any] struct {
	value    V
	stream   *windowStream[S]
	duration *SerialDisposable
	element  *list.Element
	active   bool
}

// watch subscribes to the window's duration stream and must be called from
// inside g. A duration that fires while it is being subscribed expires the
// window before watch returns; a later first notification posts onExpire
// into the gate. A nil error means the window simply expired.
func (w *window[V, S]) watch(source durationSource, durations *CompositeDisposable, g *gate, onExpire func(error)) {
	w.duration = NewSerialDisposable()
	durations.Add(w.duration)

	var (
		mu          sync.Mutex
		subscribing = true
		fired       bool
		firedErr    error
	)
	w.duration.Set(source.watch(func(err error) {
		mu.Lock()
		if subscribing {
			fired, firedErr = true, err
			mu.Unlock()
			return
		}
		mu.Unlock()
		g.post(func() { onExpire(err) })
	}))

	mu.Lock()
	subscribing = false
	mu.Unlock()
	if fired {
		onExpire(firedErr)
	}
}

// deactivate marks the window inactive and removes its duration subscription
// from durations, which disposes it. It reports whether the window was active.
func (w *window[V, S]) deactivate(durations *CompositeDisposable) bool {
	if !w.active {
		return false
	}
	w.active = false
	if w.duration != nil {
		durations.Remove(w.duration)
	}
	return true
}

// terminate ends the window's stream, with err or successfully when err is
// nil, and drops the stream from streams.
func (w *window[V, S]) terminate(streams *CompositeDisposable, err error) {
	if w.stream == nil {
		return
	}
	if err != nil {
		w.stream.subject.OnError(err)
	} else {
		w.stream.subject.OnCompleted()
	}
	streams.Remove(w.stream)
}

// windowList keeps active windows in arrival order.
type windowList[V, S any] struct {
	windows *list.List
}

func newWindowList[V, S any]() *windowList[V, S] {
	return &windowList[V, S]{windows: list.New()}
}

func (l *windowList[V, S]) add(w *window[V, S]) {
	w.element = l.windows.PushBack(w)
}

func (l *windowList[V, S]) remove(w *window[V, S]) {
	if w.element == nil {
		return
	}
	l.windows.Remove(w.element)
	w.element = nil
}

func (l *windowList[V, S]) len() int {
	return l.windows.Len()
}

// snapshot returns the active windows in arrival order.
func (l *windowList[V, S]) snapshot() []*window[V, S] {
	windows := make([]*window[V, S], 0, l.windows.Len())
	for el := l.windows.Front(); el != nil; el = el.Next() {
		windows = append(windows, el.Value.(*window[V, S])) //nolint:forcetypeassert // only windows are stored
	}
	return windows
}

func (l *windowList[V, S]) clear() {
	l.windows.Init()
}

// windowStream is the consumer-facing stream of a grouped window.
// Each subscription holds a reference on the engine's RefCountDisposable.
type windowStream[T any] struct {
	subject  *Subject[T]
	refCount *RefCountDisposable
	refs     *CompositeDisposable
}

func newWindowStream[T any](refCount *RefCountDisposable) *windowStream[T] {
	return &windowStream[T]{
		subject:  NewSubject[T](),
		refCount: refCount,
		refs:     NewCompositeDisposable(),
	}
}

// Subscribe attaches observer to the window. A window that already ended
// delivers its terminal notification only; a window torn down by disposal
// delivers nothing.
func (s *windowStream[T]) Subscribe(observer Observer[T]) Disposable {
	ref := s.refCount.GetDisposable()
	s.refs.Add(ref)
	sub := s.subject.Subscribe(releaseObserver[T]{observer: observer, release: ref})
	return NewDisposable(func() {
		sub.Dispose()
		s.refs.Remove(ref)
	})
}

// Dispose tears the window down: a live subject is disposed and every
// outstanding reference is released.
func (s *windowStream[T]) Dispose() {
	s.subject.Dispose()
	s.refs.Dispose()
}
