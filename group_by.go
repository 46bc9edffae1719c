package reactz

import (
	"sync/atomic"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

// GroupBy splits a stream into keyed groups.
//
// Each element is mapped to a key; the first element of an unseen key opens a
// new Group, which is emitted downstream, and every element is then pushed
// into the Group of its key. Groups end when the source ends. When built with
// NewGroupByUntil each Group also ends when its own duration stream fires,
// and a later element with the same key opens a fresh Group.
//
// Any selector or comparer failure errors the result and every open Group,
// then tears the subscription down. A comparer failure raised while removing
// an expired Group errors the result only.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type GroupBy[T any, K comparable, V any] struct {
	source           Observable[T]
	keySelector      func(T) (K, error)
	elementSelector  func(T) (V, error)
	durationSelector func(*Group[K, V]) (durationSource, error)
	comparer         Comparer[K]
	capacity         int
	strategy         windowStrategy
	name             string
	logger           *zap.Logger
	metrics          *windowMetrics
}

// NewGroupBy creates an operator grouping source by keySelector. Groups carry
// the elements produced by elementSelector and stay open until the source ends.
//
// When to use:
//   - Fan a mixed event stream out into per-entity streams
//   - Aggregate per key without knowing the key set upfront
//
// Example:
//
//	byLevel := reactz.NewGroupBy(entries,
//		func(e LogEntry) (string, error) { return e.Level, nil },
//		func(e LogEntry) (string, error) { return e.Message, nil },
//	)
//
// Default configuration:
//   - Comparer: ==
//   - Capacity: 0
//   - Name: "group-by"
func NewGroupBy[T any, K comparable, V any](source Observable[T], keySelector func(T) (K, error), elementSelector func(T) (V, error)) *GroupBy[T, K, V] {
	return &GroupBy[T, K, V]{
		source:          source,
		keySelector:     keySelector,
		elementSelector: elementSelector,
		strategy:        groupByStrategy,
		name:            "group-by",
		logger:          zap.NewNop(),
		metrics:         newWindowMetrics(tally.NoopScope, "groups"),
	}
}

// NewGroupByUntil creates an operator like NewGroupBy whose groups also end
// when the stream returned by durationSelector for the group emits its first
// notification. A duration stream that fails errors only its own group.
//
// Example:
//
//	// Close a session group after five minutes of existence.
//	sessions := reactz.NewGroupByUntil(clicks, sessionOf, reactz.Identity[Click](),
//		func(g *reactz.Group[string, Click]) (reactz.Observable[int64], error) {
//			return reactz.Timer(5*time.Minute, scheduler), nil
//		})
//
// Default configuration matches NewGroupBy, with Name "group-by-until".
func NewGroupByUntil[T any, K comparable, V, D any](
	source Observable[T],
	keySelector func(T) (K, error),
	elementSelector func(T) (V, error),
	durationSelector func(*Group[K, V]) (Observable[D], error),
) *GroupBy[T, K, V] {
	g := NewGroupBy(source, keySelector, elementSelector)
	g.durationSelector = eraseDuration(durationSelector)
	g.strategy = groupByUntilStrategy
	g.name = "group-by-until"
	return g
}

// WithComparer matches keys with comparer instead of ==.
func (g *GroupBy[T, K, V]) WithComparer(comparer Comparer[K]) *GroupBy[T, K, V] {
	g.comparer = comparer
	return g
}

// WithCapacity sets the expected number of concurrently open groups.
func (g *GroupBy[T, K, V]) WithCapacity(capacity int) *GroupBy[T, K, V] {
	g.capacity = capacity
	return g
}

// WithName sets a custom name used in errors, logs and metrics.
func (g *GroupBy[T, K, V]) WithName(name string) *GroupBy[T, K, V] {
	g.name = name
	return g
}

// WithLogger logs group lifecycle and faults to logger.
func (g *GroupBy[T, K, V]) WithLogger(logger *zap.Logger) *GroupBy[T, K, V] {
	g.logger = logger
	return g
}

// WithMetrics reports group lifecycle and faults to scope.
func (g *GroupBy[T, K, V]) WithMetrics(scope tally.Scope) *GroupBy[T, K, V] {
	g.metrics = newWindowMetrics(scope, "groups")
	return g
}

// Name returns the operator name.
func (g *GroupBy[T, K, V]) Name() string {
	return g.name
}

// Subscribe starts grouping for observer.
func (g *GroupBy[T, K, V]) Subscribe(observer Observer[*Group[K, V]]) Disposable {
	e := &groupEngine[T, K, V]{
		op:        g,
		observer:  observer,
		logger:    operatorLogger(g.logger, g.name),
		groups:    newKeyMap[K, *window[*Group[K, V], V]](g.comparer, g.capacity),
		source:    NewSerialDisposable(),
		durations: NewCompositeDisposable(),
		streams:   NewCompositeDisposable(),
	}
	e.refCount = NewRefCountDisposable(e.source)
	// The owner's hold on refCount goes first; disposing the streams then
	// forces out the references of open subscriptions, and the last one
	// disposes the sources.
	e.subscription = NewCompositeDisposable(e.refCount, e.durations, e.streams)

	e.source.Set(g.source.Subscribe(groupSourceObserver[T, K, V]{e}))
	return NewDisposable(e.dispose)
}

// groupEngine runs one subscription of a GroupBy. Every field below gate is
// only touched inside the gate.
type groupEngine[T any, K comparable, V any] struct {
	op       *GroupBy[T, K, V]
	observer Observer[*Group[K, V]]
	logger   *zap.Logger

	// source is the primary of refCount; group subscriptions hold references.
	source       *SerialDisposable
	durations    *CompositeDisposable
	streams      *CompositeDisposable
	refCount     *RefCountDisposable
	subscription *CompositeDisposable
	disposed     atomic.Bool

	gate   gate
	groups *keyMap[K, *window[*Group[K, V], V]]
	done   bool
}

type groupSourceObserver[T any, K comparable, V any] struct {
	e *groupEngine[T, K, V]
}

func (o groupSourceObserver[T, K, V]) OnNext(value T) {
	o.e.gate.post(func() { o.e.onNext(value) })
}

func (o groupSourceObserver[T, K, V]) OnError(err error) {
	o.e.gate.post(func() { o.e.fail(err, fanoutAll) })
}

func (o groupSourceObserver[T, K, V]) OnCompleted() {
	o.e.gate.post(o.e.onCompleted)
}

func (e *groupEngine[T, K, V]) stopped() bool {
	return e.done || e.disposed.Load()
}

func (e *groupEngine[T, K, V]) onNext(value T) {
	if e.stopped() {
		return
	}

	key, err := e.op.keySelector(value)
	if err != nil {
		e.fail(newStreamError(SelectorFault, e.op.name, "key selector", err), e.op.strategy.fanout)
		return
	}

	w, found, err := e.groups.Get(key)
	if err != nil {
		e.fail(newStreamError(ComparerFault, e.op.name, "comparer", err), e.op.strategy.fanout)
		return
	}
	if !found {
		if w = e.open(key); w == nil {
			return
		}
	}
	if e.stopped() {
		return
	}

	element, err := e.op.elementSelector(value)
	if err != nil {
		e.fail(newStreamError(SelectorFault, e.op.name, "element selector", err), e.op.strategy.fanout)
		return
	}
	w.stream.subject.OnNext(element)
}

// open creates the group for key, emits it and starts watching its duration.
// It returns nil when the operator failed or was disposed meanwhile.
func (e *groupEngine[T, K, V]) open(key K) *window[*Group[K, V], V] {
	stream := newWindowStream[V](e.refCount)
	group := &Group[K, V]{key: key, stream: stream}
	w := &window[*Group[K, V], V]{value: group, stream: stream, active: true}

	if err := e.groups.Put(key, w); err != nil {
		e.fail(newStreamError(ComparerFault, e.op.name, "comparer", err), e.op.strategy.fanout)
		return nil
	}
	e.streams.Add(stream)
	e.op.metrics.windowOpened()
	e.logger.Debug(logWindowOpened, zap.Any("key", key))

	var duration durationSource
	if e.op.strategy.hasDuration {
		var err error
		if duration, err = e.op.durationSelector(group); err != nil {
			e.fail(newStreamError(SelectorFault, e.op.name, "duration selector", err), e.op.strategy.fanout)
			return nil
		}
	}

	e.observer.OnNext(group)
	if e.stopped() {
		return nil
	}

	if duration != nil {
		w.watch(duration, e.durations, &e.gate, func(err error) { e.expire(w, err) })
	}
	return w
}

// expire closes a group whose duration stream fired. A failing duration
// stream errors the group alone.
func (e *groupEngine[T, K, V]) expire(w *window[*Group[K, V], V], err error) {
	if e.stopped() || !w.active {
		return
	}

	if _, _, cerr := e.groups.Delete(w.value.key); cerr != nil {
		e.fail(newStreamError(ComparerFault, e.op.name, "comparer", cerr), e.op.strategy.expiryFanout)
		return
	}
	e.close(w, err)
}

func (e *groupEngine[T, K, V]) close(w *window[*Group[K, V], V], err error) {
	if !w.deactivate(e.durations) {
		return
	}
	w.terminate(e.streams, err)
	e.op.metrics.windowClosed()
	e.logger.Debug(logWindowClosed, zap.Any("key", w.value.key), zap.Error(err))
}

func (e *groupEngine[T, K, V]) onCompleted() {
	if e.stopped() {
		return
	}
	e.done = true

	for _, w := range e.groups.Values() {
		e.close(w, nil)
	}
	e.groups.Clear()
	e.observer.OnCompleted()
	e.subscription.Dispose()
}

// fail errors the result, and the open groups when fanout says so, then
// tears the subscription down.
func (e *groupEngine[T, K, V]) fail(err error, fanout faultFanout) {
	if e.stopped() {
		return
	}
	e.done = true
	e.op.metrics.fault(faultKindOf(err))
	logFaultEvent(e.logger, e.op.name, err)

	if fanout == fanoutAll {
		for _, w := range e.groups.Values() {
			e.close(w, err)
		}
	}
	e.release()
	e.observer.OnError(err)
	e.subscription.Dispose()
}

// release forgets every group still open. Their streams are disposed with
// the subscription.
func (e *groupEngine[T, K, V]) release() {
	for _, w := range e.groups.Values() {
		if w.active {
			w.active = false
			e.op.metrics.windowClosed()
		}
	}
	e.groups.Clear()
}

func (e *groupEngine[T, K, V]) dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.subscription.Dispose()
	e.gate.post(e.release)
}
