package reactz

import (
	"sync/atomic"

	"github.com/uber-go/tally/v4"
	"go.uber.org/zap"
)

// Join correlates two streams by overlapping windows.
//
// Every element of either source opens a window that lasts until the stream
// returned by its duration selector emits its first notification. Built with
// NewJoin, each arrival is paired with every active window of the opposite
// side. Built with NewGroupJoin, each left element is handed to the selector
// together with a stream of the right values that overlap its window.
//
// The result completes once both sources have completed and no window is
// active. A source error, a failing duration stream or any selector failure
// errors the result once and tears everything down.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type Join[L, R, O any] struct {
	left          Observable[L]
	right         Observable[R]
	leftDuration  func(L) (durationSource, error)
	rightDuration func(R) (durationSource, error)
	pairSelector  func(L, R) (O, error)
	groupSelector func(L, Observable[R]) (O, error)
	strategy      windowStrategy
	name          string
	logger        *zap.Logger
	metrics       *windowMetrics
}

// NewJoin creates an operator emitting selector(l, r) for every left element l
// and right element r whose windows overlap.
//
// When to use:
//   - Correlate requests with responses that arrive within a deadline
//   - Match events of two feeds that happen close in time
//
// Example:
//
//	matched := reactz.NewJoin(requests, responses,
//		func(Request) (reactz.Observable[int64], error) { return reactz.Timer(time.Second, s), nil },
//		func(Response) (reactz.Observable[int64], error) { return reactz.Timer(0, s), nil },
//		func(req Request, resp Response) (Exchange, error) { return Exchange{req, resp}, nil },
//	)
//
// Default configuration:
//   - Name: "join"
func NewJoin[L, R, LD, RD, O any](
	left Observable[L],
	right Observable[R],
	leftDuration func(L) (Observable[LD], error),
	rightDuration func(R) (Observable[RD], error),
	selector func(L, R) (O, error),
) *Join[L, R, O] {
	return &Join[L, R, O]{
		left:          left,
		right:         right,
		leftDuration:  eraseDuration(leftDuration),
		rightDuration: eraseDuration(rightDuration),
		pairSelector:  selector,
		strategy:      joinStrategy,
		name:          "join",
		logger:        zap.NewNop(),
		metrics:       newWindowMetrics(tally.NoopScope, "windows"),
	}
}

// NewGroupJoin creates an operator emitting selector(l, window) for every left
// element l, where window streams the right values active during l's window.
// Right values already active when l arrives are pushed into the window right
// after selector's result is emitted, so an observer subscribing to the
// window from within OnNext sees them. The window completes when l's window
// expires.
//
// Default configuration:
//   - Name: "group-join"
func NewGroupJoin[L, R, LD, RD, O any](
	left Observable[L],
	right Observable[R],
	leftDuration func(L) (Observable[LD], error),
	rightDuration func(R) (Observable[RD], error),
	selector func(L, Observable[R]) (O, error),
) *Join[L, R, O] {
	return &Join[L, R, O]{
		left:          left,
		right:         right,
		leftDuration:  eraseDuration(leftDuration),
		rightDuration: eraseDuration(rightDuration),
		groupSelector: selector,
		strategy:      groupJoinStrategy,
		name:          "group-join",
		logger:        zap.NewNop(),
		metrics:       newWindowMetrics(tally.NoopScope, "windows"),
	}
}

// WithName sets a custom name used in errors, logs and metrics.
func (j *Join[L, R, O]) WithName(name string) *Join[L, R, O] {
	j.name = name
	return j
}

// WithLogger logs window lifecycle and faults to logger.
func (j *Join[L, R, O]) WithLogger(logger *zap.Logger) *Join[L, R, O] {
	j.logger = logger
	return j
}

// WithMetrics reports window lifecycle and faults to scope.
func (j *Join[L, R, O]) WithMetrics(scope tally.Scope) *Join[L, R, O] {
	j.metrics = newWindowMetrics(scope, "windows")
	return j
}

// Name returns the operator name.
func (j *Join[L, R, O]) Name() string {
	return j.name
}

// Subscribe starts correlating for observer.
func (j *Join[L, R, O]) Subscribe(observer Observer[O]) Disposable {
	e := &joinEngine[L, R, O]{
		op:           j,
		observer:     observer,
		logger:       operatorLogger(j.logger, j.name),
		leftSource:   NewSerialDisposable(),
		rightSource:  NewSerialDisposable(),
		durations:    NewCompositeDisposable(),
		streams:      NewCompositeDisposable(),
		leftWindows:  newWindowList[L, R](),
		rightWindows: newWindowList[R, struct{}](),
	}
	e.refCount = NewRefCountDisposable(NewCompositeDisposable(e.leftSource, e.rightSource))
	// The owner's hold on refCount goes first; disposing the streams then
	// forces out the references of open subscriptions, and the last one
	// disposes the sources.
	e.subscription = NewCompositeDisposable(e.refCount, e.durations, e.streams)

	e.leftSource.Set(j.left.Subscribe(leftObserver[L, R, O]{e}))
	e.rightSource.Set(j.right.Subscribe(rightObserver[L, R, O]{e}))
	return NewDisposable(e.dispose)
}

// joinEngine runs one subscription of a Join. Every field below gate is only
// touched inside the gate.
type joinEngine[L, R, O any] struct {
	op       *Join[L, R, O]
	observer Observer[O]
	logger   *zap.Logger

	leftSource   *SerialDisposable
	rightSource  *SerialDisposable
	durations    *CompositeDisposable
	streams      *CompositeDisposable
	refCount     *RefCountDisposable
	subscription *CompositeDisposable
	disposed     atomic.Bool

	gate         gate
	leftWindows  *windowList[L, R]
	rightWindows *windowList[R, struct{}]
	leftDone     bool
	rightDone    bool
	done         bool
}

type leftObserver[L, R, O any] struct {
	e *joinEngine[L, R, O]
}

func (o leftObserver[L, R, O]) OnNext(value L) {
	o.e.gate.post(func() { o.e.onLeft(value) })
}

func (o leftObserver[L, R, O]) OnError(err error) {
	o.e.gate.post(func() { o.e.fail(err) })
}

func (o leftObserver[L, R, O]) OnCompleted() {
	o.e.gate.post(func() {
		o.e.leftDone = true
		o.e.leftSource.Dispose()
		o.e.completeIfIdle()
	})
}

type rightObserver[L, R, O any] struct {
	e *joinEngine[L, R, O]
}

func (o rightObserver[L, R, O]) OnNext(value R) {
	o.e.gate.post(func() { o.e.onRight(value) })
}

func (o rightObserver[L, R, O]) OnError(err error) {
	o.e.gate.post(func() { o.e.fail(err) })
}

func (o rightObserver[L, R, O]) OnCompleted() {
	o.e.gate.post(func() {
		o.e.rightDone = true
		o.e.rightSource.Dispose()
		o.e.completeIfIdle()
	})
}

func (e *joinEngine[L, R, O]) stopped() bool {
	return e.done || e.disposed.Load()
}

func (e *joinEngine[L, R, O]) onLeft(value L) {
	if e.stopped() {
		return
	}

	w := &window[L, R]{value: value, active: true}
	if e.op.strategy.shape == shapeGrouped {
		w.stream = newWindowStream[R](e.refCount)
		e.streams.Add(w.stream)
	}
	e.leftWindows.add(w)
	e.op.metrics.windowOpened()
	e.logger.Debug(logWindowOpened, zap.String("side", "left"))

	duration, err := e.op.leftDuration(value)
	if err != nil {
		e.fail(newStreamError(SelectorFault, e.op.name, "left duration selector", err))
		return
	}
	w.watch(duration, e.durations, &e.gate, func(err error) { e.expireLeft(w, err) })
	if e.stopped() {
		return
	}

	rights := e.rightWindows.snapshot()
	if e.op.strategy.shape == shapeFlat {
		for _, r := range rights {
			result, err := e.op.pairSelector(value, r.value)
			if err != nil {
				e.fail(newStreamError(SelectorFault, e.op.name, "result selector", err))
				return
			}
			e.observer.OnNext(result)
			if e.stopped() {
				return
			}
		}
		return
	}

	result, err := e.op.groupSelector(value, w.stream)
	if err != nil {
		e.fail(newStreamError(SelectorFault, e.op.name, "result selector", err))
		return
	}
	e.observer.OnNext(result)
	for _, r := range rights {
		if e.stopped() {
			return
		}
		w.stream.subject.OnNext(r.value)
	}
}

func (e *joinEngine[L, R, O]) onRight(value R) {
	if e.stopped() {
		return
	}

	w := &window[R, struct{}]{value: value, active: true}
	e.rightWindows.add(w)
	e.op.metrics.windowOpened()
	e.logger.Debug(logWindowOpened, zap.String("side", "right"))

	duration, err := e.op.rightDuration(value)
	if err != nil {
		e.fail(newStreamError(SelectorFault, e.op.name, "right duration selector", err))
		return
	}
	w.watch(duration, e.durations, &e.gate, func(err error) { e.expireRight(w, err) })
	if e.stopped() {
		return
	}

	for _, l := range e.leftWindows.snapshot() {
		if e.stopped() {
			return
		}
		if e.op.strategy.shape == shapeGrouped {
			l.stream.subject.OnNext(value)
			continue
		}
		result, err := e.op.pairSelector(l.value, value)
		if err != nil {
			e.fail(newStreamError(SelectorFault, e.op.name, "result selector", err))
			return
		}
		e.observer.OnNext(result)
	}
}

// expireLeft closes a left window whose duration fired. A failing duration
// stream fails the whole operator.
func (e *joinEngine[L, R, O]) expireLeft(w *window[L, R], err error) {
	if e.stopped() || !w.active {
		return
	}
	if err != nil {
		e.fail(err)
		return
	}

	e.leftWindows.remove(w)
	w.deactivate(e.durations)
	w.terminate(e.streams, nil)
	e.op.metrics.windowClosed()
	e.logger.Debug(logWindowClosed, zap.String("side", "left"))
	e.completeIfIdle()
}

func (e *joinEngine[L, R, O]) expireRight(w *window[R, struct{}], err error) {
	if e.stopped() || !w.active {
		return
	}
	if err != nil {
		e.fail(err)
		return
	}

	e.rightWindows.remove(w)
	w.deactivate(e.durations)
	e.op.metrics.windowClosed()
	e.logger.Debug(logWindowClosed, zap.String("side", "right"))
	e.completeIfIdle()
}

// completeIfIdle completes the result once both sources are done and every
// window has expired.
func (e *joinEngine[L, R, O]) completeIfIdle() {
	if e.stopped() || !e.leftDone || !e.rightDone {
		return
	}
	if e.leftWindows.len() > 0 || e.rightWindows.len() > 0 {
		return
	}
	e.done = true
	e.observer.OnCompleted()
	e.subscription.Dispose()
}

// fail errors the open left windows of a group join and the result, then
// tears the subscription down.
func (e *joinEngine[L, R, O]) fail(err error) {
	if e.stopped() {
		return
	}
	e.done = true
	e.op.metrics.fault(faultKindOf(err))
	logFaultEvent(e.logger, e.op.name, err)

	if e.op.strategy.fanout == fanoutAll {
		for _, w := range e.leftWindows.snapshot() {
			w.terminate(e.streams, err)
		}
	}
	e.release()
	e.observer.OnError(err)
	e.subscription.Dispose()
}

// release forgets every window still active.
func (e *joinEngine[L, R, O]) release() {
	for _, w := range e.leftWindows.snapshot() {
		w.active = false
		e.op.metrics.windowClosed()
	}
	for _, w := range e.rightWindows.snapshot() {
		w.active = false
		e.op.metrics.windowClosed()
	}
	e.leftWindows.clear()
	e.rightWindows.clear()
}

func (e *joinEngine[L, R, O]) dispose() {
	if e.disposed.Swap(true) {
		return
	}
	e.subscription.Dispose()
	e.gate.post(e.release)
}
