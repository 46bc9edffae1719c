package reactz_test

import (
	"github.com/zoobzio/reactz"
	rxtest "github.com/zoobzio/reactz/testing"
)

// groupRecording captures a grouping result: the keys of the emitted groups
// on one recorder, and the contents of every group on its own recorder,
// subscribed as soon as the group is emitted.
type groupRecording[K comparable, V any] struct {
	outer  *rxtest.Recorder[K]
	groups []*reactz.Group[K, V]
	inner  []*rxtest.Recorder[V]
}

// startGroups subscribes to the observable returned by create at
// rxtest.Subscribed, disposes at disposeAt and runs s to the end.
func startGroups[K comparable, V any](
	s *rxtest.Scheduler,
	disposeAt int64,
	create func() reactz.Observable[*reactz.Group[K, V]],
) *groupRecording[K, V] {
	rec := &groupRecording[K, V]{outer: rxtest.NewRecorder[K](s)}

	var source reactz.Observable[*reactz.Group[K, V]]
	var subscription reactz.Disposable
	s.ScheduleAbsolute(rxtest.Created, func() { source = create() })
	s.ScheduleAbsolute(rxtest.Subscribed, func() {
		subscription = source.Subscribe(reactz.ObserverFuncs[*reactz.Group[K, V]]{
			Next: func(g *reactz.Group[K, V]) {
				rec.outer.OnNext(g.Key())
				inner := rxtest.NewRecorder[V](s)
				rec.groups = append(rec.groups, g)
				rec.inner = append(rec.inner, inner)
				g.Subscribe(inner)
			},
			Error:     rec.outer.OnError,
			Completed: rec.outer.OnCompleted,
		})
	})
	s.ScheduleAbsolute(disposeAt, func() { subscription.Dispose() })
	s.Start()
	return rec
}

// window pairs a GroupJoin left value with its window of right values.
type window struct {
	left   string
	values reactz.Observable[string]
}

func windowOf(left string, values reactz.Observable[string]) (window, error) {
	return window{left: left, values: values}, nil
}

// windowRecording captures a GroupJoin result like groupRecording does.
type windowRecording struct {
	outer   *rxtest.Recorder[string]
	windows []window
	inner   []*rxtest.Recorder[string]
}

func startWindows(s *rxtest.Scheduler, disposeAt int64, create func() reactz.Observable[window]) *windowRecording {
	rec := &windowRecording{outer: rxtest.NewRecorder[string](s)}

	var source reactz.Observable[window]
	var subscription reactz.Disposable
	s.ScheduleAbsolute(rxtest.Created, func() { source = create() })
	s.ScheduleAbsolute(rxtest.Subscribed, func() {
		subscription = source.Subscribe(reactz.ObserverFuncs[window]{
			Next: func(w window) {
				rec.outer.OnNext(w.left)
				inner := rxtest.NewRecorder[string](s)
				rec.windows = append(rec.windows, w)
				rec.inner = append(rec.inner, inner)
				w.values.Subscribe(inner)
			},
			Error:     rec.outer.OnError,
			Completed: rec.outer.OnCompleted,
		})
	})
	s.ScheduleAbsolute(disposeAt, func() { subscription.Dispose() })
	s.Start()
	return rec
}

// ticks returns a cold duration stream firing after d ticks.
func ticks(s *rxtest.Scheduler, d int64) *rxtest.ColdObservable[int] {
	return rxtest.NewColdObservable(s, rxtest.OnNext(d, 0))
}

func firstChar(v string) (string, error) {
	return v[:1], nil
}
