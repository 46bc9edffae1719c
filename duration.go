package reactz

import "sync/atomic"

// durationSource is a duration stream with its element type erased; only the
// first notification matters.
type durationSource interface {
	watch(onFire func(err error)) Disposable
}

type durationStream[D any] struct {
	source Observable[D]
}

func (d durationStream[D]) watch(onFire func(err error)) Disposable {
	return d.source.Subscribe(&durationObserver[D]{onFire: onFire})
}

// durationObserver reports the first notification of a duration stream.
// OnNext and OnCompleted report a nil error.
type durationObserver[D any] struct {
	onFire func(err error)
	fired  atomic.Bool
}

func (o *durationObserver[D]) OnNext(D) {
	o.fire(nil)
}

func (o *durationObserver[D]) OnError(err error) {
	o.fire(err)
}

func (o *durationObserver[D]) OnCompleted() {
	o.fire(nil)
}

func (o *durationObserver[D]) fire(err error) {
	if o.fired.CompareAndSwap(false, true) {
		o.onFire(err)
	}
}

// eraseDuration hides the element type of a duration selector.
func eraseDuration[In, D any](selector func(In) (Observable[D], error)) func(In) (durationSource, error) {
	if selector == nil {
		return nil
	}
	return func(in In) (durationSource, error) {
		source, err := selector(in)
		if err != nil {
			return nil, err
		}
		if source == nil {
			return durationStream[D]{source: Never[D]()}, nil
		}
		return durationStream[D]{source: source}, nil
	}
}
