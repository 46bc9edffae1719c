package reactz_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber-go/tally/v4"

	"github.com/zoobzio/reactz"
	rxtest "github.com/zoobzio/reactz/testing"
)

func pair(l, r string) (string, error) {
	return l + "-" + r, nil
}

func TestJoinOverlap(t *testing.T) {
	s := rxtest.NewScheduler()
	left := rxtest.NewHotObservable(s,
		rxtest.OnNext(210, "L"),
		rxtest.OnCompleted[string](217),
	)
	right := rxtest.NewHotObservable(s,
		rxtest.OnNext(215, "R"),
		rxtest.OnCompleted[string](218),
	)
	leftDuration := ticks(s, 10)
	rightDuration := ticks(s, 20)

	res := rxtest.Start(s, func() reactz.Observable[string] {
		return reactz.NewJoin(left, right,
			func(string) (reactz.Observable[int], error) { return leftDuration, nil },
			func(string) (reactz.Observable[int], error) { return rightDuration, nil },
			pair,
		)
	})

	rxtest.AssertMessages(t, []rxtest.Recorded[string]{
		rxtest.OnNext(215, "L-R"),
		rxtest.OnCompleted[string](235),
	}, res.Messages())

	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 217)}, left.Subscriptions())
	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 218)}, right.Subscriptions())
	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(210, 220)}, leftDuration.Subscriptions())
	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(215, 235)}, rightDuration.Subscriptions())
}

func TestJoinPairsInArrivalOrder(t *testing.T) {
	s := rxtest.NewScheduler()
	left := rxtest.NewHotObservable(s,
		rxtest.OnNext(210, "a"),
		rxtest.OnNext(220, "b"),
		rxtest.OnNext(265, "c"),
		rxtest.OnCompleted[string](300),
	)
	right := rxtest.NewHotObservable(s,
		rxtest.OnNext(230, "x"),
		rxtest.OnNext(240, "y"),
		rxtest.OnCompleted[string](300),
	)

	res := rxtest.Start(s, func() reactz.Observable[string] {
		return reactz.NewJoin(left, right,
			func(v string) (reactz.Observable[int], error) {
				if v == "a" {
					return ticks(s, 25), nil
				}
				return ticks(s, 100), nil
			},
			func(string) (reactz.Observable[int], error) { return ticks(s, 30), nil },
			pair,
		)
	})

	// a expires at 235, x at 260 and y at 270; c overlaps with y only.
	rxtest.AssertMessages(t, []rxtest.Recorded[string]{
		rxtest.OnNext(230, "a-x"),
		rxtest.OnNext(230, "b-x"),
		rxtest.OnNext(240, "b-y"),
		rxtest.OnNext(265, "c-y"),
		rxtest.OnCompleted[string](365),
	}, res.Messages())
}

func TestJoinCompletesOnlyWhenIdle(t *testing.T) {
	s := rxtest.NewScheduler()
	left := rxtest.NewHotObservable(s,
		rxtest.OnNext(210, "a"),
		rxtest.OnCompleted[string](220),
	)
	right := rxtest.NewHotObservable[string](s)

	res := rxtest.Start(s, func() reactz.Observable[string] {
		return reactz.NewJoin(left, right,
			func(string) (reactz.Observable[int], error) { return ticks(s, 10), nil },
			func(string) (reactz.Observable[int], error) { return ticks(s, 10), nil },
			pair,
		)
	})

	assert.Empty(t, res.Messages(), "an open right source keeps the join alive")
	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 1000)}, right.Subscriptions())
}

func TestJoinImmediateDurationStillPairs(t *testing.T) {
	s := rxtest.NewScheduler()
	left := rxtest.NewHotObservable(s,
		rxtest.OnNext(210, "a"),
		rxtest.OnCompleted[string](250),
	)
	right := rxtest.NewHotObservable(s,
		rxtest.OnNext(220, "x"),
		rxtest.OnNext(230, "y"),
		rxtest.OnCompleted[string](240),
	)
	leftDuration := ticks(s, 100)

	res := rxtest.Start(s, func() reactz.Observable[string] {
		return reactz.NewJoin(left, right,
			func(string) (reactz.Observable[int], error) { return leftDuration, nil },
			func(string) (reactz.Observable[int], error) { return reactz.EmptyObservable[int](), nil },
			pair,
		)
	})

	// Right windows close on arrival but still meet the left windows open
	// at that moment.
	rxtest.AssertMessages(t, []rxtest.Recorded[string]{
		rxtest.OnNext(220, "a-x"),
		rxtest.OnNext(230, "a-y"),
		rxtest.OnCompleted[string](310),
	}, res.Messages())
	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(210, 310)}, leftDuration.Subscriptions())
}

func TestJoinErrors(t *testing.T) {
	errBoom := errors.New("boom")

	t.Run("source error", func(t *testing.T) {
		s := rxtest.NewScheduler()
		left := rxtest.NewHotObservable(s, rxtest.OnNext(210, "a"))
		right := rxtest.NewHotObservable(s,
			rxtest.OnNext(220, "x"),
			rxtest.OnError[string](230, errBoom),
		)
		leftDuration := ticks(s, 100)
		rightDuration := ticks(s, 100)

		res := rxtest.Start(s, func() reactz.Observable[string] {
			return reactz.NewJoin(left, right,
				func(string) (reactz.Observable[int], error) { return leftDuration, nil },
				func(string) (reactz.Observable[int], error) { return rightDuration, nil },
				pair,
			)
		})

		rxtest.AssertMessages(t, []rxtest.Recorded[string]{
			rxtest.OnNext(220, "a-x"),
			rxtest.OnError[string](230, errBoom),
		}, res.Messages())
		msgs := res.Messages()
		assert.Same(t, errBoom, msgs[1].Notification.Err)

		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 230)}, left.Subscriptions())
		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 230)}, right.Subscriptions())
		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(210, 230)}, leftDuration.Subscriptions())
		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(220, 230)}, rightDuration.Subscriptions())
	})

	t.Run("duration stream error", func(t *testing.T) {
		s := rxtest.NewScheduler()
		left := rxtest.NewHotObservable(s, rxtest.OnNext(210, "a"))
		right := rxtest.NewHotObservable(s, rxtest.OnNext(220, "x"))
		failing := rxtest.NewColdObservable(s, rxtest.OnError[int](40, errBoom))

		res := rxtest.Start(s, func() reactz.Observable[string] {
			return reactz.NewJoin(left, right,
				func(string) (reactz.Observable[int], error) { return failing, nil },
				func(string) (reactz.Observable[int], error) { return ticks(s, 100), nil },
				pair,
			)
		})

		rxtest.AssertMessages(t, []rxtest.Recorded[string]{
			rxtest.OnNext(220, "a-x"),
			rxtest.OnError[string](250, errBoom),
		}, res.Messages())
		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(210, 250)}, failing.Subscriptions())
		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 250)}, right.Subscriptions())
	})

	t.Run("duration selector fault", func(t *testing.T) {
		s := rxtest.NewScheduler()
		left := rxtest.NewHotObservable(s, rxtest.OnNext(210, "a"))
		right := rxtest.NewHotObservable(s, rxtest.OnNext(220, "x"))

		res := rxtest.Start(s, func() reactz.Observable[string] {
			return reactz.NewJoin(left, right,
				func(string) (reactz.Observable[int], error) { return ticks(s, 100), nil },
				func(string) (reactz.Observable[int], error) { return nil, errBoom },
				pair,
			)
		})

		rxtest.AssertMessages(t, []rxtest.Recorded[string]{
			rxtest.OnError[string](220, errBoom),
		}, res.Messages())
		var se *reactz.StreamError
		require.ErrorAs(t, res.Messages()[0].Notification.Err, &se)
		assert.Equal(t, reactz.SelectorFault, se.Kind)
		assert.Equal(t, "join", se.Operator)
		assert.Contains(t, se.Error(), "right duration selector")
	})

	t.Run("result selector fault", func(t *testing.T) {
		s := rxtest.NewScheduler()
		left := rxtest.NewHotObservable(s,
			rxtest.OnNext(210, "a"),
			rxtest.OnNext(230, "b"),
		)
		right := rxtest.NewHotObservable(s,
			rxtest.OnNext(220, "x"),
			rxtest.OnNext(240, "y"),
		)

		res := rxtest.Start(s, func() reactz.Observable[string] {
			return reactz.NewJoin(left, right,
				func(string) (reactz.Observable[int], error) { return ticks(s, 100), nil },
				func(string) (reactz.Observable[int], error) { return ticks(s, 100), nil },
				func(l, r string) (string, error) {
					if l == "b" {
						return "", errBoom
					}
					return pair(l, r)
				},
			)
		})

		rxtest.AssertMessages(t, []rxtest.Recorded[string]{
			rxtest.OnNext(220, "a-x"),
			rxtest.OnError[string](230, errBoom),
		}, res.Messages())
		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 230)}, left.Subscriptions())
		rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 230)}, right.Subscriptions())
	})
}

func TestJoinDispose(t *testing.T) {
	s := rxtest.NewScheduler()
	left := rxtest.NewHotObservable(s, rxtest.OnNext(210, "a"), rxtest.OnNext(260, "b"))
	right := rxtest.NewHotObservable(s, rxtest.OnNext(220, "x"))
	leftDuration := ticks(s, 500)

	res := rxtest.StartAt(s, rxtest.Created, rxtest.Subscribed, 250, func() reactz.Observable[string] {
		return reactz.NewJoin(left, right,
			func(string) (reactz.Observable[int], error) { return leftDuration, nil },
			func(string) (reactz.Observable[int], error) { return ticks(s, 500), nil },
			pair,
		)
	})

	rxtest.AssertMessages(t, []rxtest.Recorded[string]{rxtest.OnNext(220, "a-x")}, res.Messages())
	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(200, 250)}, left.Subscriptions())
	rxtest.AssertSubscriptions(t, []rxtest.Subscription{rxtest.Lifetime(210, 250)}, leftDuration.Subscriptions())
}

func TestJoinMetrics(t *testing.T) {
	s := rxtest.NewScheduler()
	left := rxtest.NewHotObservable(s, rxtest.OnNext(210, "a"), rxtest.OnCompleted[string](215))
	right := rxtest.NewHotObservable(s, rxtest.OnNext(220, "x"), rxtest.OnCompleted[string](225))
	scope := tally.NewTestScope("", nil)

	j := reactz.NewJoin(left, right,
		func(string) (reactz.Observable[int], error) { return ticks(s, 20), nil },
		func(string) (reactz.Observable[int], error) { return ticks(s, 20), nil },
		pair,
	).WithName("pairs").WithMetrics(scope)
	assert.Equal(t, "pairs", j.Name())

	res := rxtest.Start(s, func() reactz.Observable[string] { return j })

	rxtest.AssertMessages(t, []rxtest.Recorded[string]{
		rxtest.OnNext(220, "a-x"),
		rxtest.OnCompleted[string](240),
	}, res.Messages())

	snapshot := scope.Snapshot()
	assert.Equal(t, int64(2), counterValue(snapshot, "windows_opened", nil))
	assert.Equal(t, int64(2), counterValue(snapshot, "windows_closed", nil))
	assert.Equal(t, float64(0), gaugeValue(snapshot, "windows_active"))
}
