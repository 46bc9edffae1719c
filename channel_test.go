package reactz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/reactz"
)

func collectNotifications[T any](t *testing.T, ch <-chan reactz.Notification[T], timeout time.Duration) []reactz.Notification[T] {
	t.Helper()

	var out []reactz.Notification[T]
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, n)
		case <-timer.C:
			t.Fatal("timed out waiting for channel to close")
			return out
		}
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	done := make(chan struct{})
	var values []int
	reactz.Subscribe(reactz.FromChannel(context.Background(), ch),
		func(v int) { values = append(values, v) },
		func(err error) { t.Errorf("unexpected error: %v", err) },
		func() { close(done) },
	)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("source never completed")
	}
	assert.Equal(t, []int{1, 2, 3}, values)
}

func TestFromChannelCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan int)

	done := make(chan struct{})
	reactz.Subscribe(reactz.FromChannel(ctx, ch), nil, nil, func() { close(done) })
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cancelling the context should complete the stream")
	}
}

func TestToChannel(t *testing.T) {
	t.Run("values then close", func(t *testing.T) {
		got := collectNotifications(t, reactz.ToChannel(context.Background(), reactz.Just("a", "b")), time.Second)

		require.Len(t, got, 2)
		assert.Equal(t, "a", got[0].Value)
		assert.Equal(t, "b", got[1].Value)
	})

	t.Run("error is delivered", func(t *testing.T) {
		errBoom := errors.New("boom")
		got := collectNotifications(t, reactz.ToChannel(context.Background(), reactz.Throw[string](errBoom)), time.Second)

		require.Len(t, got, 1)
		assert.Equal(t, reactz.KindError, got[0].Kind)
		assert.ErrorIs(t, got[0].Err, errBoom)
	})

	t.Run("context cancel closes the channel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		out := reactz.ToChannel(ctx, reactz.Never[int]())
		cancel()

		got := collectNotifications(t, out, time.Second)
		assert.Empty(t, got)
	})
}

func TestChannelRoundTripThroughJoin(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lefts := make(chan string)
	rights := make(chan string)

	joined := reactz.NewJoin(
		reactz.FromChannel(ctx, lefts),
		reactz.FromChannel(ctx, rights),
		func(string) (reactz.Observable[int], error) { return reactz.Never[int](), nil },
		func(string) (reactz.Observable[int], error) { return reactz.EmptyObservable[int](), nil },
		pair,
	)
	out := reactz.ToChannel(ctx, joined)

	lefts <- "a"
	// The reader only takes "b" once "a" has opened its window.
	lefts <- "b"
	rights <- "x"
	first := <-out
	assert.Equal(t, "a-x", first.Value)

	cancel()
	collectNotifications(t, out, time.Second)
}
