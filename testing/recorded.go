package testing

import (
	"fmt"
	"math"

	"github.com/zoobzio/reactz"
)

// Infinite marks a subscription that was never disposed.
const Infinite int64 = math.MaxInt64

// Recorded is a notification stamped with the tick it happened at.
type Recorded[T any] struct {
	Notification reactz.Notification[T]
	Time         int64
}

func (r Recorded[T]) String() string {
	return fmt.Sprintf("%s@%d", r.Notification, r.Time)
}

// OnNext records a value at tick t.
func OnNext[T any](t int64, value T) Recorded[T] {
	return Recorded[T]{Time: t, Notification: reactz.Next(value)}
}

// OnError records a failure at tick t.
func OnError[T any](t int64, err error) Recorded[T] {
	return Recorded[T]{Time: t, Notification: reactz.Error[T](err)}
}

// OnCompleted records a completion at tick t.
func OnCompleted[T any](t int64) Recorded[T] {
	return Recorded[T]{Time: t, Notification: reactz.Completed[T]()}
}

// Subscription is the lifetime of one subscription to a test observable.
type Subscription struct {
	Subscribe   int64
	Unsubscribe int64
}

// Open returns a subscription that is still open.
func Open(at int64) Subscription {
	return Subscription{Subscribe: at, Unsubscribe: Infinite}
}

// Lifetime returns a subscription opened at from and disposed at to.
func Lifetime(from, to int64) Subscription {
	return Subscription{Subscribe: from, Unsubscribe: to}
}

func (s Subscription) String() string {
	if s.Unsubscribe == Infinite {
		return fmt.Sprintf("(%d, infinite)", s.Subscribe)
	}
	return fmt.Sprintf("(%d, %d)", s.Subscribe, s.Unsubscribe)
}
