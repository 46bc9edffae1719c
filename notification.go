package reactz

import "fmt"

// NotificationKind identifies which observer method a Notification represents.
type NotificationKind int

const (
	// KindNext is an OnNext notification carrying a value.
	KindNext NotificationKind = iota
	// KindError is an OnError notification carrying an error.
	KindError
	// KindCompleted is an OnCompleted notification.
	KindCompleted
)

// String returns the name of the kind.
func (k NotificationKind) String() string {
	switch k {
	case KindNext:
		return "OnNext"
	case KindError:
		return "OnError"
	case KindCompleted:
		return "OnCompleted"
	default:
		return fmt.Sprintf("NotificationKind(%d)", int(k))
	}
}

// Notification is a materialized observer call.
// Subjects store their terminal notification as a Notification so that late
// subscribers can be told how the stream ended.
type Notification[T any] struct {
	Value T
	Err   error
	Kind  NotificationKind
}

// Next creates an OnNext notification.
func Next[T any](value T) Notification[T] {
	return Notification[T]{Kind: KindNext, Value: value}
}

// Error creates an OnError notification.
func Error[T any](err error) Notification[T] {
	return Notification[T]{Kind: KindError, Err: err}
}

// Completed creates an OnCompleted notification.
func Completed[T any]() Notification[T] {
	return Notification[T]{Kind: KindCompleted}
}

// IsTerminal reports whether the notification ends a stream.
func (n Notification[T]) IsTerminal() bool {
	return n.Kind != KindNext
}

// Accept invokes the observer method matching the notification.
func (n Notification[T]) Accept(observer Observer[T]) {
	switch n.Kind {
	case KindNext:
		observer.OnNext(n.Value)
	case KindError:
		observer.OnError(n.Err)
	case KindCompleted:
		observer.OnCompleted()
	}
}

// String returns a human-readable representation of the notification.
func (n Notification[T]) String() string {
	switch n.Kind {
	case KindNext:
		return fmt.Sprintf("OnNext(%v)", n.Value)
	case KindError:
		return fmt.Sprintf("OnError(%v)", n.Err)
	default:
		return n.Kind.String() + "()"
	}
}
