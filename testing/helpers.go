package testing

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoobzio/reactz"
)

// AssertMessages checks that actual matches expected tick for tick.
// Values are compared with assert.Equal; errors match when
// errors.Is(actual, expected) holds, so wrapped faults still match their cause.
func AssertMessages[T any](t *testing.T, expected, actual []Recorded[T]) bool {
	t.Helper()

	if len(expected) != len(actual) {
		return assert.Fail(t, "message count mismatch",
			"expected %d messages, got %d\nexpected: %s\nactual:   %s",
			len(expected), len(actual), formatMessages(expected), formatMessages(actual))
	}

	ok := true
	for i := range expected {
		if !messageMatches(expected[i], actual[i]) {
			ok = assert.Fail(t, "message mismatch",
				"message %d: expected %s, got %s\nexpected: %s\nactual:   %s",
				i, expected[i], actual[i], formatMessages(expected), formatMessages(actual))
		}
	}
	return ok
}

// AssertSubscriptions checks the subscription lifetimes of a test observable.
func AssertSubscriptions(t *testing.T, expected, actual []Subscription) bool {
	t.Helper()
	return assert.Equal(t, expected, actual, "subscriptions")
}

// AssertValues checks only the values a recorder saw, ignoring ticks.
func AssertValues[T any](t *testing.T, expected []T, recorder *Recorder[T]) bool {
	t.Helper()
	return assert.Equal(t, expected, recorder.Values())
}

func messageMatches[T any](expected, actual Recorded[T]) bool {
	if expected.Time != actual.Time {
		return false
	}
	e, a := expected.Notification, actual.Notification
	if e.Kind != a.Kind {
		return false
	}
	switch e.Kind {
	case reactz.KindNext:
		return assert.ObjectsAreEqual(e.Value, a.Value)
	case reactz.KindError:
		return errors.Is(a.Err, e.Err)
	default:
		return true
	}
}

func formatMessages[T any](messages []Recorded[T]) string {
	parts := make([]string, len(messages))
	for i, m := range messages {
		parts[i] = m.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
