package reactz

import (
	"fmt"

	"github.com/pkg/errors"
)

// FaultKind classifies why an operator failed.
type FaultKind int

const (
	// SelectorFault is a failure returned by a key, element, duration or
	// result selector.
	SelectorFault FaultKind = iota + 1
	// ComparerFault is a failure returned by a Comparer's Equals or Hash.
	ComparerFault
	// UpstreamFault is an error signaled by a source stream.
	UpstreamFault
)

// String returns the name of the kind, used as a metrics tag and log field.
func (k FaultKind) String() string {
	switch k {
	case SelectorFault:
		return "selector"
	case ComparerFault:
		return "comparer"
	case UpstreamFault:
		return "upstream"
	default:
		return fmt.Sprintf("FaultKind(%d)", int(k))
	}
}

// StreamError is delivered to observers when a user-supplied selector or
// comparer fails inside an operator. Upstream errors are forwarded unchanged
// and never wrapped in a StreamError.
//
//nolint:govet // fieldalignment: struct layout optimized for readability
type StreamError struct {
	// Err is the selector or comparer failure, annotated with the name of
	// the failing capability.
	Err error

	// Operator is the name of the operator that observed the failure.
	Operator string

	// Kind classifies the failure.
	Kind FaultKind
}

func newStreamError(kind FaultKind, operator, capability string, err error) *StreamError {
	return &StreamError{
		Kind:     kind,
		Operator: operator,
		Err:      errors.WithMessage(err, capability),
	}
}

// Error implements the error interface.
func (se *StreamError) Error() string {
	return fmt.Sprintf("%s[%s]: %v", se.Operator, se.Kind, se.Err)
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As.
func (se *StreamError) Unwrap() error {
	return se.Err
}

// faultKindOf classifies an error delivered by an operator.
func faultKindOf(err error) FaultKind {
	var se *StreamError
	if errors.As(err, &se) {
		return se.Kind
	}
	return UpstreamFault
}
