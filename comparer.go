package reactz

import (
	"github.com/twmb/murmur3"
	"golang.org/x/text/cases"
)

// Comparer decides key equality for grouping operators.
// Either method may fail; a failure becomes a ComparerFault of the operator
// that called it. Keys that are Equals must have the same Hash.
type Comparer[K any] interface {
	Equals(a, b K) (bool, error)
	Hash(key K) (int, error)
}

// ComparerFuncs adapts a pair of functions to the Comparer interface.
type ComparerFuncs[K any] struct {
	EqualsFunc func(a, b K) (bool, error)
	HashFunc   func(key K) (int, error)
}

// Equals calls EqualsFunc.
func (c ComparerFuncs[K]) Equals(a, b K) (bool, error) {
	return c.EqualsFunc(a, b)
}

// Hash calls HashFunc.
func (c ComparerFuncs[K]) Hash(key K) (int, error) {
	return c.HashFunc(key)
}

// FoldComparer compares string keys case-insensitively. Keys are reduced to
// their Unicode case folding, so "ſ" matches "s" and "ß" matches "ss".
//
// Example:
//
//	byUser := reactz.NewGroupBy(logins, userOf, identity).
//		WithComparer(reactz.FoldComparer())
func FoldComparer() Comparer[string] {
	return foldComparer{}
}

type foldComparer struct{}

func (foldComparer) Equals(a, b string) (bool, error) {
	return fold(a) == fold(b), nil
}

func (foldComparer) Hash(key string) (int, error) {
	sum := uint64(murmur3.Sum32([]byte(fold(key))))
	return int(sum), nil // #nosec G115 - a 32-bit sum always fits in int.
}

// fold returns the canonical form both Equals and Hash work on.
// A Caser keeps state, so each call gets its own.
func fold(key string) string {
	return cases.Fold().String(key)
}
