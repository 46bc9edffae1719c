package reactz

import (
	"container/list"
	"reflect"
)

// keyMap maps keys to values through an optional Comparer and remembers
// insertion order, so that fan-out over open groups is deterministic.
//
// Without a comparer keys are matched with ==. With one, keys are bucketed by
// Hash and matched with Equals; nil keys never reach the comparer and live in
// a dedicated slot.
//
// keyMap is not safe for concurrent use; it is owned by an operator gate.
type keyMap[K comparable, V any] struct {
	comparer Comparer[K]
	native   map[K]*list.Element
	buckets  map[int][]*list.Element
	null     *list.Element
	order    *list.List
}

type keyEntry[K comparable, V any] struct {
	key   K
	value V
	hash  int
}

func newKeyMap[K comparable, V any](comparer Comparer[K], capacity int) *keyMap[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	m := &keyMap[K, V]{
		comparer: comparer,
		order:    list.New(),
	}
	if comparer == nil {
		m.native = make(map[K]*list.Element, capacity)
	} else {
		m.buckets = make(map[int][]*list.Element, capacity)
	}
	return m
}

// Get looks key up. The error is a comparer failure.
func (m *keyMap[K, V]) Get(key K) (V, bool, error) {
	var zero V
	el, _, err := m.find(key)
	if err != nil || el == nil {
		return zero, false, err
	}
	return entryOf[K, V](el).value, true, nil
}

// Put inserts key, which must not be present.
func (m *keyMap[K, V]) Put(key K, value V) error {
	switch {
	case m.comparer == nil:
		m.native[key] = m.order.PushBack(&keyEntry[K, V]{key: key, value: value})
	case isNilKey(key):
		m.null = m.order.PushBack(&keyEntry[K, V]{key: key, value: value})
	default:
		hash, err := m.comparer.Hash(key)
		if err != nil {
			return err
		}
		el := m.order.PushBack(&keyEntry[K, V]{key: key, value: value, hash: hash})
		m.buckets[hash] = append(m.buckets[hash], el)
	}
	return nil
}

// Delete removes key and returns the value it held.
func (m *keyMap[K, V]) Delete(key K) (V, bool, error) {
	var zero V
	el, index, err := m.find(key)
	if err != nil || el == nil {
		return zero, false, err
	}

	entry := entryOf[K, V](el)
	switch {
	case m.comparer == nil:
		delete(m.native, key)
	case el == m.null:
		m.null = nil
	default:
		bucket := m.buckets[entry.hash]
		bucket = append(bucket[:index], bucket[index+1:]...)
		if len(bucket) == 0 {
			delete(m.buckets, entry.hash)
		} else {
			m.buckets[entry.hash] = bucket
		}
	}
	m.order.Remove(el)
	return entry.value, true, nil
}

// Values returns the values in insertion order.
func (m *keyMap[K, V]) Values() []V {
	values := make([]V, 0, m.order.Len())
	for el := m.order.Front(); el != nil; el = el.Next() {
		values = append(values, entryOf[K, V](el).value)
	}
	return values
}

// Len returns the number of keys held.
func (m *keyMap[K, V]) Len() int {
	return m.order.Len()
}

// Clear drops every entry.
func (m *keyMap[K, V]) Clear() {
	m.order.Init()
	m.null = nil
	if m.native != nil {
		m.native = make(map[K]*list.Element)
	}
	if m.buckets != nil {
		m.buckets = make(map[int][]*list.Element)
	}
}

// find returns the element holding key and, for comparer lookups, its index
// within the hash bucket.
func (m *keyMap[K, V]) find(key K) (*list.Element, int, error) {
	if m.comparer == nil {
		return m.native[key], 0, nil
	}
	if isNilKey(key) {
		return m.null, 0, nil
	}

	hash, err := m.comparer.Hash(key)
	if err != nil {
		return nil, 0, err
	}
	for i, el := range m.buckets[hash] {
		equal, err := m.comparer.Equals(entryOf[K, V](el).key, key)
		if err != nil {
			return nil, 0, err
		}
		if equal {
			return el, i, nil
		}
	}
	return nil, 0, nil
}

func entryOf[K comparable, V any](el *list.Element) *keyEntry[K, V] {
	return el.Value.(*keyEntry[K, V]) //nolint:forcetypeassert // only keyEntry values are stored
}

// isNilKey reports whether key is a nil interface or a nil pointer-like value.
func isNilKey(key any) bool {
	if key == nil {
		return true
	}
	v := reflect.ValueOf(key)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.Map, reflect.Slice, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}
