package reactz

// Group is a keyed sub-stream emitted by GroupBy and GroupByUntil.
//
// A Group stays open until the source terminates, its duration stream fires,
// or the grouping subscription is disposed. Subscribing to a Group that has
// ended yields its terminal notification and no values; subscribing to one
// that was torn down by disposal yields nothing. A key seen again after its
// Group ended gets a new Group.
type Group[K, V any] struct {
	stream *windowStream[V]
	key    K
}

// Key returns the key shared by every element of the group.
func (g *Group[K, V]) Key() K {
	return g.key
}

// Subscribe attaches observer to the group's elements.
func (g *Group[K, V]) Subscribe(observer Observer[V]) Disposable {
	return g.stream.Subscribe(observer)
}
