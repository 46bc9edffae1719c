package reactz

import "sync"

// gate serializes the events of one operator subscription.
//
// Events are queued and drained by whichever goroutine finds the gate idle.
// An event posted while the gate is draining, either re-entrantly from inside
// an event or concurrently from another goroutine, is appended to the queue
// and runs after the current one; the poster never blocks waiting for it.
// Everything that touches operator state or calls downstream observers runs
// inside the drain, so there is a single writer by construction.
//
// A panicking event propagates to the goroutine that was draining. Events
// still queued behind it, terminal notifications included, are discarded, and
// the gate accepts new events afterwards.
type gate struct {
	mu       sync.Mutex
	queue    []func()
	draining bool
}

// post runs fn inside the gate.
func (g *gate) post(fn func()) {
	g.mu.Lock()
	g.queue = append(g.queue, fn)
	if g.draining {
		g.mu.Unlock()
		return
	}
	g.draining = true

	for len(g.queue) > 0 {
		next := g.queue[0]
		g.queue[0] = nil
		g.queue = g.queue[1:]
		g.mu.Unlock()

		g.run(next)

		g.mu.Lock()
	}
	g.queue = nil
	g.draining = false
	g.mu.Unlock()
}

// run executes one event. On panic the queue is discarded and the draining
// flag reset before the panic continues.
func (g *gate) run(fn func()) {
	completed := false
	defer func() {
		if !completed {
			g.mu.Lock()
			g.queue = nil
			g.draining = false
			g.mu.Unlock()
		}
	}()
	fn()
	completed = true
}
