package testing

import (
	"slices"
	"sync"

	"github.com/zoobzio/reactz"
)

// subscriptionLog tracks when a test observable was subscribed and
// unsubscribed.
type subscriptionLog struct {
	subscriptions []Subscription
	mu            sync.Mutex
}

func (l *subscriptionLog) open(at int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscriptions = append(l.subscriptions, Open(at))
	return len(l.subscriptions) - 1
}

func (l *subscriptionLog) close(index int, at int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscriptions[index].Unsubscribe = at
}

// Subscriptions returns every subscription made so far, in order.
func (l *subscriptionLog) Subscriptions() []Subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Subscription, len(l.subscriptions))
	copy(out, l.subscriptions)
	return out
}

// HotObservable emits its messages at their absolute ticks whether or not
// anyone is subscribed. Subscribers only see what happens while attached.
type HotObservable[T any] struct {
	scheduler *Scheduler
	observers []hotObserver[T]
	subscriptionLog
	nextID int
	mu     sync.Mutex
}

// NewHotObservable schedules messages on s and returns the observable.
func NewHotObservable[T any](s *Scheduler, messages ...Recorded[T]) *HotObservable[T] {
	h := &HotObservable[T]{scheduler: s}
	for _, m := range messages {
		n := m.Notification
		s.ScheduleAbsolute(m.Time, func() {
			for _, o := range h.snapshot() {
				n.Accept(o)
			}
		})
	}
	return h
}

type hotObserver[T any] struct {
	observer reactz.Observer[T]
	id       int
}

func (h *HotObservable[T]) snapshot() []reactz.Observer[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]reactz.Observer[T], len(h.observers))
	for i, o := range h.observers {
		out[i] = o.observer
	}
	return out
}

// Subscribe attaches observer until the returned handle is disposed.
func (h *HotObservable[T]) Subscribe(observer reactz.Observer[T]) reactz.Disposable {
	index := h.open(h.scheduler.Clock())

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.observers = append(h.observers, hotObserver[T]{id: id, observer: observer})
	h.mu.Unlock()

	return reactz.NewDisposable(func() {
		h.mu.Lock()
		h.observers = slices.DeleteFunc(h.observers, func(o hotObserver[T]) bool {
			return o.id == id
		})
		h.mu.Unlock()
		h.close(index, h.scheduler.Clock())
	})
}

// ColdObservable replays its messages for every subscriber, each tick
// relative to the moment of subscription.
type ColdObservable[T any] struct {
	scheduler *Scheduler
	messages  []Recorded[T]
	subscriptionLog
}

// NewColdObservable returns an observable replaying messages on s.
func NewColdObservable[T any](s *Scheduler, messages ...Recorded[T]) *ColdObservable[T] {
	return &ColdObservable[T]{scheduler: s, messages: messages}
}

// Subscribe schedules the messages for observer. Disposing the handle
// cancels the ones not yet delivered.
func (c *ColdObservable[T]) Subscribe(observer reactz.Observer[T]) reactz.Disposable {
	now := c.scheduler.Clock()
	index := c.open(now)

	pending := reactz.NewCompositeDisposable()
	for _, m := range c.messages {
		n := m.Notification
		pending.Add(c.scheduler.ScheduleAbsolute(now+m.Time, func() {
			n.Accept(observer)
		}))
	}

	return reactz.NewDisposable(func() {
		pending.Dispose()
		c.close(index, c.scheduler.Clock())
	})
}
