package reactz

import (
	"sync/atomic"

	"github.com/uber-go/tally/v4"
)

// Metric names reported by the windowing operators. The unit prefix is
// "groups" for GroupBy/GroupByUntil and "windows" for Join/GroupJoin.
const (
	MetricOpened = "opened"
	MetricClosed = "closed"
	MetricActive = "active"
	MetricFaults = "faults"
)

// windowMetrics reports window lifecycle through a tally scope.
// One instance is shared by every subscription of an operator, so the active
// gauge is an aggregate over all of them.
type windowMetrics struct {
	scope  tally.Scope
	opened tally.Counter
	closed tally.Counter
	active tally.Gauge
	count  atomic.Int64
}

func newWindowMetrics(scope tally.Scope, unit string) *windowMetrics {
	if scope == nil {
		scope = tally.NoopScope
	}
	return &windowMetrics{
		scope:  scope,
		opened: scope.Counter(unit + "_" + MetricOpened),
		closed: scope.Counter(unit + "_" + MetricClosed),
		active: scope.Gauge(unit + "_" + MetricActive),
	}
}

func (m *windowMetrics) windowOpened() {
	m.opened.Inc(1)
	m.active.Update(float64(m.count.Add(1)))
}

func (m *windowMetrics) windowClosed() {
	m.closed.Inc(1)
	m.active.Update(float64(m.count.Add(-1)))
}

func (m *windowMetrics) fault(kind FaultKind) {
	m.scope.Tagged(map[string]string{"kind": kind.String()}).Counter(MetricFaults).Inc(1)
}
