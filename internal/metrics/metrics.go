// Package metrics instruments the NeXus file handle with Prometheus counters.
//
// Every round-trip into the file service is counted by operation, together
// with the number of elements moved into typed buffers, buffer reallocations
// and cursor reseats caused by fast opens whose parent was not current.
//
// A nil *Collector is valid and records nothing, so instrumented code never
// has to check whether metrics are enabled.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "nexus"

// Service operation labels.
const (
	OpOpenPath   = "open_path"
	OpOpenGroup  = "open_group"
	OpCloseGroup = "close_group"
	OpOpenData   = "open_data"
	OpCloseData  = "close_data"
	OpEntries    = "entries"
	OpInfo       = "info"
	OpReadData   = "read_data"
	OpReadSlab   = "read_slab"
	OpAttributes = "attributes"
)

// Collector holds the counters of one file handle (or of several handles
// sharing a registerer).
type Collector struct {
	calls    *prometheus.CounterVec
	elements prometheus.Counter
	allocs   prometheus.Counter
	reseats  prometheus.Counter
}

// New creates the counters and registers them on reg. When reg is nil the
// counters work but are not exported. Registering twice on the same
// registerer reuses the counters already there.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "service_calls_total",
			Help:      "Round-trips into the file service, by operation.",
		}, []string{"op"}),
		elements: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "elements_loaded_total",
			Help:      "Elements read into typed dataset buffers.",
		}),
		allocs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buffer_allocations_total",
			Help:      "Typed dataset buffer (re)allocations.",
		}),
		reseats: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cursor_reseats_total",
			Help:      "Fast opens that had to move the cursor back to their parent.",
		}),
	}
	if reg == nil {
		return c, nil
	}

	var err error
	if c.calls, err = register(reg, c.calls); err != nil {
		return nil, err
	}
	if c.elements, err = register(reg, c.elements); err != nil {
		return nil, err
	}
	if c.allocs, err = register(reg, c.allocs); err != nil {
		return nil, err
	}
	if c.reseats, err = register(reg, c.reseats); err != nil {
		return nil, err
	}
	return c, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ServiceCall counts one service round-trip.
func (c *Collector) ServiceCall(op string) {
	if c == nil {
		return
	}
	c.calls.WithLabelValues(op).Inc()
}

// ElementsLoaded adds n loaded elements.
func (c *Collector) ElementsLoaded(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.elements.Add(float64(n))
}

// Allocation counts one buffer (re)allocation.
func (c *Collector) Allocation() {
	if c == nil {
		return
	}
	c.allocs.Inc()
}

// CursorReseat counts one cursor reseat.
func (c *Collector) CursorReseat() {
	if c == nil {
		return
	}
	c.reseats.Inc()
}

// Calls returns the counter for op, for inspection in tests and tooling.
// On a nil collector it returns a detached counter that stays at zero.
func (c *Collector) Calls(op string) prometheus.Counter {
	if c == nil {
		return detached()
	}
	return c.calls.WithLabelValues(op)
}

// Elements returns the loaded-elements counter.
func (c *Collector) Elements() prometheus.Counter {
	if c == nil {
		return detached()
	}
	return c.elements
}

// Allocations returns the allocation counter.
func (c *Collector) Allocations() prometheus.Counter {
	if c == nil {
		return detached()
	}
	return c.allocs
}

// Reseats returns the cursor reseat counter.
func (c *Collector) Reseats() prometheus.Counter {
	if c == nil {
		return detached()
	}
	return c.reseats
}

func detached() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "detached_total"})
}
