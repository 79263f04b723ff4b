package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)

	c.ServiceCall(OpReadSlab)
	c.ServiceCall(OpReadSlab)
	c.ServiceCall(OpOpenPath)
	c.ElementsLoaded(10)
	c.ElementsLoaded(0)
	c.Allocation()
	c.CursorReseat()

	require.Equal(t, 2.0, testutil.ToFloat64(c.Calls(OpReadSlab)))
	require.Equal(t, 1.0, testutil.ToFloat64(c.Calls(OpOpenPath)))
	require.Equal(t, 0.0, testutil.ToFloat64(c.Calls(OpReadData)))
	require.Equal(t, 10.0, testutil.ToFloat64(c.Elements()))
	require.Equal(t, 1.0, testutil.ToFloat64(c.Allocations()))
	require.Equal(t, 1.0, testutil.ToFloat64(c.Reseats()))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	require.NotPanics(t, func() {
		c.ServiceCall(OpInfo)
		c.ElementsLoaded(3)
		c.Allocation()
		c.CursorReseat()
	})

	require.NotPanics(t, func() {
		require.Equal(t, 0.0, testutil.ToFloat64(c.Calls(OpInfo)))
		require.Equal(t, 0.0, testutil.ToFloat64(c.Elements()))
		require.Equal(t, 0.0, testutil.ToFloat64(c.Allocations()))
		require.Equal(t, 0.0, testutil.ToFloat64(c.Reseats()))
	})

	// Incrementing a detached counter does not leak into the next read.
	c.Elements().Add(5)
	require.Equal(t, 0.0, testutil.ToFloat64(c.Elements()))
}

func TestRegisterTwiceSharesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()

	first, err := New(reg)
	require.NoError(t, err)
	second, err := New(reg)
	require.NoError(t, err)

	first.Allocation()
	second.Allocation()

	require.Equal(t, 2.0, testutil.ToFloat64(first.Allocations()))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	require.Contains(t, names, "nexus_buffer_allocations_total")
}
