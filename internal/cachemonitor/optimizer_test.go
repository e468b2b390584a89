package cachemonitor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizerSkipsBeforeInterval(t *testing.T) {
	c := newTestCache(t)
	m := NewMonitor(c, DefaultThresholds(), time.Hour)
	o := NewOptimizer(m, c, OptimizerConfig{IntervalMinutes: 60, PerformanceThreshold: 0.99})

	now := time.Now().UTC()
	_, err := o.Run(now)
	require.NoError(t, err)

	applied, err := o.Run(now.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, applied)
}

func TestOptimizerAppliesActionsBelowThreshold(t *testing.T) {
	c := newTestCache(t)
	m := NewMonitor(c, DefaultThresholds(), time.Hour)
	o := NewOptimizer(m, c, OptimizerConfig{
		IntervalMinutes:        0,
		PerformanceThreshold:   0.99, // forces a low-efficiency reading to trigger
		MaxOptimizationActions: 2,
	})

	// Drive a low hit rate so efficiency falls under the threshold.
	for i := 0; i < 5; i++ {
		_, _, err := m.Get("nonexistent")
		require.NoError(t, err)
	}

	applied, err := o.Run(time.Now().UTC())
	require.NoError(t, err)
	assert.LessOrEqual(t, len(applied), 2)
	assert.Equal(t, applied, o.AppliedActions())
}

func TestOptimizerNoOpAboveThreshold(t *testing.T) {
	c := newTestCache(t)
	m := NewMonitor(c, DefaultThresholds(), time.Hour)
	o := NewOptimizer(m, c, OptimizerConfig{IntervalMinutes: 0, PerformanceThreshold: -1})

	applied, err := o.Run(time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, applied)
}
