package manager

import (
	"time"

	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/fakekoji/otool/pkg/types"
)

// MetricsCollector collects metrics from the manager
type MetricsCollector struct {
	manager  *Manager
	interval time.Duration
	stopCh   chan struct{}
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(mgr *Manager) *MetricsCollector {
	return &MetricsCollector{
		manager:  mgr,
		interval: 15 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *MetricsCollector) Start() {
	ticker := time.NewTicker(c.interval)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *MetricsCollector) Stop() {
	close(c.stopCh)
}

func (c *MetricsCollector) collect() {
	c.collectRecordMetrics()
	c.collectRaftMetrics()
}

func (c *MetricsCollector) collectRecordMetrics() {
	for _, kind := range types.Kinds {
		items, err := c.manager.List(kind)
		if err != nil {
			c.manager.logger.Warn().Err(err).Str("kind", string(kind)).Msg("failed to count records")
			continue
		}
		metrics.RecordsTotal.WithLabelValues(string(kind)).Set(float64(len(items)))
	}
}

func (c *MetricsCollector) collectRaftMetrics() {
	if c.manager.IsLeader() {
		metrics.RaftLeader.Set(1)
	} else {
		metrics.RaftLeader.Set(0)
	}

	stats := c.manager.GetRaftStats()
	if appliedIndex, ok := stats["applied_index"].(uint64); ok {
		metrics.RaftAppliedIndex.Set(float64(appliedIndex))
	}
}
