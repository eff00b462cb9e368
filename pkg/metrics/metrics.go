package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Store metrics
	RecordsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "otool_records_total",
			Help: "Total number of stored configuration records by kind",
		},
		[]string{"kind"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otool_config_submissions_total",
			Help: "Total number of create/update submissions by kind, operation and status",
		},
		[]string{"kind", "op", "status"},
	)

	ApplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "otool_config_apply_duration_seconds",
			Help:    "Time taken to apply a submission through raft in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Raft metrics
	RaftLeader = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "otool_raft_is_leader",
			Help: "Whether this node is the Raft leader (1 = leader, 0 = follower)",
		},
	)

	RaftAppliedIndex = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "otool_raft_applied_index",
			Help: "Last applied Raft log index",
		},
	)

	// Editor metrics
	EditorsMounted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otool_editors_mounted_total",
			Help: "Total number of editors mounted by group",
		},
		[]string{"group"},
	)

	ReconciliationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otool_reconciliations_total",
			Help: "Total number of reconciliation checks by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	NormalizedEntriesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "otool_normalized_entries_dropped_total",
			Help: "Total number of blank list entries dropped before submission by kind",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(RecordsTotal)
	prometheus.MustRegister(SubmissionsTotal)
	prometheus.MustRegister(ApplyDuration)
	prometheus.MustRegister(RaftLeader)
	prometheus.MustRegister(RaftAppliedIndex)
	prometheus.MustRegister(EditorsMounted)
	prometheus.MustRegister(ReconciliationsTotal)
	prometheus.MustRegister(NormalizedEntriesDropped)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer measures the duration of an operation
type Timer struct {
	start time.Time
}

// NewTimer starts a timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the time elapsed since the timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time in seconds on the histogram
func (t *Timer) ObserveDuration(o prometheus.Observer) {
	o.Observe(t.Duration().Seconds())
}
