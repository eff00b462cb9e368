/*
Package metrics provides Prometheus metrics and health endpoints for otool.

Every metric is registered with the default Prometheus registry at package
init and exposed through Handler.

# Metric Categories

Store:
  - otool_records_total{kind}: records currently stored
  - otool_config_submissions_total{kind,op,status}: create/update outcomes
  - otool_config_apply_duration_seconds: raft apply latency

Raft:
  - otool_raft_is_leader: 1 when this node leads
  - otool_raft_applied_index: last applied log index

Editors:
  - otool_editors_mounted_total{group}: editors handed out by the router
  - otool_reconciliations_total{kind,outcome}: reconciliation checks
  - otool_normalized_entries_dropped_total{kind}: blank list entries removed
    before submission

# Timing

	timer := metrics.NewTimer()
	future := r.Apply(data, timeout)
	timer.ObserveDuration(metrics.ApplyDuration)

# Health

Components report their state with RegisterComponent. HealthHandler
serves the overall status, ReadyHandler answers 200 only when the store
and raft components are healthy, and LivenessHandler always answers 200
while the process runs.

	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/health", metrics.HealthHandler())
	mux.HandleFunc("/ready", metrics.ReadyHandler())
	mux.HandleFunc("/live", metrics.LivenessHandler())
*/
package metrics
