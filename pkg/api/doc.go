/*
Package api serves the HTTP status endpoints of a running otool store.

	/health   overall component health (200, or 503 when a component is unhealthy)
	/ready    200 once raft has a leader and the store answers reads
	/live     200 while the process runs
	/metrics  Prometheus exposition

Only GET is accepted on the health endpoints. The server is started by
`otool serve`:

	hs := api.NewHealthServer(mgr)
	go hs.Start(":9090")
	defer hs.Shutdown(ctx)
*/
package api
