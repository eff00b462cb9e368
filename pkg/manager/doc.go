/*
Package manager implements the otool configuration store.

The manager owns every persisted record: tasks, JDK projects, JDK test
projects, platforms, products and build providers. Writes are proposed as
commands to a single-node Raft instance and applied by ConfigFSM to the
bolt store in pkg/storage. Reads go to the bolt store directly.

# Architecture

	┌──────────────────── MANAGER ─────────────────────┐
	│                                                    │
	│   CreateConfig / UpdateConfig   Seed / Delete      │
	│          │ (async)                 │ (sync)        │
	│          ▼                         ▼               │
	│   ┌──────────────────────────────────────┐        │
	│   │          Raft (single voter)          │        │
	│   │  log + stable store: raft-boltdb      │        │
	│   │  snapshots: CBOR + zstd               │        │
	│   └──────────────────┬───────────────────┘        │
	│                      ▼                             │
	│   ┌──────────────────────────────────────┐        │
	│   │      ConfigFSM -> storage.Store       │        │
	│   └──────────────────────────────────────┘        │
	│                                                    │
	│   Notification flags     events.Broker             │
	└────────────────────────────────────────────────────┘

# Submissions

CreateConfig and UpdateConfig return immediately with a request id. The
command is applied in the background and its outcome lands in the
Notification: either Error or Result is set, never both. The outcome is
also published as a config.created, config.updated or config.error event.
The flags stay until DiscardNotification is called.

The store rejects a create for an id that already exists and an update for
an id that does not. Seed creates or replaces and is synchronous; it loads
reference lists and fixtures.

# Usage

	mgr, err := manager.NewManager(&manager.Config{DataDir: "/var/lib/otool"})
	if err != nil {
		return err
	}
	if err := mgr.Bootstrap(); err != nil {
		return err
	}
	defer mgr.Shutdown()

	mgr.CreateConfig(task)
	mgr.Wait()
	if n := mgr.Notification(); n.Error != "" {
		fmt.Println(n.Error)
	}

# Metrics

MetricsCollector refreshes the record count gauges and the Raft leader and
applied index gauges every 15 seconds. Apply latency and submission
outcomes are recorded inline.
*/
package manager
