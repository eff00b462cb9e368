package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/fakekoji/otool/pkg/storage"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/hashicorp/raft"
)

const (
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
	opSeed   = "seed"
)

// ConfigFSM implements the Raft Finite State Machine for the configuration store.
// It applies log entries to the bolt store and handles snapshots.
type ConfigFSM struct {
	mu    sync.RWMutex
	store storage.Store
}

// NewConfigFSM creates a new FSM instance
func NewConfigFSM(store storage.Store) *ConfigFSM {
	return &ConfigFSM{
		store: store,
	}
}

// Command represents a state change operation in the Raft log
type Command struct {
	Op   string          `json:"op"`
	Kind types.Kind      `json:"kind"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Apply applies a Raft log entry to the FSM.
// The returned value is the error of the store operation, or nil.
func (f *ConfigFSM) Apply(log *raft.Log) interface{} {
	var cmd Command
	if err := json.Unmarshal(log.Data, &cmd); err != nil {
		return fmt.Errorf("failed to unmarshal command: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if cmd.Op == opDelete {
		return f.store.Delete(cmd.Kind, cmd.ID)
	}

	item := types.New(cmd.Kind)
	if item == nil {
		return fmt.Errorf("%s: %w", cmd.Kind, storage.ErrUnknownKind)
	}
	if err := json.Unmarshal(cmd.Data, item); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", cmd.Kind, err)
	}

	switch cmd.Op {
	case opCreate:
		return f.store.Create(item)
	case opUpdate:
		return f.store.Update(item)
	case opSeed:
		err := f.store.Create(item)
		if errors.Is(err, storage.ErrAlreadyExists) {
			err = f.store.Update(item)
		}
		return err
	default:
		return fmt.Errorf("unknown command: %s", cmd.Op)
	}
}

// Snapshot creates a point-in-time snapshot of the FSM.
// This is called periodically by Raft to compact the log.
func (f *ConfigFSM) Snapshot() (raft.FSMSnapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	buckets, err := f.store.Dump()
	if err != nil {
		return nil, fmt.Errorf("failed to dump store: %w", err)
	}

	return &ConfigSnapshot{Buckets: buckets}, nil
}

// Restore replaces the store contents with a snapshot.
// This is called when a node restarts from a snapshot.
func (f *ConfigFSM) Restore(rc io.ReadCloser) error {
	defer rc.Close()

	snapshot, err := decodeSnapshot(rc)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.store.Restore(snapshot.Buckets); err != nil {
		return fmt.Errorf("failed to restore store: %w", err)
	}
	return nil
}

// ConfigSnapshot represents a point-in-time copy of every bucket
type ConfigSnapshot struct {
	Buckets map[string]map[string][]byte `cbor:"buckets"`
}

// Persist writes the snapshot to the given SnapshotSink
func (s *ConfigSnapshot) Persist(sink raft.SnapshotSink) error {
	err := func() error {
		if err := encodeSnapshot(sink, s); err != nil {
			return err
		}
		return sink.Close()
	}()

	if err != nil {
		sink.Cancel()
	}

	return err
}

// Release releases the snapshot resources
func (s *ConfigSnapshot) Release() {}
