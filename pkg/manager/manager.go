package manager

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fakekoji/otool/pkg/events"
	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/fakekoji/otool/pkg/storage"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/hashicorp/raft"
	raftboltdb "github.com/hashicorp/raft-boltdb"
	"github.com/rs/zerolog"
)

const applyTimeout = 5 * time.Second

// Manager is the configuration store: it owns the bolt store, the raft
// instance every write goes through, the event broker and the
// notification flags surfaced to editors
type Manager struct {
	nodeID   string
	bindAddr string
	dataDir  string

	raft        *raft.Raft
	raftStore   *raftboltdb.BoltStore
	fsm         *ConfigFSM
	store       storage.Store
	eventBroker *events.Broker
	logger      zerolog.Logger

	mu           sync.Mutex
	notification Notification
	pending      sync.WaitGroup
}

// Config holds configuration for creating a Manager
type Config struct {
	NodeID string
	// BindAddr is the raft TCP address. Empty selects an in-memory
	// transport, which is all a single-node store needs.
	BindAddr string
	DataDir  string
}

// NewManager creates a new Manager instance
func NewManager(cfg *Config) (*Manager, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := storage.NewBoltStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	metrics.RegisterComponent(metrics.ComponentStore, true, "")

	eventBroker := events.NewBroker()
	eventBroker.Start()

	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = "otool-1"
	}

	return &Manager{
		nodeID:      nodeID,
		bindAddr:    cfg.BindAddr,
		dataDir:     cfg.DataDir,
		fsm:         NewConfigFSM(store),
		store:       store,
		eventBroker: eventBroker,
		logger:      log.WithComponent("manager"),
	}, nil
}

// Bootstrap starts raft and makes this node the single voter of the
// cluster. An existing raft state in the data directory is reused.
func (m *Manager) Bootstrap() error {
	config := raft.DefaultConfig()
	config.LocalID = raft.ServerID(m.nodeID)
	config.HeartbeatTimeout = 500 * time.Millisecond
	config.ElectionTimeout = 500 * time.Millisecond
	config.CommitTimeout = 50 * time.Millisecond
	config.LeaderLeaseTimeout = 250 * time.Millisecond
	config.LogOutput = m.logger
	config.LogLevel = "WARN"

	transport, err := m.newTransport()
	if err != nil {
		return err
	}

	snapshotStore, err := raft.NewFileSnapshotStore(m.dataDir, 2, m.logger)
	if err != nil {
		return fmt.Errorf("failed to create snapshot store: %w", err)
	}

	raftStore, err := raftboltdb.NewBoltStore(filepath.Join(m.dataDir, "raft.db"))
	if err != nil {
		return fmt.Errorf("failed to create log store: %w", err)
	}
	m.raftStore = raftStore

	existing, err := raft.HasExistingState(raftStore, raftStore, snapshotStore)
	if err != nil {
		return fmt.Errorf("failed to inspect raft state: %w", err)
	}

	r, err := raft.NewRaft(config, m.fsm, raftStore, raftStore, snapshotStore, transport)
	if err != nil {
		return fmt.Errorf("failed to create raft: %w", err)
	}
	m.raft = r

	if !existing {
		configuration := raft.Configuration{
			Servers: []raft.Server{
				{
					ID:      config.LocalID,
					Address: transport.LocalAddr(),
				},
			},
		}
		if err := r.BootstrapCluster(configuration).Error(); err != nil {
			return fmt.Errorf("failed to bootstrap cluster: %w", err)
		}
	}

	if err := m.waitForLeader(10 * time.Second); err != nil {
		metrics.RegisterComponent(metrics.ComponentRaft, false, err.Error())
		return err
	}
	metrics.RegisterComponent(metrics.ComponentRaft, true, "")

	m.logger.Info().
		Str("node_id", m.nodeID).
		Bool("restored", existing).
		Msg("configuration store ready")
	return nil
}

func (m *Manager) newTransport() (raft.Transport, error) {
	if m.bindAddr == "" {
		_, transport := raft.NewInmemTransport(raft.ServerAddress(m.nodeID))
		return transport, nil
	}

	addr, err := net.ResolveTCPAddr("tcp", m.bindAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve bind address: %w", err)
	}
	transport, err := raft.NewTCPTransport(m.bindAddr, addr, 3, 10*time.Second, m.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}
	return transport, nil
}

func (m *Manager) waitForLeader(timeout time.Duration) error {
	deadline := time.After(timeout)
	ticker := time.NewTicker(20 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if m.IsLeader() {
				return nil
			}
		case <-deadline:
			return fmt.Errorf("no raft leader after %v", timeout)
		}
	}
}

// Shutdown waits for outstanding submissions, then stops raft, the broker
// and closes the stores
func (m *Manager) Shutdown() error {
	m.pending.Wait()

	var errs []error
	if m.raft != nil {
		if err := m.raft.Shutdown().Error(); err != nil {
			errs = append(errs, fmt.Errorf("failed to shutdown raft: %w", err))
		}
	}
	if m.raftStore != nil {
		if err := m.raftStore.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close raft store: %w", err))
		}
	}
	if err := m.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	m.eventBroker.Stop()
	return errors.Join(errs...)
}

// IsLeader returns true if this manager is the Raft leader
func (m *Manager) IsLeader() bool {
	if m.raft == nil {
		return false
	}
	return m.raft.State() == raft.Leader
}

// GetRaftStats returns Raft statistics
func (m *Manager) GetRaftStats() map[string]interface{} {
	if m.raft == nil {
		return nil
	}

	stats := make(map[string]interface{})
	stats["state"] = m.raft.State().String()
	stats["last_log_index"] = m.raft.LastIndex()
	stats["applied_index"] = m.raft.AppliedIndex()
	stats["leader"] = string(m.raft.Leader())

	return stats
}

// GetEventBroker returns the event broker
func (m *Manager) GetEventBroker() *events.Broker {
	return m.eventBroker
}

// Apply submits a command to the Raft cluster and returns the store error
// the FSM produced for it
func (m *Manager) Apply(cmd Command) error {
	if m.raft == nil {
		return fmt.Errorf("raft not initialized")
	}

	data, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("failed to marshal command: %w", err)
	}

	timer := metrics.NewTimer()
	future := m.raft.Apply(data, applyTimeout)
	if err := future.Error(); err != nil {
		return fmt.Errorf("failed to apply command: %w", err)
	}
	timer.ObserveDuration(metrics.ApplyDuration)

	if resp := future.Response(); resp != nil {
		if err, ok := resp.(error); ok && err != nil {
			return err
		}
	}

	return nil
}

func newCommand(op string, item types.Item) (Command, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return Command{}, fmt.Errorf("failed to marshal %s: %w", item.Kind(), err)
	}
	return Command{Op: op, Kind: item.Kind(), ID: item.GetID(), Data: data}, nil
}

// Lookup returns the stored record of the kind with the id. A missing
// record is reported as absent, not as an error.
func (m *Manager) Lookup(kind types.Kind, id string) (types.Item, bool) {
	item, err := m.store.Get(kind, id)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			m.logger.Warn().Err(err).Str("kind", string(kind)).Str("item_id", id).Msg("lookup failed")
		}
		return nil, false
	}
	return item, true
}

// List returns every stored record of the kind
func (m *Manager) List(kind types.Kind) ([]types.Item, error) {
	return m.store.List(kind)
}

// Delete removes a record
func (m *Manager) Delete(kind types.Kind, id string) error {
	return m.Apply(Command{Op: opDelete, Kind: kind, ID: id})
}

// Seed creates or replaces records synchronously. It is used to load
// reference lists (platforms, products, build providers) and fixtures.
func (m *Manager) Seed(items ...types.Item) error {
	for _, item := range items {
		cmd, err := newCommand(opSeed, item)
		if err != nil {
			return err
		}
		if err := m.Apply(cmd); err != nil {
			return fmt.Errorf("failed to seed %s %s: %w", item.Kind(), item.GetID(), err)
		}
		m.eventBroker.Publish(&events.Event{
			Type:   events.EventConfigSeeded,
			Kind:   string(item.Kind()),
			ItemID: item.GetID(),
		})
	}
	return nil
}

func listAs[T types.Item](m *Manager, kind types.Kind) ([]T, error) {
	items, err := m.store.List(kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		out = append(out, item.(T))
	}
	return out, nil
}

// Platforms returns the platform reference list
func (m *Manager) Platforms() ([]*types.Platform, error) {
	return listAs[*types.Platform](m, types.KindPlatform)
}

// Products returns the product reference list
func (m *Manager) Products() ([]*types.Product, error) {
	return listAs[*types.Product](m, types.KindProduct)
}

// BuildProviders returns the build provider reference list
func (m *Manager) BuildProviders() ([]*types.BuildProvider, error) {
	return listAs[*types.BuildProvider](m, types.KindBuildProvider)
}
