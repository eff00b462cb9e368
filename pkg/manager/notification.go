package manager

import (
	"github.com/fakekoji/otool/pkg/events"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/google/uuid"
)

// Notification holds the outcome of the last submission. Error and Result
// are independent flags; a new outcome sets one and clears the other. Both
// stay until DiscardNotification.
type Notification struct {
	RequestID string
	Kind      types.Kind
	ItemID    string
	Error     string
	Result    *types.JobUpdateResults
}

// Empty reports whether neither flag is set
func (n Notification) Empty() bool {
	return n.Error == "" && n.Result == nil
}

// CreateConfig submits a new record. The write happens in the background;
// its outcome is reported through Notification and the event broker. The
// returned request id identifies the outcome.
func (m *Manager) CreateConfig(item types.Item) string {
	return m.submit(opCreate, item)
}

// UpdateConfig submits a replacement for an existing record, with the same
// reporting contract as CreateConfig
func (m *Manager) UpdateConfig(item types.Item) string {
	return m.submit(opUpdate, item)
}

func (m *Manager) submit(op string, item types.Item) string {
	requestID := uuid.New().String()
	kind, id := item.Kind(), item.GetID()

	// Encoded before returning; callers keep mutating their draft.
	cmd, err := newCommand(op, item)

	m.pending.Add(1)
	go func() {
		defer m.pending.Done()
		if err == nil {
			err = m.Apply(cmd)
		}
		m.finish(requestID, op, kind, id, err)
	}()

	return requestID
}

func (m *Manager) finish(requestID, op string, kind types.Kind, id string, err error) {
	n := Notification{RequestID: requestID, Kind: kind, ItemID: id}
	event := &events.Event{
		Kind:      string(kind),
		ItemID:    id,
		RequestID: requestID,
	}

	logger := m.logger.With().
		Str("request_id", requestID).
		Str("kind", string(kind)).
		Str("item_id", id).
		Str("op", op).
		Logger()

	if err != nil {
		n.Error = err.Error()
		event.Type = events.EventConfigError
		event.Message = n.Error
		metrics.SubmissionsTotal.WithLabelValues(string(kind), op, "error").Inc()
		logger.Error().Err(err).Msg("submission failed")
	} else {
		n.Result = resultFor(op, kind, id)
		event.Type = events.EventConfigUpdated
		if op == opCreate {
			event.Type = events.EventConfigCreated
		}
		metrics.SubmissionsTotal.WithLabelValues(string(kind), op, "success").Inc()
		logger.Info().Msg("submission applied")
	}

	m.mu.Lock()
	m.notification = n
	m.mu.Unlock()

	m.eventBroker.Publish(event)
}

// resultFor reports the written record as the single job touched by the
// submission. Generating CI jobs from records happens outside this store.
func resultFor(op string, kind types.Kind, id string) *types.JobUpdateResults {
	r := &types.JobUpdateResults{
		JobsCreated:   []types.JobUpdateResult{},
		JobsArchived:  []types.JobUpdateResult{},
		JobsRewritten: []types.JobUpdateResult{},
		JobsRevived:   []types.JobUpdateResult{},
	}
	entry := types.JobUpdateResult{JobName: string(kind) + "/" + id, Success: true}
	if op == opCreate {
		r.JobsCreated = append(r.JobsCreated, entry)
	} else {
		r.JobsRewritten = append(r.JobsRewritten, entry)
	}
	return r
}

// Notification returns the current outcome flags
func (m *Manager) Notification() Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notification
}

// DiscardNotification clears both outcome flags
func (m *Manager) DiscardNotification() {
	m.mu.Lock()
	m.notification = Notification{}
	m.mu.Unlock()

	m.eventBroker.Publish(&events.Event{Type: events.EventNotificationDiscarded})
}

// Wait blocks until every submission handed to the manager has an outcome
func (m *Manager) Wait() {
	m.pending.Wait()
}
