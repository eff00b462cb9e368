package router

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fakekoji/otool/pkg/draft"
	"github.com/fakekoji/otool/pkg/events"
	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/reconciler"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op   string
	item types.Item
}

// fakeStore records every create/update call
type fakeStore struct {
	mu           sync.Mutex
	records      map[types.Kind]map[string]types.Item
	calls        []call
	notification manager.Notification
	discarded    int
}

func newFakeStore(items ...types.Item) *fakeStore {
	s := &fakeStore{records: make(map[types.Kind]map[string]types.Item)}
	for _, item := range items {
		s.put(item)
	}
	return s
}

func (s *fakeStore) put(item types.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.records[item.Kind()] == nil {
		s.records[item.Kind()] = make(map[string]types.Item)
	}
	s.records[item.Kind()][item.GetID()] = item
}

func (s *fakeStore) Lookup(kind types.Kind, id string) (types.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.records[kind][id]
	return item, ok
}

func (s *fakeStore) CreateConfig(item types.Item) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{op: "create", item: item})
	return "req-create"
}

func (s *fakeStore) UpdateConfig(item types.Item) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{op: "update", item: item})
	return "req-update"
}

func (s *fakeStore) Notification() manager.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notification
}

func (s *fakeStore) DiscardNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notification = manager.Notification{}
	s.discarded++
}

func TestMountDispatch(t *testing.T) {
	r := NewRouter(newFakeStore(), nil)

	tests := []struct {
		group string
		want  any
	}{
		{"tasks", &draft.TaskDraft{}},
		{"platforms", &draft.PlatformDraft{}},
		{"jdkProjects", &draft.JDKProjectDraft{}},
		{"jdkTestProjects", &draft.JDKTestProjectDraft{}},
	}

	for _, tt := range tests {
		t.Run(tt.group, func(t *testing.T) {
			e := r.Mount(tt.group, "")
			require.NotNil(t, e)
			assert.Equal(t, Group(tt.group), e.Group())
			assert.IsType(t, tt.want, e.Draft())
			assert.Equal(t, Group(tt.group).Kind(), e.Item().Kind())
		})
	}
}

func TestMountUnknownGroup(t *testing.T) {
	r := NewRouter(newFakeStore(), nil)

	assert.Nil(t, r.Mount("bogus", ""))
	assert.Nil(t, r.Mount("", "p1"))
	assert.Equal(t, types.Kind(""), Group("bogus").Kind())
}

func TestSubmitWithoutIDCreates(t *testing.T) {
	store := newFakeStore()
	r := NewRouter(store, nil)

	e := r.Mount("tasks", "")
	require.NoError(t, e.SetField("id", "tck"))

	assert.Equal(t, "req-create", e.Submit())
	require.Len(t, store.calls, 1)
	assert.Equal(t, "create", store.calls[0].op)
	assert.Equal(t, "tck", store.calls[0].item.GetID())
}

func TestSubmitWithIDUpdates(t *testing.T) {
	remote := types.NewJDKTestProject()
	remote.ID = "p1"
	store := newFakeStore(remote)
	r := NewRouter(store, nil)

	e := r.Mount("jdkTestProjects", "p1")
	assert.Equal(t, "p1", e.Identity())
	assert.Equal(t, "p1", e.Item().GetID())

	// Renaming in the draft does not turn the submit into a create.
	require.NoError(t, e.SetField("id", "p2"))

	assert.Equal(t, "req-update", e.Submit())
	require.Len(t, store.calls, 1)
	assert.Equal(t, "update", store.calls[0].op)
	assert.Equal(t, "p2", store.calls[0].item.GetID())
}

func TestSubmitOncePerAction(t *testing.T) {
	store := newFakeStore()
	r := NewRouter(store, nil)

	e := r.Mount("platforms", "")
	e.Submit()
	e.Submit()

	assert.Len(t, store.calls, 2)
}

func TestSubmitNormalizesDraftInPlace(t *testing.T) {
	store := newFakeStore()
	r := NewRouter(store, nil)

	e := r.Mount("tasks", "")
	task := e.Draft().(*draft.TaskDraft)
	task.SetRPMBlacklist([]string{"", "  ", "pkgA", "pkgB "})

	e.Submit()

	require.Len(t, store.calls, 1)
	submitted := store.calls[0].item.(*types.Task)
	assert.Equal(t, []string{"pkgA", "pkgB "}, submitted.RPMLimitation.Blacklist)
	assert.Same(t, e.Item(), store.calls[0].item)
}

func TestMountReconcilesOnce(t *testing.T) {
	remote := types.NewTask()
	remote.ID = "tck"
	remote.Script = "/scripts/tck.sh"
	r := NewRouter(newFakeStore(remote), nil)

	e := r.Mount("tasks", "tck")
	require.NoError(t, e.SetField("script", "/scripts/edited.sh"))

	assert.Equal(t, reconciler.OutcomeAlreadyReconciled, e.Reconcile())
	assert.Equal(t, "/scripts/edited.sh", e.Item().(*types.Task).Script)
}

func TestMountMissingRecordKeepsDefaults(t *testing.T) {
	r := NewRouter(newFakeStore(), nil)

	e := r.Mount("tasks", "ghost")
	require.NotNil(t, e)
	assert.Empty(t, e.Item().GetID())
	assert.Equal(t, reconciler.OutcomeNotFound, e.Reconcile())
}

func TestWatchFollowsStoreUpdates(t *testing.T) {
	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	store := newFakeStore()
	r := NewRouter(store, broker)
	e := r.Mount("platforms", "el8.x86_64")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan reconciler.Outcome, 1)
	go func() { done <- e.Watch(ctx) }()

	// One subscriber is the watch; drafts only publish.
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 1 }, time.Second, 10*time.Millisecond)

	store.put(&types.Platform{ID: "el8.x86_64", OS: "el"})
	broker.Publish(&events.Event{Type: events.EventConfigSeeded, Kind: string(types.KindPlatform), ItemID: "el8.x86_64"})

	select {
	case outcome := <-done:
		assert.Equal(t, reconciler.OutcomeReconciled, outcome)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not finish")
	}
	assert.Equal(t, "el", e.Item().(*types.Platform).OS)
}

func TestNotification(t *testing.T) {
	store := newFakeStore()
	r := NewRouter(store, nil)

	assert.Nil(t, r.Notification())

	store.notification = manager.Notification{RequestID: "r1", Error: "task tck: already exists"}
	n := r.Notification()
	require.NotNil(t, n)
	assert.True(t, n.Error)
	assert.Equal(t, "task tck: already exists", n.Message)
	assert.Equal(t, "r1", n.RequestID)

	result := &types.JobUpdateResults{JobsCreated: []types.JobUpdateResult{{JobName: "task/tck", Success: true}}}
	store.notification = manager.Notification{RequestID: "r2", Result: result}
	n = r.Notification()
	require.NotNil(t, n)
	assert.False(t, n.Error)
	assert.Equal(t, DoneMessage, n.Message)
	assert.Same(t, result, n.Result)

	r.Dismiss()
	assert.Nil(t, r.Notification())
	assert.Equal(t, 1, store.discarded)
}
