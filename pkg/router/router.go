package router

import (
	"context"

	"github.com/fakekoji/otool/pkg/draft"
	"github.com/fakekoji/otool/pkg/events"
	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/manager"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/fakekoji/otool/pkg/reconciler"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/rs/zerolog"
)

// Group is the discriminator selecting which editor to mount
type Group string

const (
	GroupJDKProjects     Group = "jdkProjects"
	GroupJDKTestProjects Group = "jdkTestProjects"
	GroupTasks           Group = "tasks"
	GroupPlatforms       Group = "platforms"
)

// Groups lists every group with an editor
var Groups = []Group{GroupJDKProjects, GroupJDKTestProjects, GroupTasks, GroupPlatforms}

// Kind returns the record kind edited in the group, or "" for an unknown
// group
func (g Group) Kind() types.Kind {
	switch g {
	case GroupJDKProjects:
		return types.KindJDKProject
	case GroupJDKTestProjects:
		return types.KindJDKTestProject
	case GroupTasks:
		return types.KindTask
	case GroupPlatforms:
		return types.KindPlatform
	}
	return ""
}

// DoneMessage is shown for a successful submission
const DoneMessage = "Done, see console output"

// Store is the configuration store the router drives
type Store interface {
	reconciler.Lookup
	CreateConfig(item types.Item) string
	UpdateConfig(item types.Item) string
	Notification() manager.Notification
	DiscardNotification()
}

// Router mounts editors by group and bridges submission outcomes
type Router struct {
	store  Store
	broker *events.Broker
	logger zerolog.Logger
}

// NewRouter creates a router over store. broker may be nil; when set,
// drafts publish their changes on it and Editor.Watch can follow store
// updates.
func NewRouter(store Store, broker *events.Broker) *Router {
	return &Router{
		store:  store,
		broker: broker,
		logger: log.WithComponent("router"),
	}
}

// Mount builds the editor for group and runs the first reconciliation.
// An empty id mounts the editor in create mode. An unknown group mounts
// nothing and returns nil.
func (r *Router) Mount(group, id string) *Editor {
	g := Group(group)

	var d draft.Editable
	switch g {
	case GroupJDKProjects:
		pd := draft.NewJDKProjectDraft()
		r.attach(pd)
		d = pd
	case GroupJDKTestProjects:
		td := draft.NewJDKTestProjectDraft()
		r.attach(td)
		d = td
	case GroupTasks:
		td := draft.NewTaskDraft()
		r.attach(td)
		d = td
	case GroupPlatforms:
		pd := draft.NewPlatformDraft()
		r.attach(pd)
		d = pd
	default:
		r.logger.Debug().Str("group", group).Msg("no editor for group")
		return nil
	}

	metrics.EditorsMounted.WithLabelValues(group).Inc()
	r.logger.Debug().Str("group", group).Str("id", id).Msg("editor mounted")

	e := &Editor{
		group:      g,
		identity:   id,
		draft:      d,
		reconciler: reconciler.NewReconciler(r.store, d, id),
		onSubmit:   r.onSubmit(id),
		broker:     r.broker,
	}
	e.Reconcile()
	return e
}

// attacher is implemented by every *draft.Draft
type attacher interface {
	Attach(broker *events.Broker)
}

func (r *Router) attach(d attacher) {
	if r.broker != nil {
		d.Attach(r.broker)
	}
}

// onSubmit picks create or update from the id the editor was mounted with,
// not from the draft's own id
func (r *Router) onSubmit(id string) func(types.Item) string {
	return func(item types.Item) string {
		if id == "" {
			return r.store.CreateConfig(item)
		}
		return r.store.UpdateConfig(item)
	}
}

// Snackbar is the message shown for the last submission outcome
type Snackbar struct {
	Message   string
	RequestID string
	Error     bool
	Result    *types.JobUpdateResults
}

// Notification returns the message for the current outcome flags, or nil
// when neither is set
func (r *Router) Notification() *Snackbar {
	n := r.store.Notification()
	switch {
	case n.Error != "":
		return &Snackbar{Message: n.Error, RequestID: n.RequestID, Error: true}
	case n.Result != nil:
		return &Snackbar{Message: DoneMessage, RequestID: n.RequestID, Result: n.Result}
	}
	return nil
}

// Dismiss clears the outcome flags
func (r *Router) Dismiss() {
	r.store.DiscardNotification()
}

// Editor is one mounted draft with its reconciler and submit callback
type Editor struct {
	group      Group
	identity   string
	draft      draft.Editable
	reconciler *reconciler.Reconciler
	onSubmit   func(types.Item) string
	broker     *events.Broker
}

func (e *Editor) Group() Group { return e.group }

// Identity returns the id the editor was mounted with
func (e *Editor) Identity() string { return e.identity }

// Draft returns the draft. Callers needing typed setters assert it to the
// concrete draft type of the group.
func (e *Editor) Draft() draft.Editable { return e.draft }

// Reconcile repeats the reconciliation check
func (e *Editor) Reconcile() reconciler.Outcome {
	return e.reconciler.Reconcile()
}

// Watch repeats the reconciliation check on store updates until it
// settles. Without a broker it checks once.
func (e *Editor) Watch(ctx context.Context) reconciler.Outcome {
	if e.broker == nil {
		return e.reconciler.Reconcile()
	}
	return e.reconciler.Watch(ctx, e.broker)
}

// SetField sets a draft field from its string form
func (e *Editor) SetField(name, value string) error {
	return e.draft.SetField(name, value)
}

// Item returns the live draft record
func (e *Editor) Item() types.Item {
	return e.draft.Item()
}

// Submit normalizes the draft in place and hands it to the store. It
// returns the request id of the submission.
func (e *Editor) Submit() string {
	e.draft.Normalize()
	return e.onSubmit(e.draft.Item())
}
