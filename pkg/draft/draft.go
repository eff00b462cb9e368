package draft

import (
	"errors"
	"sync"

	"github.com/fakekoji/otool/pkg/events"
	"github.com/fakekoji/otool/pkg/types"
)

// ErrUnknownField is returned by SetField for a name the draft does not have
var ErrUnknownField = errors.New("unknown field")

// Editable is the surface the router and reconciler use to drive a draft
// without knowing its entity type
type Editable interface {
	Kind() types.Kind
	CurrentID() string
	Overwrite(item types.Item) bool
	SetField(name, value string) error
	SetListField(field ListField, raw string)
	Normalize()
	Item() types.Item
}

var (
	_ Editable = (*TaskDraft)(nil)
	_ Editable = (*JDKTestProjectDraft)(nil)
	_ Editable = (*JDKProjectDraft)(nil)
	_ Editable = (*PlatformDraft)(nil)
)

type subscriber[T types.Item] struct {
	id int
	fn func(T)
}

// Draft is an observable working copy of one record. Every mutation goes
// through Update, which notifies subscribers after the change is applied.
type Draft[T types.Item] struct {
	mu          sync.Mutex
	state       T
	clone       func(T) T
	subscribers []subscriber[T]
	nextID      int
	broker      *events.Broker
}

// New wraps initial in a draft. clone must return a deep copy.
func New[T types.Item](initial T, clone func(T) T) *Draft[T] {
	return &Draft[T]{state: initial, clone: clone}
}

// Attach publishes a draft.changed event on broker after every update
func (d *Draft[T]) Attach(broker *events.Broker) {
	d.mu.Lock()
	d.broker = broker
	d.mu.Unlock()
}

// Subscribe registers fn to be called with the state after every update.
// The returned func removes the subscription.
func (d *Draft[T]) Subscribe(fn func(T)) (cancel func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++
	d.subscribers = append(d.subscribers, subscriber[T]{id: id, fn: fn})

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, s := range d.subscribers {
			if s.id == id {
				d.subscribers = append(d.subscribers[:i], d.subscribers[i+1:]...)
				return
			}
		}
	}
}

// Update applies fn to the state and notifies subscribers. Subscribers
// receive a deep copy taken under the lock; they run outside it and may
// call Update themselves.
func (d *Draft[T]) Update(fn func(T)) {
	d.mu.Lock()
	fn(d.state)
	subs := append([]subscriber[T](nil), d.subscribers...)
	var state T
	if len(subs) > 0 {
		state = d.clone(d.state)
	}
	kind, id := d.state.Kind(), d.state.GetID()
	broker := d.broker
	d.mu.Unlock()

	for _, s := range subs {
		s.fn(state)
	}

	if broker != nil {
		broker.Publish(&events.Event{
			Type:   events.EventDraftChanged,
			Kind:   string(kind),
			ItemID: id,
		})
	}
}

// View calls fn with the state under the lock. fn must not retain it.
func (d *Draft[T]) View(fn func(T)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.state)
}

// Snapshot returns a deep copy of the current state
func (d *Draft[T]) Snapshot() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.clone(d.state)
}

// Item returns the live state. The same object is normalized in place and
// handed to the store on submit.
func (d *Draft[T]) Item() types.Item {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Kind returns the record kind held by the draft
func (d *Draft[T]) Kind() types.Kind {
	return d.state.Kind()
}

// CurrentID returns the draft's own id field
func (d *Draft[T]) CurrentID() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.GetID()
}
