package reconciler

import (
	"context"
	"sync"

	"github.com/fakekoji/otool/pkg/events"
	"github.com/fakekoji/otool/pkg/log"
	"github.com/fakekoji/otool/pkg/metrics"
	"github.com/fakekoji/otool/pkg/types"
	"github.com/rs/zerolog"
)

// Lookup finds a stored record by kind and id
type Lookup interface {
	Lookup(kind types.Kind, id string) (types.Item, bool)
}

// Target is the draft a reconciler fills
type Target interface {
	Kind() types.Kind
	CurrentID() string
	Overwrite(item types.Item) bool
}

// Outcome is the result of one reconciliation check
type Outcome string

const (
	// OutcomeCreateMode means there is no identity; the draft keeps its defaults
	OutcomeCreateMode Outcome = "create-mode"
	// OutcomeAlreadyReconciled means the identity was loaded before
	OutcomeAlreadyReconciled Outcome = "already-reconciled"
	// OutcomeInFlight means another check for the identity has not finished
	OutcomeInFlight Outcome = "in-flight"
	// OutcomeNotFound means the record is not in the store yet
	OutcomeNotFound Outcome = "not-found"
	// OutcomeInvalid means the stored record was refused by the draft
	OutcomeInvalid Outcome = "invalid"
	// OutcomeReconciled means the draft was overwritten by this check
	OutcomeReconciled Outcome = "reconciled"
)

// Settled reports whether further checks for the same identity can change
// anything
func (o Outcome) Settled() bool {
	switch o {
	case OutcomeCreateMode, OutcomeAlreadyReconciled, OutcomeReconciled:
		return true
	}
	return false
}

// claim marks an identity taken by a check. done is closed when the check
// finishes; loaded is set before that if the draft was overwritten.
type claim struct {
	done   chan struct{}
	loaded bool
}

// Reconciler loads a stored record into a draft once per identity. Checks
// are cheap and safe to repeat: after the first successful load, operator
// edits are never overwritten until the identity changes.
type Reconciler struct {
	lookup Lookup
	target Target
	logger zerolog.Logger

	mu       sync.Mutex
	identity string
	claims   map[string]*claim
}

// NewReconciler creates a reconciler for target. An empty identity puts
// the editor in create mode.
func NewReconciler(lookup Lookup, target Target, identity string) *Reconciler {
	return &Reconciler{
		lookup:   lookup,
		target:   target,
		logger:   log.WithKind("reconciler", string(target.Kind())),
		identity: identity,
		claims:   make(map[string]*claim),
	}
}

// Identity returns the current identity input
func (r *Reconciler) Identity() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.identity
}

// SetIdentity changes the identity input. A different identity forgets
// every earlier load.
func (r *Reconciler) SetIdentity(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id == r.identity {
		return
	}
	r.identity = id
	r.claims = make(map[string]*claim)
}

// Reconcile runs one check. It may be called from a draft subscriber.
func (r *Reconciler) Reconcile() Outcome {
	outcome, _ := r.check()
	return outcome
}

// check runs one check. For OutcomeInFlight it also returns a channel
// closed when the competing check finishes.
func (r *Reconciler) check() (Outcome, <-chan struct{}) {
	id, outcome, wait := r.reconcile()
	metrics.ReconciliationsTotal.WithLabelValues(string(r.target.Kind()), string(outcome)).Inc()
	r.logger.Debug().
		Str("identity", id).
		Str("outcome", string(outcome)).
		Msg("reconciliation check")
	return outcome, wait
}

func (r *Reconciler) reconcile() (string, Outcome, <-chan struct{}) {
	r.mu.Lock()
	id := r.identity
	if id == "" {
		r.mu.Unlock()
		return id, OutcomeCreateMode, nil
	}
	// The draft id is read first: a subscriber notified by an overwrite in
	// progress sees the loaded id and must not wait on its own claim.
	if r.target.CurrentID() == id {
		if _, ok := r.claims[id]; !ok {
			done := make(chan struct{})
			close(done)
			r.claims[id] = &claim{done: done, loaded: true}
		}
		r.mu.Unlock()
		return id, OutcomeAlreadyReconciled, nil
	}
	if c, ok := r.claims[id]; ok {
		r.mu.Unlock()
		if c.loaded {
			return id, OutcomeAlreadyReconciled, nil
		}
		return id, OutcomeInFlight, c.done
	}
	c := &claim{done: make(chan struct{})}
	r.claims[id] = c
	r.mu.Unlock()

	item, ok := r.lookup.Lookup(r.target.Kind(), id)
	if !ok {
		r.release(id, c)
		return id, OutcomeNotFound, nil
	}
	if !r.target.Overwrite(item) {
		r.release(id, c)
		return id, OutcomeInvalid, nil
	}

	r.mu.Lock()
	c.loaded = true
	r.mu.Unlock()
	close(c.done)
	return id, OutcomeReconciled, nil
}

// release drops a failed claim so a later check retries
func (r *Reconciler) release(id string, c *claim) {
	r.mu.Lock()
	if r.claims[id] == c {
		delete(r.claims, id)
	}
	r.mu.Unlock()
	close(c.done)
}

// Watch checks once, then again after every store update of the target's
// kind and after any competing check finishes, until a check settles or
// ctx is done. It returns the last outcome.
func (r *Reconciler) Watch(ctx context.Context, broker *events.Broker) Outcome {
	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	kind := string(r.target.Kind())
	outcome, wait := r.check()

	for !outcome.Settled() {
		select {
		case event, ok := <-sub:
			if !ok {
				return outcome
			}
			if !event.Type.IsStoreUpdate() || event.Kind != kind {
				continue
			}
		case <-wait:
		case <-ctx.Done():
			return outcome
		}
		outcome, wait = r.check()
	}

	return outcome
}
