/*
Package reconciler loads a stored record into an editor draft.

An editor mounted with an identity (the id from the route) starts from an
empty draft. The reconciler fills it from the configuration store the first
time the record is available, and never again for the same identity, so
edits made after the load are kept no matter how often the check runs.

# Rules

Each call to Reconcile decides one of:

	create-mode          identity is empty; the draft keeps its defaults
	already-reconciled   identity was loaded before, or equals the draft id
	in-flight            another check for the identity has not finished
	not-found            the store has no such record yet; draft untouched
	invalid              the stored record was refused by the draft
	reconciled           the draft was overwritten with the stored record

The table of loaded identities is dropped when SetIdentity changes the
identity. A not-found or invalid check does not mark the identity, so a
later check retries.

# Store Updates

When records arrive asynchronously, Watch repeats the check after every
config.created, config.updated and config.seeded event of the draft's kind
until the outcome settles. An in-flight outcome makes Watch wait for the
competing check and then check again, so a miss racing with a store update
is retried:

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	outcome := rec.Watch(ctx, mgr.GetEventBroker())

Watch and direct calls share one code path, so a check triggered by
rendering and one triggered by a store update behave the same.
*/
package reconciler
