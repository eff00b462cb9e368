/*
Package storage provides BoltDB-backed persistence for otool configuration records.

The storage package implements the Store interface using BoltDB (bbolt) as an
embedded, transactional database. Each entity kind lives in its own bucket,
keyed by record id, with JSON-encoded values.

# Buckets

	tasks               Task records
	jdk_projects        JDKProject records
	jdk_test_projects   JDKTestProject records
	platforms           Platform records
	products            Product reference records
	build_providers     BuildProvider reference records

# Semantics

Create refuses an id that is already taken (ErrAlreadyExists). Update refuses
an id that does not exist (ErrNotFound). Get of a missing id returns
ErrNotFound; callers check with errors.Is. Delete is idempotent.

List returns records in bucket key order, i.e. sorted by id, so reference
lists offered as choices are stable between calls.

Dump and Restore move the raw encoded contents of all buckets in one
transaction. The manager's raft FSM uses them to snapshot and restore the
whole store without decoding records.

# Transactions

Reads run in db.View and may proceed concurrently; writes run in db.Update
and are serialized by BoltDB. The existence check and the write of Create
and Update happen inside the same write transaction.
*/
package storage
