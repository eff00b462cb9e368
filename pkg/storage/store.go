package storage

import (
	"errors"

	"github.com/fakekoji/otool/pkg/types"
)

var (
	// ErrNotFound is returned when no record of the kind has the id
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when creating a record whose id is taken
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnknownKind is returned for a kind without a bucket
	ErrUnknownKind = errors.New("unknown kind")
)

// Store defines the interface for configuration record storage
type Store interface {
	Create(item types.Item) error
	Get(kind types.Kind, id string) (types.Item, error)
	List(kind types.Kind) ([]types.Item, error)
	Update(item types.Item) error
	Delete(kind types.Kind, id string) error

	// Dump returns the raw encoded records of every bucket, keyed by
	// bucket name then record id
	Dump() (map[string]map[string][]byte, error)
	// Restore replaces every bucket with the given raw records
	Restore(data map[string]map[string][]byte) error

	Close() error
}
