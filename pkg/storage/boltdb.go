package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/fakekoji/otool/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var buckets = map[types.Kind][]byte{
	types.KindTask:           []byte("tasks"),
	types.KindJDKProject:     []byte("jdk_projects"),
	types.KindJDKTestProject: []byte("jdk_test_projects"),
	types.KindPlatform:       []byte("platforms"),
	types.KindProduct:        []byte("products"),
	types.KindBuildProvider:  []byte("build_providers"),
}

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "otool.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func bucketFor(kind types.Kind) ([]byte, error) {
	b, ok := buckets[kind]
	if !ok {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnknownKind)
	}
	return b, nil
}

func (s *BoltStore) put(item types.Item, mustExist bool) error {
	name, err := bucketFor(item.Kind())
	if err != nil {
		return err
	}
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode %s %s: %w", item.Kind(), item.GetID(), err)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(name)
		exists := b.Get([]byte(item.GetID())) != nil
		switch {
		case mustExist && !exists:
			return fmt.Errorf("%s %s: %w", item.Kind(), item.GetID(), ErrNotFound)
		case !mustExist && exists:
			return fmt.Errorf("%s %s: %w", item.Kind(), item.GetID(), ErrAlreadyExists)
		}
		return b.Put([]byte(item.GetID()), data)
	})
}

// Create stores a new record; the id must not be taken
func (s *BoltStore) Create(item types.Item) error {
	return s.put(item, false)
}

// Update replaces an existing record
func (s *BoltStore) Update(item types.Item) error {
	return s.put(item, true)
}

func (s *BoltStore) Get(kind types.Kind, id string) (types.Item, error) {
	name, err := bucketFor(kind)
	if err != nil {
		return nil, err
	}
	item := types.New(kind)
	err = s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(name).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return json.Unmarshal(data, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// List returns every record of the kind ordered by id
func (s *BoltStore) List(kind types.Kind) ([]types.Item, error) {
	name, err := bucketFor(kind)
	if err != nil {
		return nil, err
	}
	var items []types.Item
	err = s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(name).ForEach(func(k, v []byte) error {
			item := types.New(kind)
			if err := json.Unmarshal(v, item); err != nil {
				return fmt.Errorf("failed to decode %s %s: %w", kind, k, err)
			}
			items = append(items, item)
			return nil
		})
	})
	return items, err
}

// Delete removes a record; the id must exist
func (s *BoltStore) Delete(kind types.Kind, id string) error {
	name, err := bucketFor(kind)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(name)
		if b.Get([]byte(id)) == nil {
			return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
		}
		return b.Delete([]byte(id))
	})
}

// Dump copies every bucket out of the database
func (s *BoltStore) Dump() (map[string]map[string][]byte, error) {
	out := make(map[string]map[string][]byte, len(buckets))
	err := s.db.View(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			records := make(map[string][]byte)
			err := tx.Bucket(name).ForEach(func(k, v []byte) error {
				records[string(k)] = append([]byte(nil), v...)
				return nil
			})
			if err != nil {
				return err
			}
			out[string(name)] = records
		}
		return nil
	})
	return out, err
}

// Restore drops every bucket and refills it from data
func (s *BoltStore) Restore(data map[string]map[string][]byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range buckets {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return fmt.Errorf("failed to drop bucket %s: %w", name, err)
			}
			b, err := tx.CreateBucket(name)
			if err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
			for id, v := range data[string(name)] {
				if err := b.Put([]byte(id), v); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
