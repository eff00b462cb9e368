package storage

import (
	"testing"

	"github.com/fakekoji/otool/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// TestCreateAndGet tests storing and loading a record of each kind
func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)

	task := types.NewTask()
	task.ID = "tck"
	task.Script = "/scripts/tck.sh"
	task.RPMLimitation.Blacklist = []string{"", "debuginfo"}

	project := types.NewJDKTestProject()
	project.ID = "jdk17-tests"
	project.Product = "jdk17"

	items := []types.Item{
		task,
		project,
		&types.Platform{ID: "el8.x86_64", OS: "el", Version: "8", Architecture: "x86_64"},
		&types.Product{ID: "jdk17", PackageName: "java-17-openjdk"},
		&types.BuildProvider{ID: "brew", TopURL: "http://brew"},
	}

	for _, item := range items {
		t.Run(string(item.Kind()), func(t *testing.T) {
			require.NoError(t, s.Create(item))

			got, err := s.Get(item.Kind(), item.GetID())
			require.NoError(t, err)
			assert.Equal(t, item, got)
		})
	}
}

// TestCreateDuplicate tests that an existing id is rejected
func TestCreateDuplicate(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Create(&types.Product{ID: "jdk17"}))
	err := s.Create(&types.Product{ID: "jdk17"})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

// TestUpdateMissing tests that updating an unknown id fails
func TestUpdateMissing(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(&types.Product{ID: "jdk21"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Create(&types.Product{ID: "jdk21"}))
	require.NoError(t, s.Update(&types.Product{ID: "jdk21", PackageName: "java-21-openjdk"}))

	got, err := s.Get(types.KindProduct, "jdk21")
	require.NoError(t, err)
	assert.Equal(t, "java-21-openjdk", got.(*types.Product).PackageName)
}

// TestGetMissing tests lookup of an absent id
func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(types.KindTask, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Get(types.Kind("bogus"), "x")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

// TestListOrdered tests that List returns records sorted by id
func TestListOrdered(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"koji", "brew", "hydra"} {
		require.NoError(t, s.Create(&types.BuildProvider{ID: id}))
	}

	items, err := s.List(types.KindBuildProvider)
	require.NoError(t, err)

	var ids []string
	for _, item := range items {
		ids = append(ids, item.GetID())
	}
	assert.Equal(t, []string{"brew", "hydra", "koji"}, ids)
}

// TestDelete tests that deleting a missing record is an error
func TestDelete(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.Create(&types.Product{ID: "jdk8"}))
	require.NoError(t, s.Delete(types.KindProduct, "jdk8"))
	assert.ErrorIs(t, s.Delete(types.KindProduct, "jdk8"), ErrNotFound)
	assert.ErrorIs(t, s.Delete(types.KindTask, "ghost"), ErrNotFound)

	_, err := s.Get(types.KindProduct, "jdk8")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestDumpRestore tests moving the whole store into another database
func TestDumpRestore(t *testing.T) {
	src := newTestStore(t)
	require.NoError(t, src.Create(&types.Product{ID: "jdk17"}))
	require.NoError(t, src.Create(&types.Platform{ID: "f40.x86_64", Tags: []string{"fedora"}}))

	data, err := src.Dump()
	require.NoError(t, err)

	dst := newTestStore(t)
	require.NoError(t, dst.Create(&types.Product{ID: "stale"}))
	require.NoError(t, dst.Restore(data))

	_, err = dst.Get(types.KindProduct, "stale")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := dst.Get(types.KindPlatform, "f40.x86_64")
	require.NoError(t, err)
	assert.Equal(t, []string{"fedora"}, got.(*types.Platform).Tags)
}
