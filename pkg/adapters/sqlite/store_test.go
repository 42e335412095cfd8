package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/scribble/pkg/adapters/sqlite"
	"github.com/aretw0/scribble/pkg/core"
)

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.GetItem(ctx, core.DefaultSlot)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(ctx, core.DefaultSlot, "[]"))
	require.NoError(t, s.SetItem(ctx, core.DefaultSlot, `[{"id":"a"}]`))

	v, ok, err := s.GetItem(ctx, core.DefaultSlot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, v)

	assert.Error(t, s.SetItem(ctx, "", "x"))
}

func TestStore_Keys(t *testing.T) {
	ctx := context.Background()
	s, err := sqlite.Open(ctx, sqlite.MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	for _, k := range []string{"note@z", "note@a", "prefs"} {
		require.NoError(t, s.SetItem(ctx, k, "x"))
	}

	keys, err := s.Keys(ctx, "note@*")
	require.NoError(t, err)
	assert.Equal(t, []string{"note@a", "note@z"}, keys)

	_, err = s.Keys(ctx, "[")
	assert.Error(t, err)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "scribble.db")

	first, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	notes := core.NewStore(first)
	notes.Restore(ctx)
	_, err = notes.Create(ctx, "kept in sqlite")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer second.Close()

	restored := core.NewStore(second).Restore(ctx)
	require.Len(t, restored, 1)
	assert.Equal(t, "kept in sqlite", restored[0].Content)

	state := second.State().(sqlite.StoreState)
	assert.Equal(t, path, state.Path)
	assert.Equal(t, "sqlite", second.ComponentType())
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scribble.db")

	_, err := sqlite.Open(ctx, path, sqlite.WithReadOnly(true))
	require.Error(t, err, "read-only open must not create the database")

	rw, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, rw.SetItem(ctx, core.DefaultSlot, "[]"))
	require.NoError(t, rw.Close())

	ro, err := sqlite.Open(ctx, path, sqlite.WithReadOnly(true))
	require.NoError(t, err)
	defer ro.Close()

	assert.ErrorIs(t, ro.SetItem(ctx, core.DefaultSlot, `[{"id":"a"}]`), core.ErrReadOnly)

	v, ok, err := ro.GetItem(ctx, core.DefaultSlot)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]", v)
	assert.True(t, ro.State().(sqlite.StoreState).ReadOnly)
}

func TestStore_MustExist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.db")
	_, err := sqlite.Open(context.Background(), path, sqlite.WithMustExist(true))
	assert.Error(t, err)
}
