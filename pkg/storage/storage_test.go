package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "store.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDBLoadMissingKey(t *testing.T) {
	db := openTestDB(t)

	dst := sample{Name: "untouched"}
	found, err := Load(context.Background(), db, KeyGoals, &dst)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "untouched", dst.Name)
}

func TestDBSaveThenLoad(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, Save(ctx, db, KeyGoals, sample{Name: "a", Count: 1}))
	require.NoError(t, Save(ctx, db, KeyGoals, sample{Name: "b", Count: 2}))

	var got sample
	found, err := Load(ctx, db, KeyGoals, &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "b", Count: 2}, got)
}

func TestDBSaveManyIsAtomicOnUnknownKey(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	err := SaveMany(ctx, db, map[string]any{
		KeyProspection: []int{1},
		"bogus":        true,
	})
	require.ErrorIs(t, err, ErrUnknownKey)

	_, found, err := db.LoadRaw(ctx, KeyProspection)
	require.NoError(t, err)
	assert.False(t, found, "no key must be written when the batch is rejected")
}

func TestDBSaveManyAndStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, SaveMany(ctx, db, map[string]any{
		KeyProspection: []int{},
		KeyArchives:    []int{1, 2, 3},
	}))

	stats, err := db.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, KeyArchives, stats[0].Key)
	assert.Equal(t, len("[1,2,3]"), stats[0].Bytes)
	assert.False(t, stats[0].UpdatedAt.IsZero())
	assert.Equal(t, KeyProspection, stats[1].Key)
}

func TestDBDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveRaw(ctx, KeyTheme, []byte(`"dark"`)))
	require.NoError(t, db.Delete(ctx, KeyTheme))
	require.NoError(t, db.Delete(ctx, KeyTheme))

	_, found, err := db.LoadRaw(ctx, KeyTheme)
	require.NoError(t, err)
	assert.False(t, found)
}

type unlockFailure struct{ err error }

func (unlockFailure) Lock() error     { return nil }
func (u unlockFailure) Unlock() error { return u.err }

func TestDBWritesReportUnlockFailure(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("lock file vanished")
	db.lock = unlockFailure{err: boom}

	assert.ErrorIs(t, db.SaveRaw(ctx, KeyTheme, []byte(`"dark"`)), boom)
	assert.ErrorIs(t, db.Delete(ctx, KeyTheme), boom)
}

func TestKeys(t *testing.T) {
	ctx := context.Background()
	for name, s := range map[string]Store{"sqlite": openTestDB(t), "memory": NewMemStore()} {
		t.Run(name, func(t *testing.T) {
			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys)

			require.NoError(t, s.SaveRaw(ctx, KeyTheme, []byte(`"dark"`)))
			require.NoError(t, s.SaveRaw(ctx, KeyIdeas, []byte(`[]`)))

			keys, err = s.Keys(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{KeyTheme, KeyIdeas}, keys)
		})
	}
}

func TestLoadCorruptBlob(t *testing.T) {
	m := NewMemStore()
	ctx := context.Background()
	require.NoError(t, m.SaveRaw(ctx, KeyIdeas, []byte("{not json")))

	var dst []sample
	found, err := Load(ctx, m, KeyIdeas, &dst)
	assert.True(t, found)
	assert.Error(t, err)
}

func TestMemStoreFailKeys(t *testing.T) {
	boom := errors.New("disk full")
	m := NewMemStore()
	m.FailKeys = map[string]error{KeyArchives: boom}
	ctx := context.Background()

	err := SaveMany(ctx, m, map[string]any{KeyArchives: 1, KeyProspection: 2})
	require.ErrorIs(t, err, boom)

	_, found, _ := m.LoadRaw(ctx, KeyProspection)
	assert.False(t, found)
}
