package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/JiayiXu/mutagen/internal/model"
)

func TestLocalTimeoutStore_SaveAndLoad(t *testing.T) {
	path := m.Path(filepath.Join(t.TempDir(), "target", "mutagen", "timeouts.yaml"))
	store := NewLocalTimeoutStore()

	ledger := m.TimeoutLedger{Generation: "gen-1"}
	ledger.Record(3, "tests::loops_forever")
	ledger.Record(3, "tests::loops_forever") // de-duplicated
	ledger.Record(5, "tests::other")

	require.NoError(t, store.Save(path, ledger))

	loaded, err := store.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gen-1", loaded.Generation)
	require.Len(t, loaded.Entries, 2)
	assert.True(t, loaded.Has(3, "tests::loops_forever"))
	assert.True(t, loaded.Has(5, "tests::other"))
	assert.False(t, loaded.Has(3, "tests::other"))
}

func TestLocalTimeoutStore_Load_MissingIsEmpty(t *testing.T) {
	store := NewLocalTimeoutStore()

	ledger, err := store.Load(m.Path(filepath.Join(t.TempDir(), "timeouts.yaml")))
	require.NoError(t, err)
	assert.Empty(t, ledger.Entries)
}

func TestLocalTimeoutStore_Load_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeouts.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entries: {broken"), 0o644))

	store := NewLocalTimeoutStore()

	_, err := store.Load(m.Path(path))
	require.Error(t, err)
}

func TestLocalTimeoutStore_Clear(t *testing.T) {
	path := m.Path(filepath.Join(t.TempDir(), "timeouts.yaml"))
	store := NewLocalTimeoutStore()

	require.NoError(t, store.Save(path, m.TimeoutLedger{Entries: []m.TimeoutEntry{{MutationID: 1, Test: "t"}}}))
	require.NoError(t, store.Clear(path))

	_, err := os.Stat(string(path))
	assert.True(t, os.IsNotExist(err))

	// Clearing an already-missing ledger is fine.
	require.NoError(t, store.Clear(path))
}
