package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)

	rec := Record{
		ID:         "attempt-1",
		ChainID:    "juno-1",
		Asset:      "JUNO",
		TxHash:     "ABC123",
		Recipients: 3,
		Total:      "4.5",
		Timestamp:  time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Record(rec))

	records, err := store.List("juno-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec, records[0])
}

func TestList_FilterByChain(t *testing.T) {
	store := openStore(t)

	require.NoError(t, store.Record(Record{ID: "a", ChainID: "juno-1", TxHash: "A"}))
	require.NoError(t, store.Record(Record{ID: "b", ChainID: "cosmoshub-4", TxHash: "B"}))

	juno, err := store.List("juno-1")
	require.NoError(t, err)
	assert.Len(t, juno, 1)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecord_RequiresID(t *testing.T) {
	store := openStore(t)
	assert.Error(t, store.Record(Record{ChainID: "juno-1"}))
}

func TestRecord_FillsTimestamp(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.Record(Record{ID: "x", ChainID: "juno-1"}))

	records, err := store.List("juno-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].Timestamp.IsZero())
}
