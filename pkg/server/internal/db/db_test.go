package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "karata.sqlite")
	database, err := NewDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSaveAndLoadRoomConfig(t *testing.T) {
	d := newTestDB(t)

	require.NoError(t, d.SaveRoomConfig("room1", "alice", 2, 4, []string{"alice"}))
	require.NoError(t, d.SaveRoomConfig("room1", "", 2, 4, []string{"alice", "bob"}))

	rec, err := d.LoadRoom("room1")
	require.NoError(t, err)
	require.Equal(t, "room1", rec.ID)
	require.Equal(t, "alice", rec.HostID, "a roster update with an empty hostID must not clobber the founding host")
	require.Equal(t, []string{"alice", "bob"}, rec.Players)
	require.Nil(t, rec.Snapshot)
}

func TestSaveSnapshotRequiresExistingRoom(t *testing.T) {
	d := newTestDB(t)
	err := d.SaveSnapshot("missing", []byte(`{}`))
	require.Error(t, err)
}

func TestSaveSnapshotPersists(t *testing.T) {
	d := newTestDB(t)
	require.NoError(t, d.SaveRoomConfig("room1", "alice", 2, 2, []string{"alice", "bob"}))
	require.NoError(t, d.SaveSnapshot("room1", []byte(`{"foo":"bar"}`)))

	rec, err := d.LoadRoom("room1")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"foo":"bar"}`), rec.Snapshot)
}

func TestListRoomIDsAndDeleteRoom(t *testing.T) {
	d := newTestDB(t)
	require.NoError(t, d.SaveRoomConfig("room1", "alice", 2, 2, []string{"alice"}))
	require.NoError(t, d.SaveRoomConfig("room2", "carol", 2, 2, []string{"carol"}))

	ids, err := d.ListRoomIDs()
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"room1", "room2"}, ids)

	require.NoError(t, d.DeleteRoom("room1"))
	ids, err = d.ListRoomIDs()
	require.NoError(t, err)
	require.Equal(t, []string{"room2"}, ids)
}

func TestLoadRoomMissing(t *testing.T) {
	d := newTestDB(t)
	_, err := d.LoadRoom("nope")
	require.Error(t, err)
}
