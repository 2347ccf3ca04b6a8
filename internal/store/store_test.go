package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveLoadDelete(t *testing.T) {
	s := openStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	records := []Record{
		{Cluster: "main", Container: "alice", ContainerID: "id-alice", Layer: 0, CreatedAt: now},
		{Cluster: "main", Container: "bob1", ContainerID: "id-bob1", Layer: 1, CreatedAt: now},
		{Cluster: "main", Container: "bob2", ContainerID: "id-bob2", Layer: 1, CreatedAt: now},
	}
	require.NoError(t, s.SaveCluster("main", records))

	got, err := s.LoadCluster("main")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "alice", got[0].Container)
	assert.Equal(t, "id-alice", got[0].ContainerID)
	assert.Equal(t, 0, got[0].Layer)
	assert.Equal(t, now, got[0].CreatedAt)
	assert.Equal(t, "bob1", got[1].Container)
	assert.Equal(t, "bob2", got[2].Container)

	require.NoError(t, s.DeleteCluster("main"))
	got, err = s.LoadCluster("main")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_SaveReplacesPreviousState(t *testing.T) {
	s := openStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.SaveCluster("main", []Record{
		{Cluster: "main", Container: "alice", ContainerID: "old", Layer: 0, CreatedAt: now},
		{Cluster: "main", Container: "bob1", ContainerID: "old", Layer: 1, CreatedAt: now},
	}))
	require.NoError(t, s.SaveCluster("main", []Record{
		{Cluster: "main", Container: "alice", ContainerID: "new", Layer: 0, CreatedAt: now},
	}))

	got, err := s.LoadCluster("main")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].ContainerID)
}

func TestStore_ClustersAreIndependent(t *testing.T) {
	s := openStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.SaveCluster("dev", []Record{
		{Cluster: "dev", Container: "alice", ContainerID: "a", Layer: 0, CreatedAt: now},
	}))
	require.NoError(t, s.SaveCluster("prod", []Record{
		{Cluster: "prod", Container: "alice", ContainerID: "b", Layer: 0, CreatedAt: now},
	}))

	require.NoError(t, s.DeleteCluster("dev"))

	got, err := s.LoadCluster("prod")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ContainerID)
}

func TestStore_LoadUnknownClusterIsEmpty(t *testing.T) {
	s := openStore(t)
	got, err := s.LoadCluster("nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}
