package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCluster_NoGroup(t *testing.T) {
	m := loadFixture(t)

	specs, err := m.ResolveCluster("vanilla")
	require.NoError(t, err)
	require.Len(t, specs, 3)

	// Declared cluster order is preserved; launch ordering is the graph's job.
	assert.Equal(t, "alice", specs[0].Name)
	assert.Equal(t, "bob1", specs[1].Name)
	assert.Equal(t, "bob2", specs[2].Name)

	bob1 := specs[1]
	assert.Equal(t, "repo/bob", bob1.Image)
	assert.Equal(t, "./bob", bob1.ImageSource)
	assert.Equal(t, "host", bob1.Net)
	assert.False(t, bob1.Privileged)
	assert.Equal(t, []Dependency{{Target: "alice", Alias: "alice_alias"}}, bob1.Dependencies)
}

func TestResolveCluster_GroupOverrides(t *testing.T) {
	m := loadFixture(t)

	specs, err := m.ResolveCluster("with_group")
	require.NoError(t, err)
	require.Len(t, specs, 2)

	alice, bob2 := specs[0], specs[1]

	// Blanket options reach every container in the cluster.
	val, ok := alice.EnvValue("SOME_VAR")
	require.True(t, ok)
	assert.Equal(t, "'not world'", val)

	// Per-container overrides win over blanket options and the base.
	assert.Equal(t, "host", bob2.Net)
	assert.True(t, bob2.Privileged)
	val, ok = bob2.EnvValue("SOME_VAR")
	require.True(t, ok)
	assert.Equal(t, "'not world'", val)

	// bob1 is not in this cluster and its definition is untouched.
	bob1, _ := m.Container("bob1")
	assert.Equal(t, []string{"SOME_VAR='hello world'"}, bob1.Env)
	assert.False(t, bob1.Privileged)
}

func TestResolveCluster_Deterministic(t *testing.T) {
	m := loadFixture(t)

	first, err := m.ResolveCluster("with_group")
	require.NoError(t, err)
	second, err := m.ResolveCluster("with_group")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResolveCluster_DoesNotMutateBase(t *testing.T) {
	m := loadFixture(t)

	_, err := m.ResolveCluster("with_group")
	require.NoError(t, err)

	bob2, _ := m.Container("bob2")
	assert.Empty(t, bob2.Net)
	assert.False(t, bob2.Privileged)
	assert.Empty(t, bob2.Env)
}

func TestResolveCluster_UnknownCluster(t *testing.T) {
	m := loadFixture(t)
	_, err := m.ResolveCluster("pub")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wasn't found")
}

func TestEnvValue_LastWriteWins(t *testing.T) {
	spec := &EffectiveSpec{Env: []string{"X=1", "X=2"}}

	val, ok := spec.EnvValue("X")
	require.True(t, ok)
	assert.Equal(t, "2", val)
	// The ordered sequence keeps every entry for audit purposes.
	assert.Equal(t, []string{"X=1", "X=2"}, spec.Env)

	_, ok = spec.EnvValue("MISSING")
	assert.False(t, ok)
}

func TestResolveCluster_ListFieldsAppend(t *testing.T) {
	m, err := Parse([]byte(`
images:
  repo/a: ./a
containers:
  a:
    image: repo/a
    port: ["1000:1000"]
    mount: ["/data:/data"]
clusters:
  c:
    group: extra
    containers: ["a"]
groups:
  extra:
    options:
      port: ["2000:2000"]
    containers:
      a:
        mount: ["/cache:/cache"]
`))
	require.NoError(t, err)

	specs, err := m.ResolveCluster("c")
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, []string{"1000:1000", "2000:2000"}, specs[0].Ports)
	assert.Equal(t, []string{"/data:/data", "/cache:/cache"}, specs[0].Mounts)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not read manifest")
}
