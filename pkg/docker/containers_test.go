package docker

import (
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPortMaps(t *testing.T) {
	exposed, bindings, err := buildPortMaps([]string{"8080:80", "5353:53/udp"})
	require.NoError(t, err)

	tcp, err := nat.NewPort("tcp", "80")
	require.NoError(t, err)
	udp, err := nat.NewPort("udp", "53")
	require.NoError(t, err)

	assert.Contains(t, exposed, tcp)
	assert.Contains(t, exposed, udp)
	require.Len(t, bindings[tcp], 1)
	assert.Equal(t, "8080", bindings[tcp][0].HostPort)
	assert.Equal(t, "0.0.0.0", bindings[tcp][0].HostIP)
	require.Len(t, bindings[udp], 1)
	assert.Equal(t, "5353", bindings[udp][0].HostPort)
}

func TestBuildPortMaps_DefaultsToTCP(t *testing.T) {
	exposed, _, err := buildPortMaps([]string{"9000:9000"})
	require.NoError(t, err)

	port, err := nat.NewPort("tcp", "9000")
	require.NoError(t, err)
	assert.Contains(t, exposed, port)
}

func TestBuildPortMaps_SamePortTwoBindings(t *testing.T) {
	_, bindings, err := buildPortMaps([]string{"8080:80", "8081:80"})
	require.NoError(t, err)

	port, err := nat.NewPort("tcp", "80")
	require.NoError(t, err)
	require.Len(t, bindings[port], 2)
	assert.Equal(t, "8080", bindings[port][0].HostPort)
	assert.Equal(t, "8081", bindings[port][1].HostPort)
}

func TestBuildPortMaps_RejectsBareSpec(t *testing.T) {
	_, _, err := buildPortMaps([]string{"8080"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port specification")
}

func TestBuildPortMaps_RejectsNonNumericContainerPort(t *testing.T) {
	_, _, err := buildPortMaps([]string{"8080:http"})
	require.Error(t, err)
}

func TestBuildBinds_CopiesSpecs(t *testing.T) {
	mounts := []string{"/data:/var/lib/data"}
	binds := buildBinds(mounts)
	require.Equal(t, mounts, binds)
	binds[0] = "changed"
	assert.Equal(t, "/data:/var/lib/data", mounts[0])
}
