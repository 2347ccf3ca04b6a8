package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrder_Layers(t *testing.T) {
	layers, err := BuildOrder([]Node{
		{Name: "alice"},
		{Name: "bob1", DependsOn: []string{"alice"}},
		{Name: "bob2", DependsOn: []string{"alice"}},
	})
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, []string{"alice"}, layers[0])
	// Within a layer, declaration order is the tie-break.
	assert.Equal(t, []string{"bob1", "bob2"}, layers[1])
}

func TestBuildOrder_DeclarationOrderTieBreak(t *testing.T) {
	layers, err := BuildOrder([]Node{
		{Name: "zed"},
		{Name: "mid"},
		{Name: "ant"},
	})
	require.NoError(t, err)
	require.Len(t, layers, 1)
	assert.Equal(t, []string{"zed", "mid", "ant"}, layers[0])
}

func TestBuildOrder_Chain(t *testing.T) {
	layers, err := BuildOrder([]Node{
		{Name: "c", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"a"}},
		{Name: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b"}, {"c"}}, layers)
}

func TestBuildOrder_TopologicalProperty(t *testing.T) {
	nodes := []Node{
		{Name: "db"},
		{Name: "cache"},
		{Name: "api", DependsOn: []string{"db", "cache"}},
		{Name: "worker", DependsOn: []string{"db"}},
		{Name: "web", DependsOn: []string{"api"}},
	}
	layers, err := BuildOrder(nodes)
	require.NoError(t, err)

	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			assert.Less(t, Layer(layers, dep), Layer(layers, n.Name),
				"dependency %s must sit in an earlier layer than %s", dep, n.Name)
		}
	}
}

func TestBuildOrder_SelfCycle(t *testing.T) {
	_, err := BuildOrder([]Node{
		{Name: "zen", DependsOn: []string{"zen"}},
	})
	var cerr *CycleError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"zen"}, cerr.Containers)
}

func TestBuildOrder_TwoNodeCycle(t *testing.T) {
	_, err := BuildOrder([]Node{
		{Name: "zen", DependsOn: []string{"yen"}},
		{Name: "yen", DependsOn: []string{"zen"}},
	})
	var cerr *CycleError
	require.ErrorAs(t, err, &cerr)
	assert.ElementsMatch(t, []string{"zen", "yen"}, cerr.Containers)
}

func TestBuildOrder_CycleBehindLayer(t *testing.T) {
	// One clean layer resolves, then the cycle is caught.
	_, err := BuildOrder([]Node{
		{Name: "ok"},
		{Name: "a", DependsOn: []string{"ok", "b"}},
		{Name: "b", DependsOn: []string{"a"}},
	})
	var cerr *CycleError
	require.ErrorAs(t, err, &cerr)
	assert.ElementsMatch(t, []string{"a", "b"}, cerr.Containers)
}

func TestBuildOrder_UnknownDependency(t *testing.T) {
	_, err := BuildOrder([]Node{
		{Name: "a", DependsOn: []string{"ghost"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown node")
}

func TestBuildOrder_Empty(t *testing.T) {
	layers, err := BuildOrder(nil)
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestLayer_Absent(t *testing.T) {
	assert.Equal(t, -1, Layer([][]string{{"a"}}, "b"))
}
