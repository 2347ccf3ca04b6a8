// Package graph computes dependency-layered launch orders for container
// sets. Containers in the same layer have no edges between them and may start
// concurrently; every dependency of a container sits in an earlier layer.
package graph

import (
	"fmt"
	"strings"
)

// Node is one container in the dependency graph. DependsOn lists the names of
// the containers it needs running before it starts.
type Node struct {
	Name      string
	DependsOn []string
}

// CycleError is returned when the graph admits no topological order. A cycle
// aborts the whole launch before anything is started.
type CycleError struct {
	Containers []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving containers: %s",
		strings.Join(e.Containers, ", "))
}

// BuildOrder computes the dependency layers for the given nodes using
// in-degree tracking. Input order is the declaration order and is the
// tie-break within a layer, so the result is stable across runs.
func BuildOrder(nodes []Node) ([][]string, error) {
	indegree := make(map[string]int, len(nodes))
	dependents := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		if _, dup := indegree[n.Name]; dup {
			return nil, fmt.Errorf("duplicate node %q", n.Name)
		}
		indegree[n.Name] = 0
	}
	for _, n := range nodes {
		for _, dep := range n.DependsOn {
			if _, ok := indegree[dep]; !ok {
				return nil, fmt.Errorf("node %q depends on unknown node %q", n.Name, dep)
			}
			indegree[n.Name]++
			dependents[dep] = append(dependents[dep], n.Name)
		}
	}

	remaining := len(nodes)
	done := make(map[string]bool, len(nodes))
	var layers [][]string
	for remaining > 0 {
		var layer []string
		for _, n := range nodes {
			if !done[n.Name] && indegree[n.Name] == 0 {
				layer = append(layer, n.Name)
			}
		}
		if len(layer) == 0 {
			var stuck []string
			for _, n := range nodes {
				if !done[n.Name] {
					stuck = append(stuck, n.Name)
				}
			}
			return nil, &CycleError{Containers: stuck}
		}
		for _, name := range layer {
			done[name] = true
			remaining--
			for _, dep := range dependents[name] {
				indegree[dep]--
			}
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// Layer returns the layer index of a name in a layering, or -1 when absent.
func Layer(layers [][]string, name string) int {
	for i, layer := range layers {
		for _, n := range layer {
			if n == name {
				return i
			}
		}
	}
	return -1
}
