// Package engine is the lifecycle orchestrator: it turns a validated
// manifest and a cluster name into a correctly ordered set of running
// containers, and reverses that process on teardown.
package engine

import (
	"github.com/flotilla-dev/flotilla/internal/store"
	"github.com/flotilla-dev/flotilla/pkg/graph"
	"github.com/flotilla-dev/flotilla/pkg/manifest"
	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// NetworkPrefix prefixes the per-cluster bridge network name.
const NetworkPrefix = "flotilla-"

// NetworkName returns the cluster-scoped network name.
func NetworkName(cluster string) string {
	return NetworkPrefix + cluster
}

// StateStore persists which containers a cluster launch produced, so stop,
// status and teardown operate on the same resolved set. A nil store degrades
// to re-resolving from the manifest and looking containers up by name.
type StateStore interface {
	SaveCluster(cluster string, records []store.Record) error
	LoadCluster(cluster string) ([]store.Record, error)
	DeleteCluster(cluster string) error
}

// Engine drives the external container runtime. The manifest passed to each
// operation is read-only; every launch computes its own effective specs and
// owns them for the duration of the session.
type Engine struct {
	rt    runtime.Runtime
	state StateStore
}

// New builds an engine over a runtime. state may be nil.
func New(rt runtime.Runtime, state StateStore) *Engine {
	return &Engine{rt: rt, state: state}
}

// LaunchOptions selects how far a launch drives each container.
type LaunchOptions struct {
	// Start starts containers and waits for readiness layer by layer. When
	// false the engine only creates containers and binds aliases.
	Start bool
}

// LaunchResult describes a successful launch.
type LaunchResult struct {
	Cluster    string
	Layers     [][]string
	Containers map[string]runtime.Handle
}

// resolveOrder resolves a cluster to its effective specs and dependency
// layers. Nothing has touched the runtime when it returns an error.
func resolveOrder(m *manifest.Manifest, cluster string) ([]*manifest.EffectiveSpec, [][]string, error) {
	specs, err := m.ResolveCluster(cluster)
	if err != nil {
		return nil, nil, err
	}
	nodes := make([]graph.Node, len(specs))
	for i, spec := range specs {
		n := graph.Node{Name: spec.Name}
		for _, dep := range spec.Dependencies {
			n.DependsOn = append(n.DependsOn, dep.Target)
		}
		nodes[i] = n
	}
	layers, err := graph.BuildOrder(nodes)
	if err != nil {
		return nil, nil, err
	}
	return specs, layers, nil
}
