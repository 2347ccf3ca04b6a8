package engine

import (
	"sync"

	"github.com/flotilla-dev/flotilla/pkg/manifest"
	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// State is a container's position in its lifecycle within one session.
type State int

const (
	StatePending State = iota
	StateCreated
	StateStarted
	StateRunning
	StateFailed
	StateStopped
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// session owns the transient state of one launch: the effective specs, the
// layering, and per-container handles and states. It is created per launch
// invocation and discarded (or handed to rollback) when the launch ends.
// Containers within a layer progress concurrently, so mutation is locked.
type session struct {
	cluster string
	layers  [][]string

	mu      sync.Mutex
	specs   map[string]*manifest.EffectiveSpec
	handles map[string]runtime.Handle
	states  map[string]State
	layerOf map[string]int
	adopted map[string]bool
}

func newSession(cluster string, specs []*manifest.EffectiveSpec, layers [][]string) *session {
	s := &session{
		cluster: cluster,
		layers:  layers,
		specs:   make(map[string]*manifest.EffectiveSpec, len(specs)),
		handles: make(map[string]runtime.Handle, len(specs)),
		states:  make(map[string]State, len(specs)),
		layerOf: make(map[string]int, len(specs)),
		adopted: make(map[string]bool),
	}
	for _, spec := range specs {
		s.specs[spec.Name] = spec
		s.states[spec.Name] = StatePending
	}
	for i, layer := range layers {
		for _, name := range layer {
			s.layerOf[name] = i
		}
	}
	return s
}

func (s *session) spec(name string) *manifest.EffectiveSpec {
	return s.specs[name]
}

func (s *session) setState(name string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[name] = st
}

func (s *session) markCreated(name string, h runtime.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[name] = h
	s.states[name] = StateCreated
}

// markAdopted records a container that already existed at the runtime,
// typically from an earlier create-only launch. Adopted containers are
// started and watched like created ones, but rollback never removes them.
func (s *session) markAdopted(name string, h runtime.Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handles[name] = h
	s.states[name] = StateCreated
	s.adopted[name] = true
}

func (s *session) isAdopted(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adopted[name]
}

func (s *session) handle(name string) (runtime.Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.handles[name]
	return h, ok
}

func (s *session) state(name string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[name]
}

// handleMap snapshots the handles of every created container.
func (s *session) handleMap() map[string]runtime.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	handles := make(map[string]runtime.Handle, len(s.handles))
	for name, h := range s.handles {
		handles[name] = h
	}
	return handles
}

// createdReverse returns every container that reached Created or beyond, in
// strict reverse dependency order: deepest layer first, reverse declaration
// order within a layer.
func (s *session) createdReverse() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for li := len(s.layers) - 1; li >= 0; li-- {
		layer := s.layers[li]
		for i := len(layer) - 1; i >= 0; i-- {
			name := layer[i]
			if st := s.states[name]; st >= StateCreated && st != StateRemoved {
				names = append(names, name)
			}
		}
	}
	return names
}
