package engine

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/flotilla-dev/flotilla/internal/store"
	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// fakeRuntime records every lifecycle call in order and fails on demand.
type fakeRuntime struct {
	mu    sync.Mutex
	calls []string

	failCreate map[string]error
	failStart  map[string]error
	failReady  map[string]error
	failStop   map[string]error
	failRemove map[string]error

	existing map[string]runtime.Handle // name -> handle for FindContainer
	statuses map[string]*runtime.Status
	specs    map[string]*runtime.Spec // name -> spec passed to CreateContainer

	readyHook func(name string) // runs at the top of WaitReady
}

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		failCreate: map[string]error{},
		failStart:  map[string]error{},
		failReady:  map[string]error{},
		failStop:   map[string]error{},
		failRemove: map[string]error{},
		existing:   map[string]runtime.Handle{},
		statuses:   map[string]*runtime.Status{},
		specs:      map[string]*runtime.Spec{},
	}
}

func (f *fakeRuntime) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeRuntime) resetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeRuntime) callList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// callIndex returns the position of the first call with the given prefix,
// or -1.
func (f *fakeRuntime) callIndex(prefix string) int {
	for i, c := range f.callList() {
		if strings.HasPrefix(c, prefix) {
			return i
		}
	}
	return -1
}

func plainSpec(name string) *runtime.Spec {
	return &runtime.Spec{Name: name, Image: "repo/app"}
}

func (f *fakeRuntime) Ping(ctx context.Context) error { return nil }

func (f *fakeRuntime) EnsureNetwork(ctx context.Context, name string) (string, error) {
	f.record("ensure-net %s", name)
	return "net-" + name, nil
}

func (f *fakeRuntime) RemoveNetwork(ctx context.Context, name string) error {
	f.record("rm-net %s", name)
	return nil
}

func (f *fakeRuntime) CreateContainer(ctx context.Context, spec *runtime.Spec) (runtime.Handle, error) {
	if err := f.failCreate[spec.Name]; err != nil {
		f.record("create %s (failed)", spec.Name)
		return runtime.Handle{}, err
	}
	f.record("create %s", spec.Name)
	h := runtime.Handle{ID: "id-" + spec.Name, Name: spec.Name}
	f.mu.Lock()
	f.existing[spec.Name] = h
	f.specs[spec.Name] = spec
	f.mu.Unlock()
	return h, nil
}

func (f *fakeRuntime) BindAliases(ctx context.Context, h runtime.Handle, network string, aliases []string) error {
	f.record("bind %s %s", h.Name, strings.Join(aliases, ","))
	return nil
}

func (f *fakeRuntime) StartContainer(ctx context.Context, h runtime.Handle) error {
	if err := f.failStart[h.Name]; err != nil {
		f.record("start %s (failed)", h.Name)
		return err
	}
	f.record("start %s", h.Name)
	return nil
}

func (f *fakeRuntime) WaitReady(ctx context.Context, h runtime.Handle) error {
	if f.readyHook != nil {
		f.readyHook(h.Name)
	}
	if err := f.failReady[h.Name]; err != nil {
		f.record("ready %s (failed)", h.Name)
		return err
	}
	f.record("ready %s", h.Name)
	return nil
}

func (f *fakeRuntime) StopContainer(ctx context.Context, h runtime.Handle) error {
	if err := f.failStop[h.Name]; err != nil {
		f.record("stop %s (failed)", h.Name)
		return err
	}
	f.record("stop %s", h.Name)
	return nil
}

func (f *fakeRuntime) RemoveContainer(ctx context.Context, h runtime.Handle, force bool) error {
	if err := f.failRemove[h.Name]; err != nil {
		f.record("remove %s (failed)", h.Name)
		return err
	}
	f.record("remove %s", h.Name)
	f.mu.Lock()
	delete(f.existing, h.Name)
	f.mu.Unlock()
	return nil
}

func (f *fakeRuntime) FindContainer(ctx context.Context, name string) (runtime.Handle, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	h, ok := f.existing[name]
	return h, ok, nil
}

func (f *fakeRuntime) InspectContainer(ctx context.Context, h runtime.Handle) (*runtime.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.statuses[h.Name]; ok {
		return st, nil
	}
	return &runtime.Status{State: "running", Running: true}, nil
}

func (f *fakeRuntime) ContainerLogs(ctx context.Context, h runtime.Handle, follow bool) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

// fakeState is an in-memory StateStore.
type fakeState struct {
	mu       sync.Mutex
	clusters map[string][]store.Record
}

func newFakeState() *fakeState {
	return &fakeState{clusters: map[string][]store.Record{}}
}

func (s *fakeState) SaveCluster(cluster string, records []store.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[cluster] = append([]store.Record(nil), records...)
	return nil
}

func (s *fakeState) LoadCluster(cluster string) ([]store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]store.Record(nil), s.clusters[cluster]...), nil
}

func (s *fakeState) DeleteCluster(cluster string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clusters, cluster)
	return nil
}
