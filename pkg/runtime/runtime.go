// Package runtime defines the contract between the orchestration engine and
// the external container runtime. The engine only ever talks to this
// interface; pkg/docker provides the Docker implementation.
package runtime

import (
	"context"
	"fmt"
	"io"
	"time"
)

// Handle identifies a created container at the runtime.
type Handle struct {
	ID   string
	Name string
}

// ShortID returns the truncated container ID used in user-facing output.
func (h Handle) ShortID() string {
	if len(h.ID) > 12 {
		return h.ID[:12]
	}
	return h.ID
}

// Spec carries one effective container configuration in runtime-neutral
// form. The engine fills it from a resolved manifest spec plus the alias
// binding plan.
type Spec struct {
	Name       string
	Image      string
	Ports      []string // hostPort:containerPort[/proto]
	Env        []string
	Mounts     []string // hostPath:containerPath
	Net        string   // "" joins Network; "host" and friends pass through
	Privileged bool
	Network    string   // cluster-scoped network to join when Net is ""
	ExtraHosts []string // host:address entries injected into /etc/hosts
}

// Status is a point-in-time view of a container's runtime state.
type Status struct {
	State    string // created, running, exited, dead, ...
	Running  bool
	ExitCode int
}

// ReadinessTimeoutError reports a container that failed to become ready
// within the configured bound. It triggers full rollback of a partial launch.
type ReadinessTimeoutError struct {
	Container string
	Timeout   time.Duration
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("container %q did not become ready within %s", e.Container, e.Timeout)
}

// Runtime is the set of lifecycle operations the engine drives. Calls on
// distinct containers must not interfere; no atomicity is assumed across
// calls, the engine recovers from partial successes via rollback.
type Runtime interface {
	// Ping verifies the runtime is reachable.
	Ping(ctx context.Context) error

	// EnsureNetwork creates the named bridge network if absent and returns
	// its identifier.
	EnsureNetwork(ctx context.Context, name string) (string, error)
	// RemoveNetwork removes the named network. Removing an absent network is
	// not an error.
	RemoveNetwork(ctx context.Context, name string) error

	CreateContainer(ctx context.Context, spec *Spec) (Handle, error)
	// BindAliases attaches the container to the network under the given
	// resolvable names. Must be called before any dependent starts.
	BindAliases(ctx context.Context, h Handle, network string, aliases []string) error
	StartContainer(ctx context.Context, h Handle) error
	// WaitReady blocks until the container is running, returning a
	// *ReadinessTimeoutError when the bound expires first.
	WaitReady(ctx context.Context, h Handle) error
	StopContainer(ctx context.Context, h Handle) error
	RemoveContainer(ctx context.Context, h Handle, force bool) error

	// FindContainer looks up an existing container by name, reporting
	// whether one exists.
	FindContainer(ctx context.Context, name string) (Handle, bool, error)
	InspectContainer(ctx context.Context, h Handle) (*Status, error)
	ContainerLogs(ctx context.Context, h Handle, follow bool) (io.ReadCloser, error)
}
