package docker

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/errdefs"
	"github.com/docker/go-connections/nat"

	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// CreateContainer creates a container from an effective spec. The container
// is not attached to the cluster network here; BindAliases does that so the
// alias set is registered in one endpoint before the container starts.
func (c *Client) CreateContainer(ctx context.Context, spec *runtime.Spec) (runtime.Handle, error) {
	exposedPorts, portBindings, err := buildPortMaps(spec.Ports)
	if err != nil {
		return runtime.Handle{}, fmt.Errorf("container %q: %w", spec.Name, err)
	}

	cfg := &container.Config{
		Image:        spec.Image,
		Env:          spec.Env,
		ExposedPorts: exposedPorts,
	}
	hostCfg := &container.HostConfig{
		PortBindings: portBindings,
		Binds:        buildBinds(spec.Mounts),
		Privileged:   spec.Privileged,
		ExtraHosts:   spec.ExtraHosts,
	}
	if spec.Net != "" {
		hostCfg.NetworkMode = container.NetworkMode(spec.Net)
	} else {
		cfg.Hostname = spec.Name
	}

	resp, err := c.cli.ContainerCreate(ctx, cfg, hostCfg, nil, nil, spec.Name)
	if err != nil {
		return runtime.Handle{}, fmt.Errorf("container creation failed for %q: %w", spec.Name, err)
	}
	h := runtime.Handle{ID: resp.ID, Name: spec.Name}
	log.Debug("Container created", "name", spec.Name, "id", h.ShortID())
	return h, nil
}

// StartContainer starts a created container.
func (c *Client) StartContainer(ctx context.Context, h runtime.Handle) error {
	if err := c.cli.ContainerStart(ctx, h.ID, container.StartOptions{}); err != nil {
		return fmt.Errorf("could not start container %q: %w", h.Name, err)
	}
	log.Debug("Container started", "name", h.Name, "id", h.ShortID())
	return nil
}

// StopContainer stops a container gracefully within the configured stop
// timeout, after which the daemon kills it.
func (c *Client) StopContainer(ctx context.Context, h runtime.Handle) error {
	seconds := int(c.opts.StopTimeout.Seconds())
	if err := c.cli.ContainerStop(ctx, h.ID, container.StopOptions{Timeout: &seconds}); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("could not stop container %q: %w", h.Name, err)
	}
	log.Debug("Container stopped", "name", h.Name, "id", h.ShortID())
	return nil
}

// RemoveContainer removes a container. Removing an already-gone container is
// not an error, so rollback and teardown stay idempotent.
func (c *Client) RemoveContainer(ctx context.Context, h runtime.Handle, force bool) error {
	err := c.cli.ContainerRemove(ctx, h.ID, container.RemoveOptions{Force: force})
	if err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("could not remove container %q: %w", h.Name, err)
	}
	log.Debug("Container removed", "name", h.Name, "id", h.ShortID())
	return nil
}

// FindContainer looks up a container by exact name.
func (c *Client) FindContainer(ctx context.Context, name string) (runtime.Handle, bool, error) {
	list, err := c.cli.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", name)),
	})
	if err != nil {
		return runtime.Handle{}, false, fmt.Errorf("could not list containers: %w", err)
	}
	for _, item := range list {
		for _, n := range item.Names {
			if strings.TrimPrefix(n, "/") == name {
				return runtime.Handle{ID: item.ID, Name: name}, true, nil
			}
		}
	}
	return runtime.Handle{}, false, nil
}

// InspectContainer reports the container's current state.
func (c *Client) InspectContainer(ctx context.Context, h runtime.Handle) (*runtime.Status, error) {
	info, err := c.cli.ContainerInspect(ctx, h.ID)
	if err != nil {
		return nil, fmt.Errorf("could not inspect container %q: %w", h.Name, err)
	}
	st := &runtime.Status{State: info.State.Status, Running: info.State.Running}
	st.ExitCode = info.State.ExitCode
	return st, nil
}

// ContainerLogs returns the container's log stream. The stream is multiplexed
// in the daemon's stdcopy format unless the container runs with a TTY.
func (c *Client) ContainerLogs(ctx context.Context, h runtime.Handle, follow bool) (io.ReadCloser, error) {
	logs, err := c.cli.ContainerLogs(ctx, h.ID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     follow,
	})
	if err != nil {
		return nil, fmt.Errorf("could not fetch logs for container %q: %w", h.Name, err)
	}
	return logs, nil
}

// buildPortMaps translates hostPort:containerPort[/proto] specs into the
// exposed-port set and bindings the daemon expects.
func buildPortMaps(specs []string) (nat.PortSet, nat.PortMap, error) {
	exposed := nat.PortSet{}
	bindings := nat.PortMap{}
	for _, spec := range specs {
		host, rest, found := strings.Cut(spec, ":")
		if !found {
			return nil, nil, fmt.Errorf("invalid port specification %q: expected hostPort:containerPort[/proto]", spec)
		}
		contPort, proto, hasProto := strings.Cut(rest, "/")
		if !hasProto {
			proto = "tcp"
		}
		port, err := nat.NewPort(proto, contPort)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid port specification %q: %w", spec, err)
		}
		exposed[port] = struct{}{}
		bindings[port] = append(bindings[port], nat.PortBinding{
			HostIP:   "0.0.0.0",
			HostPort: host,
		})
	}
	return exposed, bindings, nil
}

// buildBinds passes hostPath:containerPath mount specs through unchanged;
// provisioning semantics belong to the daemon.
func buildBinds(mounts []string) []string {
	return append([]string(nil), mounts...)
}
