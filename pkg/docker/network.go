package docker

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/errdefs"

	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// EnsureNetwork creates the cluster-scoped bridge network if it does not
// already exist and returns its identifier.
func (c *Client) EnsureNetwork(ctx context.Context, name string) (string, error) {
	networks, err := c.cli.NetworkList(ctx, network.ListOptions{})
	if err != nil {
		return "", fmt.Errorf("network check failed: %w", err)
	}
	for _, nw := range networks {
		if nw.Name == name {
			return nw.ID, nil
		}
	}

	resp, err := c.cli.NetworkCreate(ctx, name, network.CreateOptions{Driver: "bridge"})
	if err != nil {
		return "", fmt.Errorf("network creation failed for %q: %w", name, err)
	}
	log.Debug("Network created", "name", name, "id", resp.ID)
	return resp.ID, nil
}

// RemoveNetwork removes the named network. An absent network is not an
// error, so teardown stays idempotent.
func (c *Client) RemoveNetwork(ctx context.Context, name string) error {
	if err := c.cli.NetworkRemove(ctx, name); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("could not remove network %q: %w", name, err)
	}
	log.Debug("Network removed", "name", name)
	return nil
}

// BindAliases connects a container to the cluster network with its full set
// of resolvable names. Docker endpoints take their alias set at connect time,
// so the engine computes every alias for a container up front and binds once,
// before any dependent starts.
func (c *Client) BindAliases(ctx context.Context, h runtime.Handle, networkName string, aliases []string) error {
	err := c.cli.NetworkConnect(ctx, networkName, h.ID, &network.EndpointSettings{
		Aliases: aliases,
	})
	if err != nil {
		return fmt.Errorf("could not bind aliases %v for container %q: %w", aliases, h.Name, err)
	}
	log.Debug("Aliases bound", "container", h.Name, "network", networkName, "aliases", aliases)
	return nil
}
