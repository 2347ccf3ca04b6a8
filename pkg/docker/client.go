// Package docker implements the engine's runtime contract against the Docker
// Engine API.
package docker

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/docker/docker/client"
)

// Options configures the Docker client.
type Options struct {
	// SocketPath is the daemon socket. Empty falls back to the SDK's
	// environment-based defaults (DOCKER_HOST etc).
	SocketPath string
	// MinVersion is the minimum acceptable daemon version, as a semver
	// constraint floor. Empty skips the check.
	MinVersion string
	// StopTimeout bounds graceful container stops.
	StopTimeout time.Duration
	// ReadyTimeout bounds WaitReady.
	ReadyTimeout time.Duration
}

// Client drives the Docker daemon. It implements runtime.Runtime.
type Client struct {
	cli  *client.Client
	opts Options
}

// New connects to the daemon, negotiates the API version and verifies the
// daemon meets the configured version floor.
func New(ctx context.Context, opts Options) (*Client, error) {
	clientOpts := []client.Opt{client.WithAPIVersionNegotiation()}
	if opts.SocketPath != "" {
		if _, err := os.Stat(opts.SocketPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("runtime socket %s does not exist", opts.SocketPath)
		}
		clientOpts = append(clientOpts, client.WithHost("unix://"+opts.SocketPath))
	} else {
		clientOpts = append(clientOpts, client.FromEnv)
	}

	cli, err := client.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Docker client: %w", err)
	}

	c := &Client{cli: cli, opts: opts}
	if err := c.Ping(ctx); err != nil {
		return nil, err
	}
	if opts.MinVersion != "" {
		if err := c.checkVersion(ctx); err != nil {
			return nil, err
		}
	}
	log.Debug("Docker client initialized", "socket", opts.SocketPath)
	return c, nil
}

// Ping verifies the daemon is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.cli.Ping(ctx); err != nil {
		return fmt.Errorf("cannot connect to Docker daemon: %w", err)
	}
	return nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.cli.Close()
}

func (c *Client) checkVersion(ctx context.Context) error {
	info, err := c.cli.ServerVersion(ctx)
	if err != nil {
		return fmt.Errorf("could not query daemon version: %w", err)
	}
	floor, err := semver.NewConstraint(">= " + c.opts.MinVersion)
	if err != nil {
		return fmt.Errorf("invalid min_version constraint %q: %w", c.opts.MinVersion, err)
	}
	current, err := semver.NewVersion(info.Version)
	if err != nil {
		// Non-semver daemon versions (dev builds) are let through.
		log.Warn("Could not parse daemon version", "version", info.Version)
		return nil
	}
	if !floor.Check(current) {
		return fmt.Errorf("daemon version %s is below the required minimum %s", info.Version, c.opts.MinVersion)
	}
	log.Debug("Daemon version accepted", "version", info.Version, "min", c.opts.MinVersion)
	return nil
}
