package docker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// WaitReady polls the container state with exponential backoff until it is
// running, it exits, or the configured readiness window elapses. A container
// that exits while being waited on fails immediately rather than at the
// deadline.
func (c *Client) WaitReady(ctx context.Context, h runtime.Handle) error {
	waitCtx, cancel := context.WithTimeout(ctx, c.opts.ReadyTimeout)
	defer cancel()

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = 2 * time.Second
	policy.MaxElapsedTime = 0 // the context carries the bound

	check := func() error {
		st, err := c.InspectContainer(waitCtx, h)
		if err != nil {
			return backoff.Permanent(err)
		}
		if st.Running {
			return nil
		}
		switch st.State {
		case "exited", "dead":
			return backoff.Permanent(fmt.Errorf("container %q %s with exit code %d", h.Name, st.State, st.ExitCode))
		}
		return fmt.Errorf("container %q is %s", h.Name, st.State)
	}

	err := backoff.Retry(check, backoff.WithContext(policy, waitCtx))
	if err == nil {
		return nil
	}
	if errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &runtime.ReadinessTimeoutError{Container: h.Name, Timeout: c.opts.ReadyTimeout}
	}
	return err
}
