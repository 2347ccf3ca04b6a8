package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"

	"github.com/flotilla-dev/flotilla/pkg/manifest"
	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// member is one container of a running cluster, located either from the
// state store or by name lookup against the runtime.
type member struct {
	name   string
	handle runtime.Handle
	layer  int
}

// clusterMembers locates the cluster's containers in launch order. Recorded
// state wins; otherwise the cluster is re-resolved and containers are looked
// up by name, skipping ones that no longer exist.
func (e *Engine) clusterMembers(ctx context.Context, m *manifest.Manifest, cluster string) ([]member, *bindPlan, error) {
	specs, layers, err := resolveOrder(m, cluster)
	if err != nil {
		return nil, nil, err
	}
	plan := buildBindPlan(specs)

	if e.state != nil {
		recs, err := e.state.LoadCluster(cluster)
		if err != nil {
			log.Warn("Could not load cluster state, falling back to name lookup", "cluster", cluster, "error", err)
		} else if len(recs) > 0 {
			members := make([]member, 0, len(recs))
			for _, r := range recs {
				members = append(members, member{
					name:   r.Container,
					handle: runtime.Handle{ID: r.ContainerID, Name: r.Container},
					layer:  r.Layer,
				})
			}
			return members, plan, nil
		}
	}

	var members []member
	for li, layer := range layers {
		for _, name := range layer {
			h, found, err := e.rt.FindContainer(ctx, name)
			if err != nil {
				return nil, nil, err
			}
			if !found {
				continue
			}
			members = append(members, member{name: name, handle: h, layer: li})
		}
	}
	return members, plan, nil
}

// Teardown stops and removes a cluster's containers in strict reverse
// dependency order, then removes the cluster network. Failures on one
// container are collected and the teardown proceeds through the rest.
func (e *Engine) Teardown(ctx context.Context, m *manifest.Manifest, cluster string) error {
	members, plan, err := e.clusterMembers(ctx, m, cluster)
	if err != nil {
		return err
	}

	log.Info("Tearing down cluster", "cluster", cluster, "containers", len(members))
	var errs *multierror.Error
	for i := len(members) - 1; i >= 0; i-- {
		mb := members[i]
		if err := e.rt.StopContainer(ctx, mb.handle); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := e.rt.RemoveContainer(ctx, mb.handle, true); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		log.Debug("Removed container", "cluster", cluster, "container", mb.name)
	}

	if plan.needsNetwork {
		if err := e.rt.RemoveNetwork(ctx, NetworkName(cluster)); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	if e.state != nil {
		if err := e.state.DeleteCluster(cluster); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Stop stops a cluster's containers in reverse dependency order without
// removing them; the recorded state is kept so the cluster can be inspected
// or torn down later.
func (e *Engine) Stop(ctx context.Context, m *manifest.Manifest, cluster string) error {
	members, _, err := e.clusterMembers(ctx, m, cluster)
	if err != nil {
		return err
	}

	log.Info("Stopping cluster", "cluster", cluster, "containers", len(members))
	var errs *multierror.Error
	for i := len(members) - 1; i >= 0; i-- {
		mb := members[i]
		if err := e.rt.StopContainer(ctx, mb.handle); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		log.Debug("Stopped container", "cluster", cluster, "container", mb.name)
	}
	return errs.ErrorOrNil()
}
