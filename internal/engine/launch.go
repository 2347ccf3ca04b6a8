package engine

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/flotilla-dev/flotilla/internal/store"
	"github.com/flotilla-dev/flotilla/pkg/manifest"
)

// Launch resolves and starts a cluster. Containers start layer by layer:
// within a layer concurrently, with a readiness barrier between layers so
// every dependency is running and addressable before its dependents start.
// Any failure rolls back everything already started, in strict reverse
// dependency order, and surfaces as a single *LaunchFailure. Structural
// errors (validation, cycles) return before the runtime is touched.
func (e *Engine) Launch(ctx context.Context, m *manifest.Manifest, cluster string, opts LaunchOptions) (*LaunchResult, error) {
	specs, layers, err := resolveOrder(m, cluster)
	if err != nil {
		return nil, err
	}

	plan := buildBindPlan(specs)
	for _, w := range plan.warnings {
		log.Warn(w)
	}

	network := NetworkName(cluster)
	if plan.needsNetwork {
		if _, err := e.rt.EnsureNetwork(ctx, network); err != nil {
			return nil, err
		}
	}

	sess := newSession(cluster, specs, layers)
	log.Info("Launching cluster", "cluster", cluster, "layers", len(layers), "containers", len(specs))

	for li, layer := range layers {
		if ctx.Err() != nil {
			return nil, e.abort(ctx, sess, plan, network, "", ctx.Err())
		}
		log.Debug("Starting layer", "cluster", cluster, "layer", li, "containers", layer)

		g, gctx := errgroup.WithContext(ctx)
		for _, name := range layer {
			spec := sess.spec(name)
			g.Go(func() error {
				return e.launchContainer(gctx, sess, plan, network, spec, opts)
			})
		}
		if err := g.Wait(); err != nil {
			failed := ""
			var cerr *containerError
			if errors.As(err, &cerr) {
				failed = cerr.container
				err = cerr.err
			}
			return nil, e.abort(ctx, sess, plan, network, failed, err)
		}
	}

	if e.state != nil {
		if err := e.state.SaveCluster(cluster, sess.records()); err != nil {
			log.Warn("Could not persist cluster state", "cluster", cluster, "error", err)
		}
	}

	result := &LaunchResult{Cluster: cluster, Layers: layers, Containers: sess.handleMap()}
	log.Info("Cluster launched", "cluster", cluster)
	return result, nil
}

// launchContainer drives one container through create, alias binding, start
// and the readiness wait. Aliases bind before start, so by the time any
// dependent's layer begins, the name already resolves. A container that
// already exists under its name (a previous create-only launch) is adopted
// and started as-is, its aliases were bound when it was created.
func (e *Engine) launchContainer(ctx context.Context, sess *session, plan *bindPlan, network string, spec *manifest.EffectiveSpec, opts LaunchOptions) error {
	h, found, err := e.rt.FindContainer(ctx, spec.Name)
	if err != nil {
		sess.setState(spec.Name, StateFailed)
		return &containerError{spec.Name, err}
	}
	if found {
		log.Debug("Adopting existing container", "name", spec.Name, "id", h.ShortID())
		sess.markAdopted(spec.Name, h)
	} else {
		h, err = e.rt.CreateContainer(ctx, plan.runtimeSpec(spec, network))
		if err != nil {
			sess.setState(spec.Name, StateFailed)
			return &containerError{spec.Name, err}
		}
		sess.markCreated(spec.Name, h)

		if aliases := plan.aliases[spec.Name]; len(aliases) > 0 {
			if err := e.rt.BindAliases(ctx, h, network, aliases); err != nil {
				sess.setState(spec.Name, StateFailed)
				return &containerError{spec.Name, err}
			}
		}
	}

	if !opts.Start {
		return nil
	}

	if err := e.rt.StartContainer(ctx, h); err != nil {
		sess.setState(spec.Name, StateFailed)
		return &containerError{spec.Name, err}
	}
	sess.setState(spec.Name, StateStarted)

	if err := e.rt.WaitReady(ctx, h); err != nil {
		sess.setState(spec.Name, StateFailed)
		return &containerError{spec.Name, err}
	}
	sess.setState(spec.Name, StateRunning)
	return nil
}

// abort rolls a partial launch back and wraps everything into one failure.
// Rollback runs under a fresh context so cancellation of the launch itself
// cannot strand half-started containers.
func (e *Engine) abort(ctx context.Context, sess *session, plan *bindPlan, network string, failed string, cause error) error {
	log.Error("Launch failed, rolling back", "cluster", sess.cluster, "container", failed, "error", cause)
	rbCtx := context.WithoutCancel(ctx)
	rolledBack, rbErr := e.rollback(rbCtx, sess, plan, network)
	return &LaunchFailure{
		Cluster:     sess.cluster,
		Failed:      failed,
		Cause:       cause,
		RolledBack:  rolledBack,
		RollbackErr: rbErr,
	}
}

// records snapshots the session for the state store.
func (s *session) records() []store.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var recs []store.Record
	for li, layer := range s.layers {
		for _, name := range layer {
			h, ok := s.handles[name]
			if !ok {
				continue
			}
			recs = append(recs, store.Record{
				Cluster:     s.cluster,
				Container:   name,
				ContainerID: h.ID,
				Layer:       li,
				CreatedAt:   now,
			})
		}
	}
	return recs
}
