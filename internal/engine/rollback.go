package engine

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/go-multierror"
)

// rollback stops and removes every container the session created, deepest
// dependents first. It is best effort: each secondary error is collected and
// the sweep continues, so one stuck container never strands the rest.
// Adopted containers predate this launch; they are stopped but kept, along
// with the network and recorded state they depend on.
func (e *Engine) rollback(ctx context.Context, sess *session, plan *bindPlan, network string) ([]string, error) {
	var errs *multierror.Error
	var rolledBack []string
	createdAny := false
	keptAdopted := false

	for _, name := range sess.createdReverse() {
		h, ok := sess.handle(name)
		if !ok {
			continue
		}
		if sess.state(name) >= StateStarted {
			if err := e.rt.StopContainer(ctx, h); err != nil {
				errs = multierror.Append(errs, err)
			} else {
				sess.setState(name, StateStopped)
			}
		}
		if sess.isAdopted(name) {
			keptAdopted = true
			continue
		}
		createdAny = true
		if err := e.rt.RemoveContainer(ctx, h, true); err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		sess.setState(name, StateRemoved)
		rolledBack = append(rolledBack, name)
		log.Debug("Rolled back container", "cluster", sess.cluster, "container", name)
	}

	// A launch that created nothing has nothing to clean up beyond the
	// containers above; removing the network or the recorded state would
	// destroy what an earlier launch set up.
	if createdAny && !keptAdopted {
		if plan.needsNetwork {
			if err := e.rt.RemoveNetwork(ctx, network); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		if e.state != nil {
			if err := e.state.DeleteCluster(sess.cluster); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	return rolledBack, errs.ErrorOrNil()
}
