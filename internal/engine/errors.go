package engine

import (
	"fmt"
	"strings"
)

// LaunchFailure is the single aggregated result of a failed cluster launch:
// the root cause, the container it originated at, and what was rolled back.
type LaunchFailure struct {
	Cluster string
	// Failed is the container whose lifecycle call or readiness wait failed.
	Failed string
	Cause  error
	// RolledBack lists the containers that were stopped and removed, in the
	// order the rollback processed them (deepest dependents first).
	RolledBack []string
	// RollbackErr aggregates secondary errors hit while rolling back. It
	// never masks Cause.
	RollbackErr error
}

func (e *LaunchFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "launch of cluster %q failed", e.Cluster)
	if e.Failed != "" {
		fmt.Fprintf(&b, " at container %q", e.Failed)
	}
	fmt.Fprintf(&b, ": %v", e.Cause)
	if len(e.RolledBack) > 0 {
		fmt.Fprintf(&b, " (rolled back: %s)", strings.Join(e.RolledBack, ", "))
	}
	if e.RollbackErr != nil {
		fmt.Fprintf(&b, "; rollback errors: %v", e.RollbackErr)
	}
	return b.String()
}

func (e *LaunchFailure) Unwrap() error { return e.Cause }

// containerError tags a lifecycle error with the container it came from, so
// the aggregated failure can name the culprit.
type containerError struct {
	container string
	err       error
}

func (e *containerError) Error() string {
	return fmt.Sprintf("container %q: %v", e.container, e.err)
}

func (e *containerError) Unwrap() error { return e.err }
