package engine

import (
	"context"

	"github.com/flotilla-dev/flotilla/pkg/manifest"
)

// ContainerStatus is one row of a cluster status report.
type ContainerStatus struct {
	Name    string
	ID      string
	State   string // runtime state, or "not created"
	Running bool
	Ports   []string
}

// Status reports the runtime state of every container in a cluster, in the
// cluster's declared order. Containers that were never created still appear.
func (e *Engine) Status(ctx context.Context, m *manifest.Manifest, cluster string) ([]ContainerStatus, error) {
	specs, _, err := resolveOrder(m, cluster)
	if err != nil {
		return nil, err
	}

	statuses := make([]ContainerStatus, 0, len(specs))
	for _, spec := range specs {
		row := ContainerStatus{Name: spec.Name, State: "not created", Ports: spec.Ports}
		h, found, err := e.rt.FindContainer(ctx, spec.Name)
		if err != nil {
			return nil, err
		}
		if found {
			st, err := e.rt.InspectContainer(ctx, h)
			if err != nil {
				return nil, err
			}
			row.ID = h.ShortID()
			row.State = st.State
			row.Running = st.Running
		}
		statuses = append(statuses, row)
	}
	return statuses, nil
}
