package manifest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// EffectiveSpec is the fully merged, launch-ready configuration for one
// container instance in one cluster. It is computed fresh per resolution,
// never mutated afterwards, and owned by the orchestration session that
// requested it.
type EffectiveSpec struct {
	Name         string
	Image        string
	ImageSource  string
	Ports        []string
	Env          []string
	Net          string
	Mounts       []string
	Privileged   bool
	Dependencies []Dependency

	order int
}

// Order returns the container's declaration position in the manifest.
func (s *EffectiveSpec) Order() int { return s.order }

// EnvValue looks up an environment key with last-write-wins semantics over
// the ordered sequence. The sequence itself keeps every entry.
func (s *EffectiveSpec) EnvValue(key string) (string, bool) {
	var val string
	var found bool
	for _, e := range s.Env {
		k, v, ok := strings.Cut(e, "=")
		if ok && k == key {
			val, found = v, true
		}
	}
	return val, found
}

// ResolveCluster merges each container of the cluster with the cluster's
// group overlay (blanket options first, then the per-container block) and
// returns the effective specs in the cluster's declared order. Resolution is
// deterministic and idempotent; the manifest itself is never modified.
func (m *Manifest) ResolveCluster(clusterName string) ([]*EffectiveSpec, error) {
	cluster, ok := m.Clusters[clusterName]
	if !ok {
		return nil, fmt.Errorf("cluster %q wasn't found in the manifest", clusterName)
	}
	var group *Group
	if cluster.Group != "" {
		group, ok = m.Groups[cluster.Group]
		if !ok {
			return nil, fmt.Errorf("cluster %q references unknown group %q", clusterName, cluster.Group)
		}
	}

	specs := make([]*EffectiveSpec, 0, len(cluster.Containers))
	for _, name := range cluster.Containers {
		base, ok := m.Containers[name]
		if !ok {
			return nil, fmt.Errorf("cluster %q lists unknown container %q", clusterName, name)
		}
		spec, err := m.resolveContainer(base, group)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (m *Manifest) resolveContainer(base *Container, group *Group) (*EffectiveSpec, error) {
	spec := &EffectiveSpec{
		Name:        base.Name,
		Image:       base.Image,
		ImageSource: m.Images[base.Image],
		Ports:       append([]string(nil), base.Ports...),
		Net:         base.Net,
		Mounts:      append([]string(nil), base.Mounts...),
		Privileged:  base.Privileged,
		// Dependencies are structural; groups never touch them.
		Dependencies: append([]Dependency(nil), base.Dependencies...),
		order:        base.order,
	}

	env, err := m.loadEnvFile(base)
	if err != nil {
		return nil, err
	}
	spec.Env = append(env, base.Env...)

	if group != nil {
		applyOverrides(spec, group.Options)
		if o, ok := group.Containers[base.Name]; ok {
			applyOverrides(spec, o)
		}
	}
	return spec, nil
}

// applyOverrides merges one overlay into a spec: scalars replace when set,
// lists append, env appends (shadowing resolves at lookup time).
func applyOverrides(spec *EffectiveSpec, o Overrides) {
	spec.Ports = append(spec.Ports, o.Ports...)
	spec.Env = append(spec.Env, o.Env...)
	spec.Mounts = append(spec.Mounts, o.Mounts...)
	if o.Net != "" {
		spec.Net = o.Net
	}
	if o.Privileged != nil {
		spec.Privileged = *o.Privileged
	}
}

// loadEnvFile reads a container's env_file (if any) into KEY=value entries,
// sorted by key so resolution stays byte-for-byte reproducible. File entries
// sit before inline env, so inline assignments shadow them.
func (m *Manifest) loadEnvFile(c *Container) ([]string, error) {
	if c.EnvFile == "" {
		return nil, nil
	}
	path := c.EnvFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.dir, path)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("container %q: could not read env_file %s: %w", c.Name, c.EnvFile, err)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+values[k])
	}
	return env, nil
}
