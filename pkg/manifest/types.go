// Package manifest holds the typed model of a flotilla manifest: images,
// container definitions, launchable clusters and reusable override groups.
// The model is loaded once, validated, and treated as read-only afterwards.
package manifest

import (
	"fmt"
	"sort"
	"strings"
)

// Dependency is a single edge from a dependent container to the container it
// needs at runtime. Alias is the name under which the dependent addresses the
// target; it defaults to the target name when the manifest omits it.
type Dependency struct {
	Target string
	Alias  string
}

func (d Dependency) String() string {
	if d.Alias == d.Target {
		return d.Target
	}
	return d.Target + ":" + d.Alias
}

// Container is a single container definition from the manifest.
type Container struct {
	Name         string
	Image        string
	Ports        []string // hostPort:containerPort
	Env          []string // KEY=value, later entries shadow earlier keys
	EnvFile      string
	Net          string   // "" means the default bridge network
	Mounts       []string // hostPath:containerPath
	Privileged   bool
	Dependencies []Dependency

	// order is the declaration position in the manifest, used as a stable
	// tie-break so launch ordering never depends on map iteration order.
	order int
}

// Overrides is one overlay of container options, used both for a group's
// blanket options and for its per-container blocks. Scalar fields replace the
// base value only when set; list fields append.
type Overrides struct {
	Ports      []string `yaml:"port"`
	Env        []string `yaml:"env"`
	Net        string   `yaml:"net"`
	Mounts     []string `yaml:"mount"`
	Privileged *bool    `yaml:"privileged"`
}

// Group is a reusable overlay referenced by clusters. Options apply to every
// container of the referencing cluster; the per-container blocks win over
// Options where both set a field.
type Group struct {
	Name       string
	Options    Overrides
	Containers map[string]Overrides
}

// Cluster is a named, launchable ordered set of containers, optionally paired
// with a group overlay.
type Cluster struct {
	Name       string
	Group      string
	Containers []string
}

// Manifest is the validated in-memory model of a flotilla manifest file.
type Manifest struct {
	Images     map[string]string
	Containers map[string]*Container
	Clusters   map[string]*Cluster
	Groups     map[string]*Group

	// dir is the directory the manifest was loaded from; env_file paths are
	// resolved relative to it.
	dir string
}

// Image returns the source location for an image name.
func (m *Manifest) Image(name string) (string, bool) {
	src, ok := m.Images[name]
	return src, ok
}

// Container returns the container definition for a name.
func (m *Manifest) Container(name string) (*Container, bool) {
	c, ok := m.Containers[name]
	return c, ok
}

// Cluster returns the cluster definition for a name.
func (m *Manifest) Cluster(name string) (*Cluster, bool) {
	c, ok := m.Clusters[name]
	return c, ok
}

// Group returns the group definition for a name.
func (m *Manifest) Group(name string) (*Group, bool) {
	g, ok := m.Groups[name]
	return g, ok
}

// ContainerNames returns all container names in declaration order.
func (m *Manifest) ContainerNames() []string {
	names := make([]string, 0, len(m.Containers))
	for name := range m.Containers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return m.Containers[names[i]].order < m.Containers[names[j]].order
	})
	return names
}

// parseDependency parses a "target:alias" entry. A bare "target" aliases the
// container under its own name.
func parseDependency(raw string) (Dependency, error) {
	target, alias, found := strings.Cut(raw, ":")
	if !found {
		alias = target
	}
	if target == "" || alias == "" {
		return Dependency{}, fmt.Errorf("invalid dependency %q: expected target[:alias]", raw)
	}
	return Dependency{Target: target, Alias: alias}, nil
}
