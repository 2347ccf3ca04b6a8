package manifest

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports every structural problem found in a manifest. It is
// fatal before any launch; a manifest that fails validation never reaches the
// runtime.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 1 {
		return "invalid manifest: " + e.Problems[0]
	}
	return fmt.Sprintf("invalid manifest: %d problems:\n  - %s",
		len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// validation accumulates problems during decode and structural checks.
type validation struct {
	problems []string
}

func newValidation() *validation { return &validation{} }

func (v *validation) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validation) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

// validate runs the cross-reference checks over a decoded model.
func (m *Manifest) validate(v *validation) {
	for _, name := range m.ContainerNames() {
		c := m.Containers[name]
		if c.Image == "" {
			v.addf("container %q has no image", name)
		} else if _, ok := m.Images[c.Image]; !ok {
			v.addf("container %q references unknown image %q", name, c.Image)
		}
		for _, p := range c.Ports {
			if err := checkPortSpec(p); err != nil {
				v.addf("container %q: %v", name, err)
			}
		}
		for _, mnt := range c.Mounts {
			if err := checkMountSpec(mnt); err != nil {
				v.addf("container %q: %v", name, err)
			}
		}
		for _, e := range c.Env {
			if !strings.Contains(e, "=") {
				v.addf("container %q: invalid env entry %q: expected KEY=value", name, e)
			}
		}
		seen := map[string]bool{}
		for _, dep := range c.Dependencies {
			if dep.Target == name {
				v.addf("container %q depends on itself", name)
			}
			if _, ok := m.Containers[dep.Target]; !ok {
				v.addf("container %q depends on unknown container %q", name, dep.Target)
			}
			if seen[dep.Target] {
				v.addf("container %q declares duplicate dependency on %q", name, dep.Target)
			}
			seen[dep.Target] = true
		}
	}

	for _, cluster := range m.Clusters {
		if len(cluster.Containers) == 0 {
			v.addf("cluster %q has no containers", cluster.Name)
		}
		if cluster.Group != "" {
			if _, ok := m.Groups[cluster.Group]; !ok {
				v.addf("cluster %q references unknown group %q", cluster.Name, cluster.Group)
			}
		}
		members := map[string]bool{}
		for _, name := range cluster.Containers {
			if members[name] {
				v.addf("cluster %q lists container %q more than once", cluster.Name, name)
			}
			members[name] = true
			if _, ok := m.Containers[name]; !ok {
				v.addf("cluster %q lists unknown container %q", cluster.Name, name)
			}
		}
		// A dependency pointing outside the launch set would leave the alias
		// unbound at runtime, so it is rejected here rather than ignored.
		for _, name := range cluster.Containers {
			c, ok := m.Containers[name]
			if !ok {
				continue
			}
			for _, dep := range c.Dependencies {
				if !members[dep.Target] {
					v.addf("cluster %q: container %q depends on %q, which is not in the cluster",
						cluster.Name, name, dep.Target)
				}
			}
		}
	}

	for _, group := range m.Groups {
		for name, o := range group.Containers {
			if _, ok := m.Containers[name]; !ok {
				v.addf("group %q overrides unknown container %q", group.Name, name)
			}
			checkOverrides(v, fmt.Sprintf("group %q container %q", group.Name, name), o)
		}
		checkOverrides(v, fmt.Sprintf("group %q options", group.Name), group.Options)
	}
}

func checkOverrides(v *validation, where string, o Overrides) {
	for _, p := range o.Ports {
		if err := checkPortSpec(p); err != nil {
			v.addf("%s: %v", where, err)
		}
	}
	for _, mnt := range o.Mounts {
		if err := checkMountSpec(mnt); err != nil {
			v.addf("%s: %v", where, err)
		}
	}
	for _, e := range o.Env {
		if !strings.Contains(e, "=") {
			v.addf("%s: invalid env entry %q: expected KEY=value", where, e)
		}
	}
}

func checkPortSpec(spec string) error {
	host, cont, found := strings.Cut(spec, ":")
	if !found {
		return fmt.Errorf("invalid port %q: expected hostPort:containerPort", spec)
	}
	if _, err := strconv.Atoi(host); err != nil {
		return fmt.Errorf("invalid host port in %q: must be a number", spec)
	}
	cont, _, _ = strings.Cut(cont, "/")
	if _, err := strconv.Atoi(cont); err != nil {
		return fmt.Errorf("invalid container port in %q: must be a number", spec)
	}
	return nil
}

func checkMountSpec(spec string) error {
	host, cont, found := strings.Cut(spec, ":")
	if !found || host == "" || cont == "" {
		return fmt.Errorf("invalid mount %q: expected hostPath:containerPath", spec)
	}
	return nil
}
