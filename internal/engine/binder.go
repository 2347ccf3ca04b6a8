package engine

import (
	"fmt"
	"strings"

	"github.com/flotilla-dev/flotilla/pkg/manifest"
	"github.com/flotilla-dev/flotilla/pkg/runtime"
)

// bindPlan is the resolved alias topology for one cluster: which resolvable
// names each container carries on the cluster network, and the fallbacks for
// edges that host networking keeps off that network. Computed once per
// launch, before anything is created.
type bindPlan struct {
	// aliases maps a container to every name it answers to on the cluster
	// network: its own name plus each alias declared by a dependent.
	aliases map[string][]string
	// extraHosts maps a dependent to /etc/hosts entries standing in for
	// aliases of host-networked targets.
	extraHosts map[string][]string
	// env maps a host-networked dependent to injected address variables,
	// since no network-scoped alias can exist for it.
	env map[string][]string

	warnings     []string
	needsNetwork bool
}

func buildBindPlan(specs []*manifest.EffectiveSpec) *bindPlan {
	p := &bindPlan{
		aliases:    map[string][]string{},
		extraHosts: map[string][]string{},
		env:        map[string][]string{},
	}
	byName := make(map[string]*manifest.EffectiveSpec, len(specs))
	for _, spec := range specs {
		byName[spec.Name] = spec
		if spec.Net == "" {
			p.needsNetwork = true
			p.aliases[spec.Name] = []string{spec.Name}
		}
	}

	for _, spec := range specs {
		for _, dep := range spec.Dependencies {
			target, ok := byName[dep.Target]
			if !ok {
				continue // validation already rejects this
			}
			switch {
			case spec.Net != "":
				// The dependent is outside the cluster network, so the alias
				// cannot resolve there. Hand it the target's published host
				// port over the loopback instead.
				key := envKey(dep.Alias) + "_ADDR"
				addr := "127.0.0.1"
				if port, ok := firstHostPort(target); ok {
					addr += ":" + port
				}
				p.env[spec.Name] = append(p.env[spec.Name], key+"="+addr)
				p.warnf("container %q uses %s networking; alias %q for %q is injected as %s instead of a network alias",
					spec.Name, spec.Net, dep.Alias, dep.Target, key)
			case target.Net != "":
				// The target is outside the cluster network. Point the alias
				// at the host so its published ports stay reachable.
				p.extraHosts[spec.Name] = append(p.extraHosts[spec.Name], dep.Alias+":host-gateway")
				p.warnf("container %q uses %s networking; alias %q in %q resolves to the host gateway",
					dep.Target, target.Net, dep.Alias, spec.Name)
			default:
				p.addAlias(dep.Target, dep.Alias)
			}
		}
	}
	return p
}

func (p *bindPlan) addAlias(target, alias string) {
	for _, a := range p.aliases[target] {
		if a == alias {
			return
		}
	}
	p.aliases[target] = append(p.aliases[target], alias)
}

func (p *bindPlan) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// runtimeSpec assembles the runtime-facing spec for one container from its
// effective spec and the bind plan.
func (p *bindPlan) runtimeSpec(spec *manifest.EffectiveSpec, network string) *runtime.Spec {
	rs := &runtime.Spec{
		Name:       spec.Name,
		Image:      spec.Image,
		Ports:      spec.Ports,
		Env:        append(append([]string(nil), spec.Env...), p.env[spec.Name]...),
		Mounts:     spec.Mounts,
		Net:        spec.Net,
		Privileged: spec.Privileged,
		ExtraHosts: p.extraHosts[spec.Name],
	}
	if spec.Net == "" {
		rs.Network = network
	}
	return rs
}

// envKey turns an alias into an environment variable prefix.
func envKey(alias string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(alias) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

// firstHostPort returns the first published host port of a spec.
func firstHostPort(spec *manifest.EffectiveSpec) (string, bool) {
	if len(spec.Ports) == 0 {
		return "", false
	}
	host, _, found := strings.Cut(spec.Ports[0], ":")
	if !found || host == "" {
		return "", false
	}
	return host, true
}
