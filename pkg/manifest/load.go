package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// containerDoc mirrors the wire form of a container definition.
type containerDoc struct {
	Image        string   `yaml:"image"`
	Ports        []string `yaml:"port"`
	Env          []string `yaml:"env"`
	EnvFile      string   `yaml:"env_file"`
	Dependencies []string `yaml:"dependencies"`
	Net          string   `yaml:"net"`
	Mounts       []string `yaml:"mount"`
	Privileged   bool     `yaml:"privileged"`
}

// groupDoc mirrors the wire form of a group definition.
type groupDoc struct {
	Options    Overrides            `yaml:"options"`
	Containers map[string]Overrides `yaml:"containers"`
}

// clusterDoc decodes either a bare list of container names or a
// {group, containers} mapping.
type clusterDoc struct {
	Group      string
	Containers []string
}

func (c *clusterDoc) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		return value.Decode(&c.Containers)
	case yaml.MappingNode:
		var doc struct {
			Group      string   `yaml:"group"`
			Containers []string `yaml:"containers"`
		}
		if err := value.Decode(&doc); err != nil {
			return err
		}
		c.Group = doc.Group
		c.Containers = doc.Containers
		return nil
	default:
		return fmt.Errorf("line %d: cluster must be a list of container names or a {group, containers} mapping", value.Line)
	}
}

// Load reads, parses and validates a manifest file. The file may be YAML or
// JSON (JSON parses as a YAML subset).
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("could not parse manifest: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, fmt.Errorf("manifest is empty")
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("manifest root must be a mapping")
	}

	m := &Manifest{
		Images:     map[string]string{},
		Containers: map[string]*Container{},
		Clusters:   map[string]*Cluster{},
		Groups:     map[string]*Group{},
	}
	v := newValidation()

	for i := 0; i < len(doc.Content); i += 2 {
		key, val := doc.Content[i], doc.Content[i+1]
		var err error
		switch key.Value {
		case "images":
			err = m.decodeImages(val, v)
		case "containers":
			err = m.decodeContainers(val, v)
		case "clusters":
			err = m.decodeClusters(val, v)
		case "groups":
			err = m.decodeGroups(val, v)
		default:
			v.addf("unknown top-level section %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	m.validate(v)
	if err := v.err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) decodeImages(node *yaml.Node, v *validation) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("images must be a mapping of name to source location")
	}
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := m.Images[name]; dup {
			v.addf("duplicate image name %q", name)
			continue
		}
		var src string
		if err := node.Content[i+1].Decode(&src); err != nil {
			return fmt.Errorf("image %q: %w", name, err)
		}
		m.Images[name] = src
	}
	return nil
}

func (m *Manifest) decodeContainers(node *yaml.Node, v *validation) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("containers must be a mapping of name to definition")
	}
	order := 0
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := m.Containers[name]; dup {
			v.addf("duplicate container name %q", name)
			continue
		}
		var doc containerDoc
		if err := node.Content[i+1].Decode(&doc); err != nil {
			return fmt.Errorf("container %q: %w", name, err)
		}
		c := &Container{
			Name:       name,
			Image:      doc.Image,
			Ports:      doc.Ports,
			Env:        doc.Env,
			EnvFile:    doc.EnvFile,
			Net:        doc.Net,
			Mounts:     doc.Mounts,
			Privileged: doc.Privileged,
			order:      order,
		}
		order++
		for _, raw := range doc.Dependencies {
			dep, err := parseDependency(raw)
			if err != nil {
				v.addf("container %q: %v", name, err)
				continue
			}
			c.Dependencies = append(c.Dependencies, dep)
		}
		m.Containers[name] = c
	}
	return nil
}

func (m *Manifest) decodeClusters(node *yaml.Node, v *validation) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("clusters must be a mapping of name to definition")
	}
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := m.Clusters[name]; dup {
			v.addf("duplicate cluster name %q", name)
			continue
		}
		var doc clusterDoc
		if err := node.Content[i+1].Decode(&doc); err != nil {
			return fmt.Errorf("cluster %q: %w", name, err)
		}
		m.Clusters[name] = &Cluster{Name: name, Group: doc.Group, Containers: doc.Containers}
	}
	return nil
}

func (m *Manifest) decodeGroups(node *yaml.Node, v *validation) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("groups must be a mapping of name to definition")
	}
	for i := 0; i < len(node.Content); i += 2 {
		name := node.Content[i].Value
		if _, dup := m.Groups[name]; dup {
			v.addf("duplicate group name %q", name)
			continue
		}
		var doc groupDoc
		if err := node.Content[i+1].Decode(&doc); err != nil {
			return fmt.Errorf("group %q: %w", name, err)
		}
		m.Groups[name] = &Group{Name: name, Options: doc.Options, Containers: doc.Containers}
	}
	return nil
}
