package manifest

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"modject/pkg/entrypoint"
)

// Manifest is the parsed form of a manifest file.
type Manifest struct {
	Layers      []string         `yaml:"layers,omitempty"`
	EntryPoints []EntryPointSpec `yaml:"entryPoints"`

	// Path is the file the manifest was loaded from, if any.
	Path string `yaml:"-"`
}

// EntryPointSpec describes one entry point.
type EntryPointSpec struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Layer       string    `yaml:"layer,omitempty"`
	Contributes []SlotRef `yaml:"contributes,omitempty"`
	DependsOn   []SlotRef `yaml:"dependsOn,omitempty"`
}

// SlotRef refers to a slot either by name alone or by its full key.
type SlotRef struct {
	Name  string `yaml:"name"`
	Multi bool   `yaml:"multi,omitempty"`
	Layer string `yaml:"layer,omitempty"`

	short bool
}

// UnmarshalYAML accepts a plain string as shorthand for a reference by name.
func (r *SlotRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*r = SlotRef{Name: node.Value, short: true}
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: slot reference must be a string or a mapping", node.Line)
	}

	type plain SlotRef
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*r = SlotRef(p)
	return nil
}

// Short reports whether the reference was written as a plain string.
func (r SlotRef) Short() bool {
	return r.short
}

// Key returns the slot key the reference spells out.
func (r SlotRef) Key() entrypoint.SlotKey {
	return entrypoint.SlotKey{Name: r.Name, Multi: r.Multi, Layer: r.Layer}
}

// Placeholder is the value behind every slot contributed by a manifest entry
// point.
type Placeholder struct {
	EntryPoint string
	Slot       string
}

func (p Placeholder) String() string {
	return fmt.Sprintf("%s from %s", p.Slot, p.EntryPoint)
}
