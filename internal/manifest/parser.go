package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"modject/pkg/logging"
)

// Parse decodes manifest YAML. It does not validate against the schema; call
// Validate on the same bytes for that.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}

// ParseFile reads and decodes the manifest at path.
func ParseFile(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path

	logging.Debug("Manifest", "Loaded %d entry points and %d layers from %s", len(m.EntryPoints), len(m.Layers), path)
	return m, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return data, nil
}
