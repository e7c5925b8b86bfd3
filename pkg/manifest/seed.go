package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Seed carries course and type labels applied when a new student manifest
// is created. Loaded from an optional seeds.yaml in the data directory.
type Seed struct {
	Courses map[string]string `yaml:"courses"`
	Types   map[string]string `yaml:"types"`
}

// LoadSeed reads a seed file. A missing file yields a nil seed, meaning the
// built-in defaults apply.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &s, nil
}

// Apply overlays the seed's labels onto the manifest after EnsureBase.
// Seeded keys still have to pass the type key validation; invalid keys are
// skipped rather than corrupting the manifest.
func (s *Seed) Apply(m *Manifest) {
	if s == nil {
		return
	}
	for key, label := range s.Courses {
		if key == "" {
			continue
		}
		m.Courses[key] = Course{Label: label}
	}
	for key, label := range s.Types {
		if err := m.DefineType(key, label); err != nil {
			continue
		}
	}
}
