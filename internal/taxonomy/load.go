package taxonomy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// file is the on-disk layout of a taxonomy override.
type file struct {
	Documents  *DocumentKeywords `yaml:"documents"`
	Categories []Category        `yaml:"categories"`
	Chart      []Account         `yaml:"chart"`
}

// Load reads a taxonomy from a YAML file. Sections missing from the file
// fall back to the built-in defaults.
func Load(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}

	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load taxonomy %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes a YAML taxonomy document.
func Parse(data []byte) (*Taxonomy, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid taxonomy yaml: %w", err)
	}

	categories := f.Categories
	if len(categories) == 0 {
		categories = DefaultCategories()
	}

	documents := DefaultDocumentKeywords()
	if f.Documents != nil {
		documents = *f.Documents
	}

	chart := f.Chart
	if len(chart) == 0 {
		chart = DefaultChart()
	}

	return New(categories, documents, chart)
}
