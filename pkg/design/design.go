package design

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the design file looked up inside a project directory.
const ProjectFile = "stope.yaml"

// Load reads a design form from a YAML file.
func Load(path string) (*Form, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading design file: %w", err)
	}

	var form Form
	if err := yaml.Unmarshal(data, &form); err != nil {
		return nil, fmt.Errorf("parsing design YAML: %w", err)
	}

	return &form, nil
}

// LoadProject loads a design form from a project directory.
// It looks for stope.yaml in the given directory.
func LoadProject(projectDir string) (*Form, error) {
	return Load(ProjectPath(projectDir))
}

// ProjectPath returns the design file path for a project directory.
func ProjectPath(projectDir string) string {
	return filepath.Join(projectDir, ProjectFile)
}
