package models

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest lists statement files to import in one batch, optionally pinning
// each file to a target account instead of letting the resolver decide.
type Manifest struct {
	Imports []ImportSpec `yaml:"imports"`
}

// ImportSpec is a single statement to be imported.
type ImportSpec struct {
	FilePath  string `yaml:"file"`
	AccountID string `yaml:"account,omitempty"`
}

// File returns the absolute path to the statement file, expanding ~.
func (s *ImportSpec) File() (string, error) {
	if strings.HasPrefix(s.FilePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, s.FilePath[2:]), nil
	}
	return s.FilePath, nil
}

// ManifestFromFile reads an import manifest from a YAML file.
func ManifestFromFile(filePath string) (*Manifest, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &manifest, nil
}
