package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"expertapp.arpa/app/persona"
)

// FileConfig is the optional config file. Personas are a list so the first entry
// stays the default.
type FileConfig struct {
	Personas []persona.Persona `json:"personas" yaml:"personas"`
}

// ReadConfig reads and parses a config file into the provided struct
func ReadConfig(filePath string, v any) error {
	ext := filepath.Ext(filePath)

	content, err := os.ReadFile(filePath) // #nosec G304 -- filePath is controlled by configuration
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch ext {
	case ".json":
		if err := json.Unmarshal(content, v); err != nil {
			return fmt.Errorf("unmarshal json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, v); err != nil {
			return fmt.Errorf("unmarshal yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	return nil
}
