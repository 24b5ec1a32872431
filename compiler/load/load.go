package load

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a model file and returns its validated schema.
// Files ending with .json are decoded as JSON, anything else as YAML.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes a model in the given format ("yaml" or "json") and validates it.
func Parse(data []byte, format string) (*Schema, error) {
	s := &Schema{}
	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(s); err != nil {
			return nil, fmt.Errorf("parse model: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported model format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model: %w", err)
	}
	return s, nil
}
