package loader

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/braunma/rackgrid/internal/constants"
	"github.com/braunma/rackgrid/pkg/models"
)

// Export formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrInvalidLayout is returned when a layout file is not an array of racks
var ErrInvalidLayout = errors.New("invalid layout format")

// DecodeLayout parses a JSON layout file. The document must be an array of
// rack records; anything else is rejected whole, as is any record with an
// unknown height, orientation, device type or severity.
func DecodeLayout(data []byte) ([]*models.Rack, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected an array of racks", ErrInvalidLayout)
	}

	var racks []*models.Rack
	if err := json.Unmarshal(trimmed, &racks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := checkRacks(racks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return racks, nil
}

// DecodeLayoutYAML parses a YAML layout file with the same rules as DecodeLayout
func DecodeLayoutYAML(data []byte) ([]*models.Rack, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: expected an array of racks", ErrInvalidLayout)
	}

	var racks []*models.Rack
	if err := node.Content[0].Decode(&racks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	if err := checkRacks(racks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLayout, err)
	}
	return racks, nil
}

// EncodeLayout renders racks as an indented JSON array
func EncodeLayout(racks []*models.Rack) ([]byte, error) {
	out := normalized(racks)
	data, err := json.MarshalIndent(out, "", constants.JSONIndent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeLayoutYAML renders racks as a YAML sequence
func EncodeLayoutYAML(racks []*models.Rack) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(normalized(racks)); err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode layout: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatForPath picks the export format from a file extension, defaulting to JSON
func FormatForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Encode renders racks in the named format
func Encode(racks []*models.Rack, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return EncodeLayout(racks)
	case FormatYAML:
		return EncodeLayoutYAML(racks)
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// LoadLayoutFile reads a layout file. A missing file yields an empty layout.
func LoadLayoutFile(path string) ([]*models.Rack, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []*models.Rack{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read layout %s: %w", path, err)
	}

	var racks []*models.Rack
	if FormatForPath(path) == FormatYAML {
		racks, err = DecodeLayoutYAML(data)
	} else {
		racks, err = DecodeLayout(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", path, err)
	}
	return racks, nil
}

// SaveLayoutFile writes racks to path in the format implied by its extension
func SaveLayoutFile(path string, racks []*models.Rack) error {
	data, err := Encode(racks, FormatForPath(path))
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write layout %s: %w", path, err)
	}
	return nil
}

// checkRacks validates and normalizes decoded racks in place
func checkRacks(racks []*models.Rack) error {
	seen := make(map[string]bool, len(racks))
	for i, r := range racks {
		if r == nil {
			return fmt.Errorf("rack %d is null", i)
		}
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate rack id %s", r.ID)
		}
		seen[r.ID] = true
		r.Normalize()
	}
	return nil
}

// normalized returns a copy of racks whose empty collections encode as arrays
func normalized(racks []*models.Rack) []*models.Rack {
	out := make([]*models.Rack, 0, len(racks))
	for _, r := range racks {
		c := r.Clone()
		c.Normalize()
		out = append(out, c)
	}
	return out
}
