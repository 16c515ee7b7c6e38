package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/braunma/rackgrid/pkg/models"
	"github.com/braunma/rackgrid/pkg/utils"
)

// DataLoader handles loading and validating YAML definition files
type DataLoader struct {
	basePath string
	logger   *utils.Logger
}

// NewDataLoader creates a new data loader
func NewDataLoader(basePath string, logger *utils.Logger) *DataLoader {
	return &DataLoader{
		basePath: basePath,
		logger:   logger,
	}
}

// LoadRacks loads desired rack definitions from a folder.
// Every rack is validated and normalized; duplicate ids across files are rejected.
func (dl *DataLoader) LoadRacks(folder string) ([]*models.Rack, error) {
	var racks []*models.Rack
	err := dl.loadFromFolder(folder, &racks)
	if err != nil {
		return nil, err
	}
	if err := checkRacks(racks); err != nil {
		return nil, fmt.Errorf("invalid rack definitions in %s: %w", folder, err)
	}
	dl.logger.Debug("Loaded %d racks from %s", len(racks), folder)
	return racks, nil
}

// LoadTemplates loads extra device templates from a folder
func (dl *DataLoader) LoadTemplates(folder string) ([]models.DeviceTemplate, error) {
	var templates []models.DeviceTemplate
	err := dl.loadFromFolder(folder, &templates)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if err := validateTemplate(t); err != nil {
			return nil, fmt.Errorf("invalid template in %s: %w", folder, err)
		}
	}
	dl.logger.Debug("Loaded %d device templates from %s", len(templates), folder)
	return templates, nil
}

// loadFromFolder loads YAML files from a folder and unmarshals into the target
func (dl *DataLoader) loadFromFolder(folder string, target interface{}) error {
	targetDir := filepath.Join(dl.basePath, folder)

	if _, err := os.Stat(targetDir); os.IsNotExist(err) {
		dl.logger.Warning("Folder %s not found, skipping", folder)
		return nil
	}

	yamlFiles, err := dl.findYAMLFiles(targetDir)
	if err != nil {
		return fmt.Errorf("failed to find YAML files in %s: %w", targetDir, err)
	}

	if len(yamlFiles) == 0 {
		dl.logger.Warning("No YAML files found in %s", folder)
		return nil
	}

	for _, file := range yamlFiles {
		if err := dl.loadFile(file, target); err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	return nil
}

// loadFile loads a single YAML file holding a list and appends its items to target
func (dl *DataLoader) loadFile(path string, target interface{}) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	switch t := target.(type) {
	case *[]*models.Rack:
		var newItems []*models.Rack
		if err := yaml.Unmarshal(content, &newItems); err != nil {
			return fmt.Errorf("failed to unmarshal racks: %w", err)
		}
		*t = append(*t, newItems...)
	case *[]models.DeviceTemplate:
		var newItems []models.DeviceTemplate
		if err := yaml.Unmarshal(content, &newItems); err != nil {
			return fmt.Errorf("failed to unmarshal templates: %w", err)
		}
		*t = append(*t, newItems...)
	default:
		return fmt.Errorf("unsupported target type: %T", target)
	}

	dl.logger.Debug("Read %s", path)
	return nil
}

// findYAMLFiles recursively finds all YAML files in a directory
func (dl *DataLoader) findYAMLFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.IsDir() {
			ext := filepath.Ext(path)
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, path)
			}
		}

		return nil
	})

	return files, err
}

func validateTemplate(t models.DeviceTemplate) error {
	if t.Name == "" {
		return fmt.Errorf("template has empty name")
	}
	if !models.ValidDeviceType(t.Type) {
		return fmt.Errorf("template %s: unknown type %q", t.Name, t.Type)
	}
	if t.USize < 1 {
		return fmt.Errorf("template %s: invalid uSize %d", t.Name, t.USize)
	}
	return nil
}
