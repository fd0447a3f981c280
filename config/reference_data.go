package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ReferenceData is the factory/building/line option list shared by every
// view. It is loaded once at startup.
type ReferenceData struct {
	Factories []Factory `yaml:"factories" json:"factories"`
}

type Factory struct {
	Name      string     `yaml:"name" json:"name"`
	Buildings []Building `yaml:"buildings" json:"buildings"`
}

type Building struct {
	Name  string   `yaml:"name" json:"name"`
	Lines []string `yaml:"lines" json:"lines"`
}

// DefaultReferenceData is used when no reference file is configured.
func DefaultReferenceData() ReferenceData {
	lines := make([]string, 0, 15)
	for i := 1; i <= 15; i++ {
		lines = append(lines, fmt.Sprintf("Line-%d", i))
	}
	buildings := []Building{
		{Name: "A-2", Lines: lines},
		{Name: "B-2", Lines: lines},
		{Name: "A-3", Lines: lines},
		{Name: "B-3", Lines: lines},
		{Name: "A-4", Lines: lines},
		{Name: "B-4", Lines: lines},
		{Name: "A-5", Lines: lines},
		{Name: "5-B", Lines: lines},
	}
	return ReferenceData{Factories: []Factory{
		{Name: "K-1", Buildings: buildings},
		{Name: "K-2", Buildings: buildings},
		{Name: "K-3", Buildings: buildings},
	}}
}

// LoadReferenceData reads reference data from a YAML file. An empty path
// yields the defaults.
func LoadReferenceData(path string) (ReferenceData, error) {
	if path == "" {
		return DefaultReferenceData(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ReferenceData{}, fmt.Errorf("failed to read reference data %q: %w", path, err)
	}
	var ref ReferenceData
	if err := yaml.Unmarshal(data, &ref); err != nil {
		return ReferenceData{}, fmt.Errorf("failed to parse reference data %q: %w", path, err)
	}
	if len(ref.Factories) == 0 {
		return ReferenceData{}, fmt.Errorf("reference data %q lists no factories", path)
	}
	return ref, nil
}

// HasBuilding reports whether factory lists building, ignoring case and
// surrounding space. An unknown factory accepts nothing.
func (r ReferenceData) HasBuilding(factory, building string) bool {
	factory, building = strings.TrimSpace(factory), strings.TrimSpace(building)
	for _, f := range r.Factories {
		if !strings.EqualFold(strings.TrimSpace(f.Name), factory) {
			continue
		}
		for _, b := range f.Buildings {
			if strings.EqualFold(strings.TrimSpace(b.Name), building) {
				return true
			}
		}
	}
	return false
}
