package util

import (
	"encoding/json"
	"fmt"
	"os"

	"floorwatch/models"
)

// FloorFixture is a canned floor backend state used by the mock environment.
type FloorFixture struct {
	Segments    []models.Segment                   `json:"segments"`
	Headers     []models.Header                    `json:"headers"`
	StyleMedia  []models.StyleMedia                `json:"styleMedia"`
	Wip         map[string]models.WipSnapshot      `json:"wip"`
	Variance    map[string][]models.VarianceRecord `json:"variance"`
	Inspections []models.Inspection                `json:"inspections"`
}

// ReadFloorFixtureFromJSON loads a FloorFixture from JSON on disk.
func ReadFloorFixtureFromJSON(filePath string) (*FloorFixture, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var fixture FloorFixture
	if err := json.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("failed to unmarshal FloorFixture: %w", err)
	}
	return &fixture, nil
}
