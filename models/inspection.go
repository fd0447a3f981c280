package models

import "time"

// DefectCount is one defect type tallied during an inspection.
type DefectCount struct {
	Name     string `json:"name"`
	Quantity Number `json:"quantity"`
}

// Inspection is an hourly quality inspection entry.
type Inspection struct {
	ID              string        `json:"_id,omitempty"`
	UserID          string        `json:"userId,omitempty"`
	Factory         string        `json:"factory,omitempty"`
	Building        string        `json:"building"`
	Line            string        `json:"line"`
	Date            string        `json:"date"`
	HourLabel       string        `json:"hourLabel"`
	HourIndex       Number        `json:"hourIndex"`
	InspectedQty    Number        `json:"inspectedQty"`
	PassedQty       Number        `json:"passedQty"`
	DefectivePcs    Number        `json:"defectivePcs"`
	AfterRepair     Number        `json:"afterRepair"`
	TotalDefects    Number        `json:"totalDefects"`
	SelectedDefects []DefectCount `json:"selectedDefects,omitempty"`
	CreatedAt       time.Time     `json:"createdAt,omitzero"`
	UpdatedAt       time.Time     `json:"updatedAt,omitzero"`
}

func (i Inspection) RecordID() string { return i.ID }

// InspectionQuery filters /api/hourly-inspections.
type InspectionQuery struct {
	Date     string
	UserID   string
	Building string
	Factory  string
}
