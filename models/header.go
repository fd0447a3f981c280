package models

import "time"

// Header is a target-setter record for a segment on a date.
type Header struct {
	ID                    string    `json:"_id,omitempty"`
	Factory               string    `json:"factory,omitempty"`
	AssignedBuilding      string    `json:"assigned_building"`
	Line                  string    `json:"line"`
	Date                  string    `json:"date"`
	Buyer                 string    `json:"buyer"`
	Style                 string    `json:"style"`
	ColorModel            string    `json:"color_model,omitempty"`
	RunDay                Number    `json:"run_day"`
	TotalManpower         Number    `json:"total_manpower"`
	ManpowerPresent       Number    `json:"manpower_present"`
	ManpowerAbsent        Number    `json:"manpower_absent"`
	WorkingHour           Number    `json:"working_hour"`
	PlanQuantity          Number    `json:"plan_quantity"`
	PlanEfficiencyPercent Number    `json:"plan_efficiency_percent"`
	SMV                   Number    `json:"smv"`
	TargetFullDay         Number    `json:"target_full_day"`
	Capacity              Number    `json:"capacity"`
	CreatedAt             time.Time `json:"createdAt,omitzero"`
	UpdatedAt             time.Time `json:"updatedAt,omitzero"`
}

func (h Header) RecordID() string { return h.ID }
func (h Header) CreatedTime() time.Time { return h.CreatedAt }
func (h Header) UpdatedTime() time.Time { return h.UpdatedAt }
