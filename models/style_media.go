package models

import "time"

// StyleMedia holds the image/video attached to a style for a date.
type StyleMedia struct {
	ID               string    `json:"_id,omitempty"`
	Factory          string    `json:"factory"`
	AssignedBuilding string    `json:"assigned_building"`
	Buyer            string    `json:"buyer"`
	Style            string    `json:"style"`
	ColorModel       string    `json:"color_model"`
	Date             string    `json:"date,omitempty"`
	ImageSrc         string    `json:"imageSrc,omitempty"`
	VideoSrc         string    `json:"videoSrc,omitempty"`
	CreatedAt        time.Time `json:"createdAt,omitzero"`
	UpdatedAt        time.Time `json:"updatedAt,omitzero"`
}

func (m StyleMedia) RecordID() string { return m.ID }
