package models

import "time"

// MediaLinks is a user's personal image/video link pair.
type MediaLinks struct {
	ID        string    `json:"_id,omitempty"`
	UserID    string    `json:"userId"`
	ImageSrc  string    `json:"imageSrc,omitempty"`
	VideoSrc  string    `json:"videoSrc,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

func (m MediaLinks) RecordID() string { return m.ID }
