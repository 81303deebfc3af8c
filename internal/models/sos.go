package models

import "time"

const (
	AlertTypeManual    = "manual"
	AlertTypeAutomatic = "automatic"
)

// SosEvent records one SOS trigger occurrence with the location it was
// fired from. Rows are immutable once written.
type SosEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	AlertType string    `gorm:"size:20;default:manual" json:"alert_type"`
	CreatedAt time.Time `json:"created_at"`
}

// SosAlert is one contact's notification record for an event. The
// contact fields are a snapshot taken at trigger time, not a live
// reference. Resolved only ever transitions false -> true.
type SosAlert struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SosID        uint      `gorm:"index;not null" json:"sos_id"`
	ContactName  string    `gorm:"size:100" json:"contact_name"`
	ContactPhone string    `gorm:"size:20" json:"contact_phone"`
	Resolved     bool      `gorm:"default:false" json:"resolved"`
	CreatedAt    time.Time `json:"created_at"`
}
