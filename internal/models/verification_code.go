package models

import "time"

// VerificationCode is a short-lived 6-digit credential proving email
// ownership during registration. The most recently issued code for an
// email wins; codes are deleted once consumed.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;index;not null" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
