package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone     *string   `gorm:"size:20;uniqueIndex" json:"phone,omitempty"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Verified  bool      `gorm:"default:false" json:"is_verified"`
	CreatedAt time.Time `json:"created_at"`
}

// PhoneOrEmpty is used where a plain string is needed for the phone
// column, e.g. when synthesizing a fallback SOS contact.
func (u *User) PhoneOrEmpty() string {
	if u.Phone == nil {
		return ""
	}
	return *u.Phone
}
