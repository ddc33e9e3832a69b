package models

import "time"

// EmailVerificationCode is a short-lived code issued at registration.
// Delivery is handled out of band; the row is only the server-side record.
type EmailVerificationCode struct {
	Base
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Code      string    `gorm:"size:10;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
