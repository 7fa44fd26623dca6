package models

import "time"

// User mirrors the identity provider's account. Email identifies a user for
// review and wishlist lookups.
type User struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Email             string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username          string    `gorm:"size:150" json:"username"`
	FirstName         string    `gorm:"size:150" json:"first_name"`
	LastName          string    `gorm:"size:150" json:"last_name"`
	ProfilePictureURL string    `json:"profile_picture_url"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
