package models

import "time"

// User is a pre-provisioned identity. Email is the canonical login key for
// the allow-list path; Username+PasswordHash is the legacy secondary login
// path for admin-created accounts and is empty for everyone else.
type User struct {
	ID            uint   `gorm:"primarykey" json:"id"`
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Role          string `gorm:"not null;default:viewer" json:"role"`
	Username      string `gorm:"index:idx_users_username,unique,where:username <> ''" json:"username,omitempty"`
	PasswordHash  string `json:"-"`
	ProfilePicURL string `json:"profilePicUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}
