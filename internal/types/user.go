package types

import "time"

// UserResponse is the identity shape returned by every route. The password
// hash is never part of it.
type UserResponse struct {
	ID            uint      `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          string    `json:"role"`
	Username      string    `json:"username,omitempty"`
	ProfilePicURL string    `json:"profilePicUrl,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
