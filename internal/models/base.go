package models

import "time"

// BaseModel is gorm.Model without DeletedAt: deletion in this system is
// permanent, so no soft-delete column exists.
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
