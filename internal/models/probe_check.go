package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProbeCheck is one recorded reachability probe against an application's
// production URL. Rows are written by the background refresher.
type ProbeCheck struct {
	BaseModel

	ApplicationID uint           `gorm:"not null;index" json:"applicationId"`
	Status        string         `gorm:"not null" json:"status"`
	ResponseTime  int            `gorm:"not null" json:"responseTime"`
	Detail        datatypes.JSON `gorm:"type:jsonb" json:"detail"`
	CheckedAt     time.Time      `gorm:"not null" json:"checkedAt"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
