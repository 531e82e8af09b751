package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog captures auditable actions for the admin dashboard feed.
// Entries are append-only and best-effort: failing to write one never fails
// the workflow that triggered it.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Action      string            `gorm:"size:64;not null;index" json:"action"`
	Description string            `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Actor       string            `gorm:"size:64;index" json:"actor,omitempty"`
	Target      string            `gorm:"size:64" json:"target,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
