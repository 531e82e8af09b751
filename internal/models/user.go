package models

import "time"

// Role names recognised by the platform.
const (
	RoleAdmin   = "admin"
	RoleTrainer = "trainer"
	RoleStudent = "student"
)

// User represents a platform principal: an admin, a trainer or a student.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null;index" json:"role"`
	BatchID   *string   `gorm:"size:64;index" json:"batch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Contact is the operational contact record for a principal. Notification
// senders are resolved through this table by email rather than from the
// authenticated user id directly.
type Contact struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:32" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
