package models

import "time"

// Leave request statuses.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// LeaveRequest records a trainer's request for time off. Approving one
// notifies the trainer's running batches.
type LeaveRequest struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	TrainerID string    `gorm:"size:64;index;not null" json:"trainer_id"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Reason    string    `gorm:"type:text" json:"reason"`
	Status    string    `gorm:"size:32;not null;default:pending;index" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
