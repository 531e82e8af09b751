package models

import (
	"time"

	"gorm.io/datatypes"
)

// RecipientType selects how a notification's audience is resolved.
type RecipientType string

// Recognised recipient types. These are the values stored and accepted on the
// wire.
const (
	RecipientAll         RecipientType = "All"
	RecipientAllTrainers RecipientType = "AllTrainers"
	RecipientAllStudents RecipientType = "AllStudents"
	RecipientBatch       RecipientType = "Batch"
	RecipientIndividual  RecipientType = "Individual"
)

// Notification is a message fanned out to a resolved audience. RecipientIDs
// semantics depend on RecipientType: empty for All, batch ids for Batch
// (never expanded to students at write time), user ids otherwise.
type Notification struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Title         string                      `gorm:"size:255;not null" json:"title"`
	Message       string                      `gorm:"type:text;not null" json:"message"`
	RecipientType RecipientType               `gorm:"size:32;index" json:"recipient_type"`
	RecipientIDs  datatypes.JSONSlice[string] `gorm:"type:text" json:"recipient_ids"`
	Sender        string                      `gorm:"size:64" json:"sender"`
	ReadBy        datatypes.JSONSlice[string] `gorm:"type:text" json:"read_by"`
	CreatedAt     time.Time                   `json:"created_at"`
}

// MarkReadBy adds userID to ReadBy and reports whether the set changed.
func (n *Notification) MarkReadBy(userID string) bool {
	for _, id := range n.ReadBy {
		if id == userID {
			return false
		}
	}
	n.ReadBy = append(n.ReadBy, userID)
	return true
}
