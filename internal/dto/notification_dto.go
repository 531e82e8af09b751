package dto

import (
	"time"

	"github.com/skillforge/lms-api/internal/models"
)

// NotificationSendRequest describes the payload to fan out a notification.
// RecipientIDs carry batch ids for the Batch type and user ids for the
// AllTrainers/AllStudents/Individual types; they must be empty for All.
type NotificationSendRequest struct {
	Title         string   `json:"title" validate:"required,min=1,max=255"`
	Message       string   `json:"message" validate:"required,min=1,max=4000"`
	RecipientType string   `json:"recipient_type" validate:"omitempty,oneof=All AllTrainers AllStudents Batch Individual"`
	RecipientIDs  []string `json:"recipient_ids" validate:"omitempty,dive,max=64"`
}

// NotificationResponse represents notification data returned to clients and
// pushed over the realtime channel.
type NotificationResponse struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	RecipientType string    `json:"recipient_type"`
	RecipientIDs  []string  `json:"recipient_ids"`
	Sender        string    `json:"sender"`
	ReadBy        []string  `json:"read_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification model to DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            model.ID,
		Title:         model.Title,
		Message:       model.Message,
		RecipientType: string(model.RecipientType),
		RecipientIDs:  append([]string{}, model.RecipientIDs...),
		Sender:        model.Sender,
		ReadBy:        append([]string{}, model.ReadBy...),
		CreatedAt:     model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice to DTOs.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewNotificationResponse(item))
	}
	return out
}
