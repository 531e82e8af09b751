package dto

import (
	"time"

	"github.com/skillforge/lms-api/internal/models"
)

// LeaveCreateRequest submits a trainer leave request.
type LeaveCreateRequest struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Reason    string    `json:"reason" validate:"omitempty,max=2000"`
}

// LeaveResponse describes a leave request returned by the API.
type LeaveResponse struct {
	ID        string    `json:"id"`
	TrainerID string    `json:"trainer_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// NewLeaveResponse converts a leave request model to DTO.
func NewLeaveResponse(model models.LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:        model.ID,
		TrainerID: model.TrainerID,
		StartDate: model.StartDate,
		EndDate:   model.EndDate,
		Reason:    model.Reason,
		Status:    model.Status,
		CreatedAt: model.CreatedAt,
	}
}

// NewLeaveResponseSlice converts leave requests to DTOs.
func NewLeaveResponseSlice(items []models.LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewLeaveResponse(item))
	}
	return out
}
