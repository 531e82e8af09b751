package dto

import (
	"time"

	"github.com/skillforge/lms-api/internal/models"
)

// UserCreateRequest registers a new principal.
type UserCreateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Role    string `json:"role" validate:"required,oneof=admin trainer student"`
	BatchID string `json:"batch_id" validate:"omitempty,max=64"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
}

// UserResponse describes a principal returned by the API.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	BatchID   string    `json:"batch_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a user model to DTO.
func NewUserResponse(model models.User) UserResponse {
	response := UserResponse{
		ID:        model.ID,
		Name:      model.Name,
		Email:     model.Email,
		Role:      model.Role,
		CreatedAt: model.CreatedAt,
	}
	if model.BatchID != nil {
		response.BatchID = *model.BatchID
	}
	return response
}

// NewUserResponseSlice converts users to DTOs.
func NewUserResponseSlice(items []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewUserResponse(item))
	}
	return out
}

// BatchCreateRequest registers a course batch.
type BatchCreateRequest struct {
	Name       string    `json:"name" validate:"required,min=2,max=255"`
	CourseName string    `json:"course_name" validate:"omitempty,max=255"`
	TrainerID  string    `json:"trainer_id" validate:"required,max=64"`
	Status     string    `json:"status" validate:"omitempty,oneof=upcoming running completed"`
	StartDate  time.Time `json:"start_date"`
}

// BatchResponse describes a batch returned by the API.
type BatchResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CourseName string    `json:"course_name,omitempty"`
	TrainerID  string    `json:"trainer_id"`
	Status     string    `json:"status"`
	StartDate  time.Time `json:"start_date"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewBatchResponse converts a batch model to DTO.
func NewBatchResponse(model models.Batch) BatchResponse {
	return BatchResponse{
		ID:         model.ID,
		Name:       model.Name,
		CourseName: model.CourseName,
		TrainerID:  model.TrainerID,
		Status:     model.Status,
		StartDate:  model.StartDate,
		CreatedAt:  model.CreatedAt,
	}
}

// NewBatchResponseSlice converts batches to DTOs.
func NewBatchResponseSlice(items []models.Batch) []BatchResponse {
	out := make([]BatchResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewBatchResponse(item))
	}
	return out
}
