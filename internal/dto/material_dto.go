package dto

import (
	"time"

	"github.com/skillforge/lms-api/internal/models"
)

// MaterialResponse describes an uploaded course material.
type MaterialResponse struct {
	ID         string    `json:"id"`
	BatchID    string    `json:"batch_id"`
	Title      string    `json:"title"`
	FileURL    string    `json:"file_url"`
	Format     string    `json:"format"`
	SizeBytes  int64     `json:"size_bytes"`
	UploadedBy string    `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewMaterialResponse converts a material model to DTO.
func NewMaterialResponse(model models.Material) MaterialResponse {
	return MaterialResponse{
		ID:         model.ID,
		BatchID:    model.BatchID,
		Title:      model.Title,
		FileURL:    model.FileURL,
		Format:     model.Format,
		SizeBytes:  model.SizeBytes,
		UploadedBy: model.UploadedBy,
		CreatedAt:  model.CreatedAt,
	}
}

// NewMaterialResponseSlice converts materials to DTOs.
func NewMaterialResponseSlice(items []models.Material) []MaterialResponse {
	out := make([]MaterialResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewMaterialResponse(item))
	}
	return out
}
