package dto

import (
	"time"

	"github.com/skillforge/lms-api/internal/models"
)

// PaginationMeta describes paging information attached to list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// ActivityListRequest filters the admin activity feed.
type ActivityListRequest struct {
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
	Action   string `query:"action" validate:"omitempty,max=64"`
	Actor    string `query:"actor" validate:"omitempty,max=64"`
}

// ActivityLogResponse is the serialized representation of an audit entry.
type ActivityLogResponse struct {
	ID          uint                   `json:"id"`
	Action      string                 `json:"action"`
	Description string                 `json:"description"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	Actor       string                 `json:"actor,omitempty"`
	Target      string                 `json:"target,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// ActivityListResponse wraps a page of audit entries.
type ActivityListResponse struct {
	Items      []ActivityLogResponse `json:"items"`
	Pagination PaginationMeta        `json:"pagination"`
}

// NewActivityLogResponse converts an activity log model to DTO.
func NewActivityLogResponse(model models.ActivityLog) ActivityLogResponse {
	response := ActivityLogResponse{
		ID:          model.ID,
		Action:      model.Action,
		Description: model.Description,
		Actor:       model.Actor,
		Target:      model.Target,
		CreatedAt:   model.CreatedAt,
	}
	if model.Metadata != nil {
		response.Metadata = map[string]interface{}(model.Metadata)
	}
	return response
}
