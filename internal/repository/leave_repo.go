package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/models"
)

// LeaveRepository handles persistence for trainer leave requests.
type LeaveRepository interface {
	Create(ctx context.Context, leave *models.LeaveRequest) error
	FindByID(ctx context.Context, id string) (models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, id, status string) error
	ListByTrainer(ctx context.Context, trainerID string) ([]models.LeaveRequest, error)
	ListByStatus(ctx context.Context, status string) ([]models.LeaveRequest, error)
}

type leaveRepository struct {
	db *gorm.DB
}

// NewLeaveRepository constructs a repository backed by GORM.
func NewLeaveRepository(db *gorm.DB) LeaveRepository {
	return &leaveRepository{db: db}
}

func (r *leaveRepository) Create(ctx context.Context, leave *models.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(leave).Error
}

func (r *leaveRepository) FindByID(ctx context.Context, id string) (models.LeaveRequest, error) {
	var leave models.LeaveRequest
	if err := r.db.WithContext(ctx).First(&leave, "id = ?", id).Error; err != nil {
		return models.LeaveRequest{}, err
	}
	return leave, nil
}

func (r *leaveRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.LeaveRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *leaveRepository) ListByTrainer(ctx context.Context, trainerID string) ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	if err := r.db.WithContext(ctx).
		Where("trainer_id = ?", trainerID).
		Order("created_at DESC").
		Find(&leaves).Error; err != nil {
		return nil, err
	}
	return leaves, nil
}

func (r *leaveRepository) ListByStatus(ctx context.Context, status string) ([]models.LeaveRequest, error) {
	var leaves []models.LeaveRequest
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&leaves).Error; err != nil {
		return nil, err
	}
	return leaves, nil
}
