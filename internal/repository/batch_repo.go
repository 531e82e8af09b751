package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/models"
)

// BatchRepository handles persistence for course batches.
type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	FindByID(ctx context.Context, id string) (models.Batch, error)
	List(ctx context.Context) ([]models.Batch, error)
	ListRunningByTrainer(ctx context.Context, trainerID string) ([]models.Batch, error)
}

type batchRepository struct {
	db *gorm.DB
}

// NewBatchRepository constructs a repository backed by GORM.
func NewBatchRepository(db *gorm.DB) BatchRepository {
	return &batchRepository{db: db}
}

func (r *batchRepository) Create(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Create(batch).Error
}

func (r *batchRepository) FindByID(ctx context.Context, id string) (models.Batch, error) {
	var batch models.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		return models.Batch{}, err
	}
	return batch, nil
}

func (r *batchRepository) List(ctx context.Context) ([]models.Batch, error) {
	var batches []models.Batch
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *batchRepository) ListRunningByTrainer(ctx context.Context, trainerID string) ([]models.Batch, error) {
	var batches []models.Batch
	if err := r.db.WithContext(ctx).
		Where("trainer_id = ? AND status = ?", trainerID, models.BatchStatusRunning).
		Order("start_date ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}
