package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/models"
)

// MaterialRepository handles persistence for course materials.
type MaterialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	FindByID(ctx context.Context, id string) (models.Material, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.Material, error)
	Delete(ctx context.Context, id string) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository constructs a repository backed by GORM.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) FindByID(ctx context.Context, id string) (models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		return models.Material{}, err
	}
	return material, nil
}

func (r *materialRepository) ListByBatch(ctx context.Context, batchID string) ([]models.Material, error) {
	var materials []models.Material
	if err := r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("created_at DESC").
		Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *materialRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Material{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
