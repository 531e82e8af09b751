package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/models"
)

// UserRepository handles persistence for platform principals.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	ListByRole(ctx context.Context, role string) ([]models.User, error)
	ListIDsByRole(ctx context.Context, role string) ([]string, error)
	ListByBatch(ctx context.Context, batchID string) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs a repository backed by GORM.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// ListByRole returns users with the given role; an empty role lists everyone.
func (r *userRepository) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	query := r.db.WithContext(ctx)
	if role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) ListIDsByRole(ctx context.Context, role string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", role).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userRepository) ListByBatch(ctx context.Context, batchID string) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("batch_id = ? AND role = ?", batchID, models.RoleStudent).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
