package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/models"
)

// ContactRepository persists operational contact records. Notification
// senders are resolved through this table by email.
type ContactRepository interface {
	Create(ctx context.Context, contact *models.Contact) error
	FindByEmail(ctx context.Context, email string) (models.Contact, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository constructs a repository backed by GORM.
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *models.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

func (r *contactRepository) FindByEmail(ctx context.Context, email string) (models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).
		First(&contact, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error; err != nil {
		return models.Contact{}, err
	}
	return contact, nil
}
