package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/models"
)

// likeEscaper neutralizes LIKE metacharacters so an id containing % or _
// cannot match other users' recipient lists.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// NotificationRepository handles persistence for notification entities.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id uint, userID string) (models.Notification, error)
	FindByID(ctx context.Context, id uint) (models.Notification, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs a repository backed by GORM.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListForUser returns notifications addressed to everyone or carrying the
// user id literally in recipient_ids, newest first. Batch-type notifications
// store batch ids, so they never match here; batch delivery is live-only.
func (r *notificationRepository) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	pattern := "%" + likeEscaper.Replace(fmt.Sprintf("%q", userID)) + "%"

	var notifications []models.Notification
	if err := r.db.WithContext(ctx).
		Where(`recipient_type = ? OR recipient_ids LIKE ? ESCAPE '\'`, models.RecipientAll, pattern).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}

	return notifications, nil
}

// MarkRead adds userID to the read set. Adding an id already present is a
// no-op; the stored record is returned either way.
func (r *notificationRepository) MarkRead(ctx context.Context, id uint, userID string) (models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return models.Notification{}, err
	}

	if !notification.MarkReadBy(userID) {
		return notification, nil
	}

	if err := r.db.WithContext(ctx).Save(&notification).Error; err != nil {
		return models.Notification{}, err
	}

	return notification, nil
}

func (r *notificationRepository) FindByID(ctx context.Context, id uint) (models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		return models.Notification{}, err
	}
	return notification, nil
}
