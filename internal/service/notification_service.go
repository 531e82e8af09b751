package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/observability"
	"github.com/skillforge/lms-api/internal/realtime"
	"github.com/skillforge/lms-api/internal/repository"
)

var (
	// ErrNotificationNotFound indicates the referenced notification does not exist.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrSenderContactNotFound indicates no contact record matches the caller's email.
	ErrSenderContactNotFound = errors.New("sender contact not found")
	// ErrEmptyMessage indicates the message body was empty once sanitized.
	ErrEmptyMessage = errors.New("notification message empty after sanitization")
)

// NotificationService orchestrates the notification fan-out path: resolve the
// sender, resolve recipients, persist the record, broadcast to the resolved
// rooms.
type NotificationService interface {
	Send(ctx context.Context, payload dto.NotificationSendRequest, senderEmail string) (dto.NotificationResponse, error)
	ListForUser(ctx context.Context, userID string) ([]dto.NotificationResponse, error)
	MarkRead(ctx context.Context, id uint, userID string) (dto.NotificationResponse, error)
}

type notificationService struct {
	repo        repository.NotificationRepository
	contacts    repository.ContactRepository
	resolver    RecipientResolver
	broadcaster Broadcaster
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
}

// NewNotificationService constructs a notification service. The broadcaster
// must already be constructed; broadcast is sequential per resolved room and
// best-effort.
func NewNotificationService(repo repository.NotificationRepository, contacts repository.ContactRepository, resolver RecipientResolver, broadcaster Broadcaster, validate *validator.Validate, logger zerolog.Logger) NotificationService {
	return &notificationService{
		repo:        repo,
		contacts:    contacts,
		resolver:    resolver,
		broadcaster: broadcaster,
		validator:   validate,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/skillforge/lms-api/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *notificationService) Send(ctx context.Context, payload dto.NotificationSendRequest, senderEmail string) (dto.NotificationResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.NotificationResponse{}, err
	}

	cleanMessage := strings.TrimSpace(s.sanitizer.Sanitize(payload.Message))
	if cleanMessage == "" {
		return dto.NotificationResponse{}, ErrEmptyMessage
	}

	attrs := []attribute.KeyValue{
		attribute.String("notification.recipient_type", payload.RecipientType),
		attribute.Int("notification.recipient_count", len(payload.RecipientIDs)),
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.send", trace.WithAttributes(attrs...))
	defer span.End()

	contact, err := s.contacts.FindByEmail(spanCtx, senderEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, fmt.Errorf("%w: %s", ErrSenderContactNotFound, senderEmail)
		}
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	recipientType := models.RecipientType(payload.RecipientType)
	resolution, err := s.resolver.Resolve(spanCtx, recipientType, payload.RecipientIDs)
	if err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	model := models.Notification{
		Title:         strings.TrimSpace(s.sanitizer.Sanitize(payload.Title)),
		Message:       cleanMessage,
		RecipientType: recipientType,
		RecipientIDs:  datatypes.JSONSlice[string](resolution.StoredIDs),
		Sender:        contact.ID,
		ReadBy:        datatypes.JSONSlice[string]{},
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(model)
	s.fanOut(resolution, response)

	observability.NotificationsPublished().WithLabelValues(response.RecipientType).Inc()

	return response, nil
}

// fanOut emits the stored notification to the resolved rooms one at a time.
// Delivery is fire-and-forget; an empty resolution broadcasts nothing.
func (s *notificationService) fanOut(resolution RecipientResolution, notification dto.NotificationResponse) {
	if resolution.Global {
		s.broadcaster.EmitGlobal(realtime.EventReceiveNotification, notification)
		return
	}

	for _, room := range resolution.Rooms {
		s.broadcaster.EmitToRoom(room, realtime.EventReceiveNotification, notification)
	}
}

func (s *notificationService) ListForUser(ctx context.Context, userID string) ([]dto.NotificationResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user id is required")
	}

	notifications, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, userID string) (dto.NotificationResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read",
		trace.WithAttributes(attribute.String("notification.user_id", userID)))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.NotificationResponse{}, ErrNotificationNotFound
		}
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}
