package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/repository"
)

const leaveDateFormat = "Jan 2, 2006"

var (
	// ErrLeaveNotFound indicates the referenced leave request does not exist.
	ErrLeaveNotFound = errors.New("leave request not found")
	// ErrLeaveAlreadyResolved indicates the request was approved or rejected before.
	ErrLeaveAlreadyResolved = errors.New("leave request already resolved")
	// ErrLeaveDatesInvalid indicates the end date precedes the start date.
	ErrLeaveDatesInvalid = errors.New("leave end date before start date")
)

// LeaveService handles trainer leave requests. Approving one notifies the
// trainer's running batches through the notification fan-out path.
type LeaveService interface {
	Request(ctx context.Context, trainerID string, payload dto.LeaveCreateRequest) (dto.LeaveResponse, error)
	ListForTrainer(ctx context.Context, trainerID string) ([]dto.LeaveResponse, error)
	ListPending(ctx context.Context) ([]dto.LeaveResponse, error)
	Approve(ctx context.Context, id, approverEmail string) (dto.LeaveResponse, error)
	Reject(ctx context.Context, id string) (dto.LeaveResponse, error)
}

type leaveService struct {
	repo          repository.LeaveRepository
	users         repository.UserRepository
	batches       repository.BatchRepository
	notifications NotificationService
	activity      ActivityRecorder
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewLeaveService constructs the leave workflow service.
func NewLeaveService(repo repository.LeaveRepository, users repository.UserRepository, batches repository.BatchRepository, notifications NotificationService, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) LeaveService {
	return &leaveService{
		repo:          repo,
		users:         users,
		batches:       batches,
		notifications: notifications,
		activity:      activity,
		validator:     validate,
		logger:        logger.With().Str("component", "leave_service").Logger(),
		tracer:        otel.Tracer("github.com/skillforge/lms-api/internal/service/leave"),
	}
}

func (s *leaveService) Request(ctx context.Context, trainerID string, payload dto.LeaveCreateRequest) (dto.LeaveResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.LeaveResponse{}, err
	}

	if payload.EndDate.Before(payload.StartDate) {
		return dto.LeaveResponse{}, ErrLeaveDatesInvalid
	}

	if _, err := s.users.FindByID(ctx, trainerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.LeaveResponse{}, fmt.Errorf("trainer %s: %w", trainerID, ErrLeaveNotFound)
		}
		return dto.LeaveResponse{}, err
	}

	model := models.LeaveRequest{
		ID:        uuid.NewString(),
		TrainerID: trainerID,
		StartDate: payload.StartDate,
		EndDate:   payload.EndDate,
		Reason:    payload.Reason,
		Status:    models.LeaveStatusPending,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		return dto.LeaveResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:      "leave_requested",
		Description: fmt.Sprintf("leave requested from %s to %s", model.StartDate.Format(leaveDateFormat), model.EndDate.Format(leaveDateFormat)),
		Actor:       trainerID,
		Target:      model.ID,
	})

	return dto.NewLeaveResponse(model), nil
}

func (s *leaveService) ListForTrainer(ctx context.Context, trainerID string) ([]dto.LeaveResponse, error) {
	leaves, err := s.repo.ListByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return dto.NewLeaveResponseSlice(leaves), nil
}

func (s *leaveService) ListPending(ctx context.Context) ([]dto.LeaveResponse, error) {
	leaves, err := s.repo.ListByStatus(ctx, models.LeaveStatusPending)
	if err != nil {
		return nil, err
	}
	return dto.NewLeaveResponseSlice(leaves), nil
}

// Approve marks the request approved and sends a Batch-type notification to
// the trainer's running batches. The notification carries the batch ids, so
// delivery to students is live-only via the batch rooms.
func (s *leaveService) Approve(ctx context.Context, id, approverEmail string) (dto.LeaveResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "leave.approve",
		trace.WithAttributes(attribute.String("leave.id", id)))
	defer span.End()

	leave, err := s.pendingByID(spanCtx, id)
	if err != nil {
		span.RecordError(err)
		return dto.LeaveResponse{}, err
	}

	trainer, err := s.users.FindByID(spanCtx, leave.TrainerID)
	if err != nil {
		span.RecordError(err)
		return dto.LeaveResponse{}, err
	}

	batches, err := s.batches.ListRunningByTrainer(spanCtx, trainer.ID)
	if err != nil {
		span.RecordError(err)
		return dto.LeaveResponse{}, err
	}

	batchIDs := make([]string, 0, len(batches))
	for _, batch := range batches {
		batchIDs = append(batchIDs, batch.ID)
	}

	message := fmt.Sprintf("%s is on leave from %s to %s. Sessions may be rescheduled.",
		trainer.Name,
		leave.StartDate.Format(leaveDateFormat),
		leave.EndDate.Format(leaveDateFormat),
	)

	if _, err := s.notifications.Send(spanCtx, dto.NotificationSendRequest{
		Title:         "Trainer on leave",
		Message:       message,
		RecipientType: string(models.RecipientBatch),
		RecipientIDs:  batchIDs,
	}, approverEmail); err != nil {
		span.RecordError(err)
		return dto.LeaveResponse{}, err
	}

	// Flip the status only once the batches are notified, so a rejected send
	// leaves the request pending and retryable.
	if err := s.repo.UpdateStatus(spanCtx, id, models.LeaveStatusApproved); err != nil {
		span.RecordError(err)
		return dto.LeaveResponse{}, err
	}
	leave.Status = models.LeaveStatusApproved

	s.activity.Record(spanCtx, ActivityEntry{
		Action:      "leave_approved",
		Description: fmt.Sprintf("leave approved for %s", trainer.Name),
		Metadata:    map[string]interface{}{"batches": batchIDs},
		Actor:       approverEmail,
		Target:      leave.ID,
	})

	return dto.NewLeaveResponse(leave), nil
}

func (s *leaveService) Reject(ctx context.Context, id string) (dto.LeaveResponse, error) {
	leave, err := s.pendingByID(ctx, id)
	if err != nil {
		return dto.LeaveResponse{}, err
	}

	if err := s.repo.UpdateStatus(ctx, id, models.LeaveStatusRejected); err != nil {
		return dto.LeaveResponse{}, err
	}
	leave.Status = models.LeaveStatusRejected

	s.activity.Record(ctx, ActivityEntry{
		Action: "leave_rejected",
		Actor:  leave.TrainerID,
		Target: leave.ID,
	})

	return dto.NewLeaveResponse(leave), nil
}

func (s *leaveService) pendingByID(ctx context.Context, id string) (models.LeaveRequest, error) {
	leave, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.LeaveRequest{}, ErrLeaveNotFound
		}
		return models.LeaveRequest{}, err
	}

	if leave.Status != models.LeaveStatusPending {
		return models.LeaveRequest{}, ErrLeaveAlreadyResolved
	}

	return leave, nil
}
