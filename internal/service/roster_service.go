package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/repository"
)

var (
	// ErrTrainerNotFound indicates the referenced trainer does not exist.
	ErrTrainerNotFound = errors.New("trainer not found")
)

// RosterService manages users and batches. Creating a user also creates the
// matching operational contact record that notification senders resolve
// against.
type RosterService interface {
	CreateUser(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error)
	ListUsers(ctx context.Context, role string) ([]dto.UserResponse, error)
	CreateBatch(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error)
	ListBatches(ctx context.Context) ([]dto.BatchResponse, error)
}

type rosterService struct {
	users     repository.UserRepository
	contacts  repository.ContactRepository
	batches   repository.BatchRepository
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewRosterService constructs the roster service.
func NewRosterService(users repository.UserRepository, contacts repository.ContactRepository, batches repository.BatchRepository, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) RosterService {
	return &rosterService{
		users:     users,
		contacts:  contacts,
		batches:   batches,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "roster_service").Logger(),
	}
}

func (s *rosterService) CreateUser(ctx context.Context, payload dto.UserCreateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	user := models.User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(payload.Name),
		Email: email,
		Role:  payload.Role,
	}
	if payload.BatchID != "" {
		batchID := payload.BatchID
		user.BatchID = &batchID
	}

	if err := s.users.Create(ctx, &user); err != nil {
		return dto.UserResponse{}, err
	}

	contact := models.Contact{
		ID:    uuid.NewString(),
		Email: email,
		Name:  user.Name,
		Phone: strings.TrimSpace(payload.Phone),
	}
	if err := s.contacts.Create(ctx, &contact); err != nil {
		// The principal exists without a contact record; notification sends
		// from this user will fail until one is created.
		s.logger.Warn().Err(err).Str("email", email).Msg("failed to create contact record")
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:      "user_created",
		Description: fmt.Sprintf("%s registered as %s", user.Name, user.Role),
		Target:      user.ID,
	})

	return dto.NewUserResponse(user), nil
}

func (s *rosterService) ListUsers(ctx context.Context, role string) ([]dto.UserResponse, error) {
	users, err := s.users.ListByRole(ctx, strings.ToLower(strings.TrimSpace(role)))
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponseSlice(users), nil
}

func (s *rosterService) CreateBatch(ctx context.Context, payload dto.BatchCreateRequest) (dto.BatchResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.BatchResponse{}, err
	}

	trainer, err := s.users.FindByID(ctx, payload.TrainerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BatchResponse{}, fmt.Errorf("%w: %s", ErrTrainerNotFound, payload.TrainerID)
		}
		return dto.BatchResponse{}, err
	}
	if trainer.Role != models.RoleTrainer {
		return dto.BatchResponse{}, fmt.Errorf("%w: %s is not a trainer", ErrTrainerNotFound, payload.TrainerID)
	}

	status := payload.Status
	if status == "" {
		status = models.BatchStatusUpcoming
	}

	batch := models.Batch{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(payload.Name),
		CourseName: strings.TrimSpace(payload.CourseName),
		TrainerID:  trainer.ID,
		Status:     status,
		StartDate:  payload.StartDate,
	}

	if err := s.batches.Create(ctx, &batch); err != nil {
		return dto.BatchResponse{}, err
	}

	s.activity.Record(ctx, ActivityEntry{
		Action:      "batch_created",
		Description: fmt.Sprintf("batch %s assigned to %s", batch.Name, trainer.Name),
		Target:      batch.ID,
	})

	return dto.NewBatchResponse(batch), nil
}

func (s *rosterService) ListBatches(ctx context.Context) ([]dto.BatchResponse, error) {
	batches, err := s.batches.List(ctx)
	if err != nil {
		return nil, err
	}
	return dto.NewBatchResponseSlice(batches), nil
}
