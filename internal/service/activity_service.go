package service

import (
	"context"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/observability"
	"github.com/skillforge/lms-api/internal/realtime"
	"github.com/skillforge/lms-api/internal/repository"
)

// ActivityEntry captures the details of an auditable action.
type ActivityEntry struct {
	Action      string
	Description string
	Metadata    map[string]interface{}
	Actor       string
	Target      string
}

// ActivityRecorder records audit entries. Recording is best-effort: it never
// returns an error, so a failed write or broadcast cannot fail the business
// operation that triggered it.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) dto.ActivityLogResponse
}

// ActivityService exposes methods to record and query activity logs.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
}

type activityService struct {
	repo        repository.ActivityLogRepository
	broadcaster Broadcaster
	validator   *validator.Validate
	logger      zerolog.Logger
}

// NewActivityService constructs the activity log service. broadcaster may be
// nil when realtime is not wired; entries are then persisted without a live
// feed.
func NewActivityService(repo repository.ActivityLogRepository, broadcaster Broadcaster, validator *validator.Validate, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:        repo,
		broadcaster: broadcaster,
		validator:   validator,
		logger:      logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) dto.ActivityLogResponse {
	action := strings.ToLower(strings.TrimSpace(entry.Action))
	if action == "" {
		s.logger.Warn().Msg("dropping activity entry without action")
		observability.ActivityEntries().WithLabelValues("invalid").Inc()
		return dto.ActivityLogResponse{}
	}

	model := models.ActivityLog{
		Action:      action,
		Description: strings.TrimSpace(entry.Description),
		Metadata:    sanitizeMetadata(entry.Metadata),
		Actor:       strings.TrimSpace(entry.Actor),
		Target:      strings.TrimSpace(entry.Target),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to persist activity log")
		observability.ActivityEntries().WithLabelValues("error").Inc()
		return dto.ActivityLogResponse{}
	}

	response := dto.NewActivityLogResponse(model)
	observability.ActivityEntries().WithLabelValues("ok").Inc()

	// Detached broadcast to the admin feed; failures stay on this side-channel.
	go s.broadcast(response)

	return response
}

func (s *activityService) broadcast(response dto.ActivityLogResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Warn().Interface("panic", r).Msg("activity broadcast failed")
		}
	}()

	if s.broadcaster == nil {
		s.logger.Warn().Msg("activity broadcast skipped: realtime not initialized")
		return
	}

	s.broadcaster.EmitToRoom(realtime.RoleRoom(models.RoleAdmin), realtime.EventNewActivity, response)
}

func (s *activityService) List(ctx context.Context, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.ActivityListResponse{}, err
	}

	filter := repository.ActivityLogFilter{
		Page:     req.Page,
		PageSize: req.PageSize,
		Action:   strings.ToLower(strings.TrimSpace(req.Action)),
		Actor:    strings.TrimSpace(req.Actor),
	}

	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	responses := make([]dto.ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewActivityLogResponse(entry))
	}

	pagination := dto.PaginationMeta{
		Page:       maxInt(req.Page, 1),
		PageSize:   req.PageSize,
		TotalItems: total,
	}
	if req.PageSize > 0 {
		pagination.TotalPages = int(math.Ceil(float64(total) / float64(req.PageSize)))
	} else {
		pagination.TotalPages = 1
	}

	return dto.ActivityListResponse{Items: responses, Pagination: pagination}, nil
}

func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "email") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
