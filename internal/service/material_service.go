package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/observability"
	"github.com/skillforge/lms-api/internal/repository"
)

var (
	// ErrMaterialTooLarge indicates the payload exceeded the configured limit.
	ErrMaterialTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrMaterialTypeNotAllowed indicates the MIME type is not permitted.
	ErrMaterialTypeNotAllowed = errors.New("file type not allowed")
	// ErrMaterialNotFound indicates the referenced material does not exist.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrBatchNotFound indicates the referenced batch does not exist.
	ErrBatchNotFound = errors.New("batch not found")
)

var allowedMaterialTypes = map[string]struct{}{
	"application/pdf": {},
	"application/zip": {},
	"image/png":       {},
	"image/jpeg":      {},
	"video/mp4":       {},
	"text/plain":      {},
}

// MaterialStorage abstracts the object store holding material files.
type MaterialStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (url, publicID string, err error)
	Destroy(ctx context.Context, publicID string) error
}

// MaterialService handles validation, storage and registration of course
// materials. A successful upload notifies the batch room.
type MaterialService interface {
	Upload(ctx context.Context, batchID, title string, file *multipart.FileHeader, uploaderID, uploaderEmail string) (dto.MaterialResponse, error)
	ListByBatch(ctx context.Context, batchID string) ([]dto.MaterialResponse, error)
	Delete(ctx context.Context, id string) error
}

type materialService struct {
	storage       MaterialStorage
	repo          repository.MaterialRepository
	batches       repository.BatchRepository
	notifications NotificationService
	activity      ActivityRecorder
	logger        zerolog.Logger
	maxSize       int64
	tracer        trace.Tracer
}

// NewMaterialService constructs a material service.
func NewMaterialService(storage MaterialStorage, repo repository.MaterialRepository, batches repository.BatchRepository, notifications NotificationService, activity ActivityRecorder, maxSizeMB int, logger zerolog.Logger) MaterialService {
	if maxSizeMB <= 0 {
		maxSizeMB = 25
	}
	return &materialService{
		storage:       storage,
		repo:          repo,
		batches:       batches,
		notifications: notifications,
		activity:      activity,
		logger:        logger.With().Str("component", "material_service").Logger(),
		maxSize:       int64(maxSizeMB) * 1024 * 1024,
		tracer:        otel.Tracer("github.com/skillforge/lms-api/internal/service/material"),
	}
}

func (s *materialService) Upload(ctx context.Context, batchID, title string, file *multipart.FileHeader, uploaderID, uploaderEmail string) (dto.MaterialResponse, error) {
	ctx, span := s.tracer.Start(ctx, "materials.upload",
		trace.WithAttributes(attribute.String("material.batch_id", batchID)))
	defer span.End()

	if file == nil {
		err := errors.New("file is required")
		span.SetStatus(codes.Error, "validation failed")
		return dto.MaterialResponse{}, err
	}

	batch, err := s.batches.FindByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, fmt.Errorf("%w: %s", ErrBatchNotFound, batchID)
		}
		span.RecordError(err)
		return dto.MaterialResponse{}, err
	}

	if file.Size > s.maxSize {
		observability.MaterialUploadRejections().WithLabelValues("size").Inc()
		span.SetStatus(codes.Error, "payload too large")
		return dto.MaterialResponse{}, ErrMaterialTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		return dto.MaterialResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		return dto.MaterialResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.MaterialUploadRejections().WithLabelValues("size").Inc()
		span.SetStatus(codes.Error, "payload too large")
		return dto.MaterialResponse{}, ErrMaterialTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	detected := strings.Split(mime.String(), ";")[0]
	span.SetAttributes(attribute.String("material.detected_mime", detected))
	if _, ok := allowedMaterialTypes[detected]; !ok {
		observability.MaterialUploadRejections().WithLabelValues("type").Inc()
		span.SetStatus(codes.Error, "type not allowed")
		return dto.MaterialResponse{}, fmt.Errorf("%w: %s", ErrMaterialTypeNotAllowed, detected)
	}

	url, publicID, err := s.storage.Upload(ctx, file.Filename, bytes.NewReader(buf.Bytes()))
	if err != nil {
		observability.MaterialUploadRejections().WithLabelValues("storage").Inc()
		span.RecordError(err)
		return dto.MaterialResponse{}, err
	}

	materialTitle := strings.TrimSpace(title)
	if materialTitle == "" {
		materialTitle = file.Filename
	}

	model := models.Material{
		ID:         uuid.NewString(),
		BatchID:    batch.ID,
		Title:      materialTitle,
		FileURL:    url,
		PublicID:   publicID,
		Format:     detected,
		SizeBytes:  int64(buf.Len()),
		UploadedBy: uploaderID,
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		span.RecordError(err)
		return dto.MaterialResponse{}, err
	}

	observability.MaterialUploads().WithLabelValues(detected).Inc()

	s.activity.Record(ctx, ActivityEntry{
		Action:      "material_uploaded",
		Description: fmt.Sprintf("%s added to %s", model.Title, batch.Name),
		Actor:       uploaderID,
		Target:      model.ID,
	})

	// Announce the new material to the batch room. The upload already
	// succeeded; a failed notification only logs.
	if _, err := s.notifications.Send(ctx, dto.NotificationSendRequest{
		Title:         "New course material",
		Message:       fmt.Sprintf("%s is now available in %s.", model.Title, batch.Name),
		RecipientType: string(models.RecipientBatch),
		RecipientIDs:  []string{batch.ID},
	}, uploaderEmail); err != nil {
		s.logger.Warn().Err(err).Str("batch_id", batch.ID).Msg("failed to notify batch about new material")
	}

	return dto.NewMaterialResponse(model), nil
}

func (s *materialService) ListByBatch(ctx context.Context, batchID string) ([]dto.MaterialResponse, error) {
	materials, err := s.repo.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	return dto.NewMaterialResponseSlice(materials), nil
}

func (s *materialService) Delete(ctx context.Context, id string) error {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	if err := s.storage.Destroy(ctx, material.PublicID); err != nil {
		s.logger.Warn().Err(err).Str("public_id", material.PublicID).Msg("failed to remove stored asset")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	s.activity.Record(ctx, ActivityEntry{
		Action: "material_deleted",
		Target: id,
	})

	return nil
}
