package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillforge/lms-api/internal/service"
	"github.com/skillforge/lms-api/internal/utils"
)

// MaterialHandler exposes course material upload and listing per batch.
type MaterialHandler struct {
	service service.MaterialService
	logger  zerolog.Logger
}

// NewMaterialHandler constructs a material handler instance.
func NewMaterialHandler(service service.MaterialService, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service: service,
		logger:  logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register binds the material routes under a batch group.
func (h *MaterialHandler) Register(router fiber.Router) {
	router.Post("/:batchId/materials", h.upload)
	router.Get("/:batchId/materials", h.list)
	router.Delete("/materials/:id", h.remove)
}

func (h *MaterialHandler) upload(c *fiber.Ctx) error {
	uploaderID := userIDFromContext(c)
	uploaderEmail := userEmailFromContext(c)
	if uploaderID == "" || uploaderEmail == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "uploader identity missing")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "file is required")
	}
	title := c.FormValue("title")

	material, err := h.service.Upload(requestContext(c), c.Params("batchId"), title, file, uploaderID, uploaderEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "batch not found")
		case errors.Is(err, service.ErrMaterialTooLarge):
			return utils.SendError(c, fiber.StatusRequestEntityTooLarge, "file exceeds the size limit")
		case errors.Is(err, service.ErrMaterialTypeNotAllowed):
			return utils.SendError(c, fiber.StatusUnsupportedMediaType, "file type not allowed")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("material upload failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to upload material")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "material uploaded", material)
}

func (h *MaterialHandler) list(c *fiber.Ctx) error {
	materials, err := h.service.ListByBatch(requestContext(c), c.Params("batchId"))
	if err != nil {
		if errors.Is(err, service.ErrBatchNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "batch not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("material list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load materials")
	}

	return utils.SendSuccess(c, "materials", materials)
}

func (h *MaterialHandler) remove(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrMaterialNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "material not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("material delete failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete material")
	}

	return utils.SendSuccess(c, "material deleted", nil)
}
