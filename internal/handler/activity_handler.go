package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/service"
	"github.com/skillforge/lms-api/internal/utils"
)

// ActivityHandler exposes the admin activity feed.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs an activity handler instance.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// Register binds the activity feed routes.
func (h *ActivityHandler) Register(router fiber.Router) {
	router.Get("/activities", h.list)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "page_size")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page_size")
	}

	req := dto.ActivityListRequest{
		Page:     page,
		PageSize: pageSize,
		Action:   c.Query("action"),
		Actor:    c.Query("actor"),
	}

	feed, err := h.service.List(requestContext(c), req)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("activity feed query failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load activity feed")
	}

	return utils.SendSuccess(c, "activity feed", feed)
}
