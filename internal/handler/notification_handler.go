package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/service"
	"github.com/skillforge/lms-api/internal/utils"
)

// NotificationHandler exposes the notification fan-out and inbox endpoints.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler constructs a handler instance.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register binds the inbox routes. Send is registered separately so the
// router can guard it with role and rate-limit middleware.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Put("/:id/read", h.markRead)
}

// Send fans a notification out to its resolved recipients.
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	senderEmail := userEmailFromContext(c)
	if senderEmail == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "sender identity missing")
	}

	var payload dto.NotificationSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	notification, err := h.service.Send(requestContext(c), payload, senderEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSenderContactNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "sender contact not found")
		case isValidationError(err) || errors.Is(err, service.ErrEmptyMessage):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("notification send failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to send notification")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "notification sent", notification)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	notifications, err := h.service.ListForUser(requestContext(c), userID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("notification list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load notifications")
	}

	return utils.SendSuccess(c, "notifications", notifications)
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	parsed, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	notification, err := h.service.MarkRead(requestContext(c), uint(parsed), userID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "notification not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("notification mark read failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to update notification")
	}

	return utils.SendSuccess(c, "notification updated", notification)
}
