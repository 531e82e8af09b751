package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/service"
	"github.com/skillforge/lms-api/internal/utils"
)

// LeaveHandler exposes trainer leave submission and the admin approval flow.
type LeaveHandler struct {
	service service.LeaveService
	logger  zerolog.Logger
}

// NewLeaveHandler constructs a leave handler instance.
func NewLeaveHandler(service service.LeaveService, logger zerolog.Logger) *LeaveHandler {
	return &LeaveHandler{
		service: service,
		logger:  logger.With().Str("component", "leave_handler").Logger(),
	}
}

// RegisterTrainer binds the trainer-facing leave routes.
func (h *LeaveHandler) RegisterTrainer(router fiber.Router) {
	router.Post("/", h.request)
	router.Get("/", h.listOwn)
}

// RegisterAdmin binds the admin review routes.
func (h *LeaveHandler) RegisterAdmin(router fiber.Router) {
	router.Get("/leaves", h.listPending)
	router.Put("/leaves/:id/approve", h.approve)
	router.Put("/leaves/:id/reject", h.reject)
}

func (h *LeaveHandler) request(c *fiber.Ctx) error {
	trainerID := userIDFromContext(c)
	if trainerID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	var payload dto.LeaveCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	leave, err := h.service.Request(requestContext(c), trainerID, payload)
	if err != nil {
		if isValidationError(err) || errors.Is(err, service.ErrLeaveDatesInvalid) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("leave request failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit leave request")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "leave requested", leave)
}

func (h *LeaveHandler) listOwn(c *fiber.Ctx) error {
	trainerID := userIDFromContext(c)
	if trainerID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "user not authenticated")
	}

	leaves, err := h.service.ListForTrainer(requestContext(c), trainerID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("leave list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load leave requests")
	}

	return utils.SendSuccess(c, "leave requests", leaves)
}

func (h *LeaveHandler) listPending(c *fiber.Ctx) error {
	leaves, err := h.service.ListPending(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("pending leave list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load leave requests")
	}

	return utils.SendSuccess(c, "pending leave requests", leaves)
}

func (h *LeaveHandler) approve(c *fiber.Ctx) error {
	approverEmail := userEmailFromContext(c)
	if approverEmail == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "approver identity missing")
	}

	leave, err := h.service.Approve(requestContext(c), c.Params("id"), approverEmail)
	if err != nil {
		return h.reviewError(c, err, "leave approval failed")
	}

	return utils.SendSuccess(c, "leave approved", leave)
}

func (h *LeaveHandler) reject(c *fiber.Ctx) error {
	leave, err := h.service.Reject(requestContext(c), c.Params("id"))
	if err != nil {
		return h.reviewError(c, err, "leave rejection failed")
	}

	return utils.SendSuccess(c, "leave rejected", leave)
}

func (h *LeaveHandler) reviewError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "leave request not found")
	case errors.Is(err, service.ErrLeaveAlreadyResolved):
		return utils.SendError(c, fiber.StatusConflict, "leave request already resolved")
	case errors.Is(err, service.ErrSenderContactNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "approver contact not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg(message)
		return utils.SendError(c, fiber.StatusInternalServerError, message)
	}
}
