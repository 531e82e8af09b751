package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillforge/lms-api/internal/dto"
	"github.com/skillforge/lms-api/internal/service"
	"github.com/skillforge/lms-api/internal/utils"
)

// RosterHandler exposes admin user and batch management.
type RosterHandler struct {
	service service.RosterService
	logger  zerolog.Logger
}

// NewRosterHandler constructs a roster handler instance.
func NewRosterHandler(service service.RosterService, logger zerolog.Logger) *RosterHandler {
	return &RosterHandler{
		service: service,
		logger:  logger.With().Str("component", "roster_handler").Logger(),
	}
}

// Register binds the roster routes under the admin group.
func (h *RosterHandler) Register(router fiber.Router) {
	router.Post("/users", h.createUser)
	router.Get("/users", h.listUsers)
	router.Post("/batches", h.createBatch)
	router.Get("/batches", h.listBatches)
}

func (h *RosterHandler) createUser(c *fiber.Ctx) error {
	var payload dto.UserCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	user, err := h.service.CreateUser(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("user create failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create user")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "user created", user)
}

func (h *RosterHandler) listUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(requestContext(c), c.Query("role"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("user list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load users")
	}

	return utils.SendSuccess(c, "users", users)
}

func (h *RosterHandler) createBatch(c *fiber.Ctx) error {
	var payload dto.BatchCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	batch, err := h.service.CreateBatch(requestContext(c), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTrainerNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "trainer not found")
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("batch create failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create batch")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "batch created", batch)
}

func (h *RosterHandler) listBatches(c *fiber.Ctx) error {
	batches, err := h.service.ListBatches(requestContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("batch list failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load batches")
	}

	return utils.SendSuccess(c, "batches", batches)
}
