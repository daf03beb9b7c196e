package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"ovozpay/internal/dto"
	"ovozpay/internal/models"
	"ovozpay/internal/service"
)

type ReminderHandler struct {
	reminderService *service.ReminderService
	logger          *zap.Logger
}

func NewReminderHandler(reminderService *service.ReminderService, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminderService: reminderService,
		logger:          logger,
	}
}

// Create godoc
// @Summary Create a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReminderRequest true "Reminder"
// @Success 201 {object} dto.ReminderResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/reminders [post]
func (h *ReminderHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	scheduled, err := time.Parse(time.RFC3339, req.ScheduledTime)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "scheduled_time must be RFC3339",
		})
	}

	in := service.CreateReminderInput{
		Title:         req.Title,
		Description:   req.Description,
		Type:          models.ReminderType(req.Type),
		ScheduledTime: scheduled,
		Repeat:        models.ReminderRepeat(req.Repeat),
		Amount:        req.Amount,
	}
	if req.GoalID != "" {
		goalID, err := uuid.Parse(req.GoalID)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid goal_id",
			})
		}
		in.GoalID = &goalID
	}

	reminder, err := h.reminderService.Create(c.Context(), userID, in)
	if err != nil {
		return h.mapReminderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toReminderResponse(reminder))
}

// List godoc
// @Summary List reminders
// @Tags reminders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.ReminderResponse
// @Router /api/v1/reminders [get]
func (h *ReminderHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	reminders, err := h.reminderService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list reminders", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list reminders",
		})
	}

	resp := make([]dto.ReminderResponse, 0, len(reminders))
	for _, r := range reminders {
		resp = append(resp, toReminderResponse(r))
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary Update a reminder
// @Tags reminders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Param request body dto.UpdateReminderRequest true "Fields to update"
// @Success 200 {object} dto.ReminderResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/reminders/{id} [put]
func (h *ReminderHandler) Update(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateReminderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	in := service.UpdateReminderInput{
		Title:       req.Title,
		Description: req.Description,
		Amount:      req.Amount,
		IsActive:    req.IsActive,
	}
	if req.ScheduledTime != nil {
		scheduled, err := time.Parse(time.RFC3339, *req.ScheduledTime)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "scheduled_time must be RFC3339",
			})
		}
		in.ScheduledTime = &scheduled
	}
	if req.Repeat != nil {
		repeat := models.ReminderRepeat(*req.Repeat)
		in.Repeat = &repeat
	}

	reminder, err := h.reminderService.Update(c.Context(), userID, id, in)
	if err != nil {
		return h.mapReminderError(c, err)
	}
	return c.JSON(toReminderResponse(reminder))
}

// Delete godoc
// @Summary Delete a reminder
// @Tags reminders
// @Security BearerAuth
// @Param id path string true "Reminder ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/reminders/{id} [delete]
func (h *ReminderHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.reminderService.Delete(c.Context(), userID, id); err != nil {
		return h.mapReminderError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReminderHandler) mapReminderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrScheduleInPast),
		errors.Is(err, service.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reminder not found",
		})
	default:
		h.logger.Error("Reminder operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Operation failed",
		})
	}
}
