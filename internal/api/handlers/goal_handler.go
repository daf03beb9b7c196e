package handlers

import (
	"context"
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

type GoalHandler struct {
	goalService *service.GoalService
	logger      *zap.Logger
}

func NewGoalHandler(goalService *service.GoalService, logger *zap.Logger) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
		logger:      logger,
	}
}

// Create godoc
// @Summary Create a savings goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGoalRequest true "Goal"
// @Success 201 {object} dto.GoalResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	deadline, err := time.Parse(time.RFC3339, req.Deadline)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "deadline must be RFC3339",
		})
	}

	goal, err := h.goalService.Create(c.Context(), userID, service.CreateGoalInput{
		Title:            req.Title,
		Description:      req.Description,
		TargetAmount:     req.TargetAmount,
		Deadline:         deadline,
		ReminderInterval: models.ReminderInterval(req.ReminderInterval),
	})
	if err != nil {
		return h.mapGoalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toGoalResponse(goal))
}

// List godoc
// @Summary List goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.GoalResponse
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	goals, err := h.goalService.List(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list goals", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list goals",
		})
	}

	resp := make([]dto.GoalResponse, 0, len(goals))
	for _, g := range goals {
		resp = append(resp, toGoalResponse(g))
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/goals/{id} [get]
func (h *GoalHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	goal, err := h.goalService.Get(c.Context(), userID, id)
	if err != nil {
		return h.mapGoalError(c, err)
	}
	return c.JSON(toGoalResponse(goal))
}

// AddProgress godoc
// @Summary Add progress toward a goal
// @Description Contribute an amount, optionally withdrawing it from the balance
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Param request body dto.AddProgressRequest true "Contribution"
// @Success 201 {object} dto.GoalTransactionResponse
// @Failure 422 {object} map[string]string
// @Router /api/v1/goals/{id}/progress [post]
func (h *GoalHandler) AddProgress(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	gt, err := h.goalService.AddProgress(c.Context(), userID, id, req.Amount, req.Description, req.WithdrawFromBalance)
	if err != nil {
		return h.mapGoalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toGoalTransactionResponse(gt))
}

// Pause godoc
// @Summary Pause an active goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Router /api/v1/goals/{id}/pause [post]
func (h *GoalHandler) Pause(c *fiber.Ctx) error {
	return h.transition(c, h.goalService.Pause)
}

// Resume godoc
// @Summary Resume a paused goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Router /api/v1/goals/{id}/resume [post]
func (h *GoalHandler) Resume(c *fiber.Ctx) error {
	return h.transition(c, h.goalService.Resume)
}

// Fail godoc
// @Summary Abandon a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {object} dto.GoalResponse
// @Router /api/v1/goals/{id}/fail [post]
func (h *GoalHandler) Fail(c *fiber.Ctx) error {
	return h.transition(c, h.goalService.Fail)
}

// ListTransactions godoc
// @Summary List contributions to a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal ID"
// @Success 200 {array} dto.GoalTransactionResponse
// @Router /api/v1/goals/{id}/transactions [get]
func (h *GoalHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	transactions, err := h.goalService.ListTransactions(c.Context(), userID, id)
	if err != nil {
		return h.mapGoalError(c, err)
	}

	resp := make([]dto.GoalTransactionResponse, 0, len(transactions))
	for _, gt := range transactions {
		resp = append(resp, toGoalTransactionResponse(gt))
	}
	return c.JSON(resp)
}

type goalTransition func(ctx context.Context, userID, goalID uuid.UUID) (*models.Goal, error)

func (h *GoalHandler) transition(c *fiber.Ctx, fn goalTransition) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	goal, err := fn(c.Context(), userID, id)
	if err != nil {
		return h.mapGoalError(c, err)
	}
	return c.JSON(toGoalResponse(goal))
}

func (h *GoalHandler) mapGoalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidTarget),
		errors.Is(err, service.ErrDeadlineInPast),
		errors.Is(err, service.ErrInvalidAmount):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrGoalNotActive),
		errors.Is(err, service.ErrGoalNotPaused),
		errors.Is(err, service.ErrGoalCompleted),
		errors.Is(err, service.ErrGoalOverdue),
		errors.Is(err, service.ErrInsufficientBalance):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	default:
		h.logger.Error("Goal operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Operation failed",
		})
	}
}
