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

type TransactionHandler struct {
	transactionService *service.TransactionService
	debtService        *service.DebtService
	logger             *zap.Logger
}

func NewTransactionHandler(transactionService *service.TransactionService, debtService *service.DebtService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		debtService:        debtService,
		logger:             logger,
	}
}

// Create godoc
// @Summary Create a transaction
// @Description Record an income, expense, debt or transfer
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	in, err := buildTransactionInput(&req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var t *models.Transaction
	switch models.TransactionType(req.Type) {
	case models.TransactionTypeIncome:
		t, err = h.transactionService.CreateIncome(c.Context(), userID, *in)
	case models.TransactionTypeExpense:
		t, err = h.transactionService.CreateExpense(c.Context(), userID, *in, true)
	case models.TransactionTypeTransfer:
		t, err = h.transactionService.CreateTransfer(c.Context(), userID, *in, true)
	case models.TransactionTypeDebt:
		t, err = h.transactionService.CreateDebt(c.Context(), userID, *in)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown transaction type",
		})
	}
	if err != nil {
		return h.mapTransactionError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(t))
}

// List godoc
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param type query string false "Filter by type"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} dto.TransactionResponse
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var q dto.ListTransactionsQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid query parameters",
		})
	}

	transactions, err := h.transactionService.List(c.Context(), userID, models.TransactionType(q.Type), q.Limit, q.Offset)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list transactions",
		})
	}

	resp := make([]dto.TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		resp = append(resp, toTransactionResponse(t))
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	t, err := h.transactionService.Get(c.Context(), userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Transaction not found",
			})
		}
		h.logger.Error("Failed to load transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load transaction",
		})
	}

	return c.JSON(toTransactionResponse(t))
}

// Delete godoc
// @Summary Delete a transaction
// @Tags transactions
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.transactionService.Delete(c.Context(), userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Transaction not found",
			})
		}
		h.logger.Error("Failed to delete transaction", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete transaction",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// AddPayment godoc
// @Summary Record a partial payment on a debt
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt transaction ID"
// @Param request body dto.AddPaymentRequest true "Payment"
// @Success 200 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string
// @Router /api/v1/transactions/{id}/payments [post]
func (h *TransactionHandler) AddPayment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	t, err := h.debtService.AddPayment(c.Context(), userID, id, req.Amount)
	if err != nil {
		return h.mapTransactionError(c, err)
	}

	return c.JSON(toTransactionResponse(t))
}

// CloseDebt godoc
// @Summary Close a debt
// @Description Close a fully paid debt, or write off the remainder with force
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Debt transaction ID"
// @Param request body dto.CloseDebtRequest false "Close options"
// @Success 200 {object} dto.TransactionResponse
// @Failure 422 {object} map[string]string
// @Router /api/v1/transactions/{id}/close [post]
func (h *TransactionHandler) CloseDebt(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.CloseDebtRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	t, err := h.debtService.CloseDebt(c.Context(), userID, id, req.Force)
	if err != nil {
		return h.mapTransactionError(c, err)
	}

	return c.JSON(toTransactionResponse(t))
}

func buildTransactionInput(req *dto.CreateTransactionRequest) (*service.CreateTransactionInput, error) {
	in := &service.CreateTransactionInput{
		Amount:           req.Amount,
		Description:      req.Description,
		Date:             time.Now(),
		CounterpartyName: req.CounterpartyName,
		Direction:        models.DebtDirection(req.Direction),
	}

	if req.Date != "" {
		date, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			return nil, errors.New("date must be RFC3339")
		}
		in.Date = date
	}
	if req.CategoryID != "" {
		id, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return nil, errors.New("invalid category_id")
		}
		in.CategoryID = &id
	}
	if req.RelatedUserID != "" {
		id, err := uuid.Parse(req.RelatedUserID)
		if err != nil {
			return nil, errors.New("invalid related_user_id")
		}
		in.RelatedUserID = &id
	}
	if req.DueDate != "" {
		due, err := time.Parse(time.RFC3339, req.DueDate)
		if err != nil {
			return nil, errors.New("due_date must be RFC3339")
		}
		in.DueDate = &due
	}
	return in, nil
}

func (h *TransactionHandler) mapTransactionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrSelfTransfer),
		errors.Is(err, service.ErrTransferTarget),
		errors.Is(err, service.ErrNotDebt):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrDebtClosed),
		errors.Is(err, service.ErrOverpayment),
		errors.Is(err, service.ErrDebtNotFully):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	case errors.Is(err, pgx.ErrNoRows):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Transaction not found",
		})
	default:
		h.logger.Error("Transaction operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Operation failed",
		})
	}
}
