package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"ovozpay/internal/dto"
	"ovozpay/internal/models"
)

// currentUserID reads the authenticated user from the JWT middleware.
func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("userID").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token subject")
	}
	return id, nil
}

func parseIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:          u.ID.String(),
		PhoneNumber: u.PhoneNumber,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Language:    string(u.Language),
		Currency:    u.Currency,
	}
}

func toTransactionResponse(t *models.Transaction) dto.TransactionResponse {
	resp := dto.TransactionResponse{
		ID:          t.ID.String(),
		Amount:      t.Amount,
		Type:        string(t.Type),
		Description: t.Description,
		Date:        t.Date.Format(time.RFC3339),
		IsClosed:    t.IsClosed,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.CategoryID != nil {
		resp.CategoryID = t.CategoryID.String()
	}
	if t.Debt != nil {
		debt := &dto.DebtResponse{
			PaidAmount:       t.Debt.PaidAmount,
			RemainingAmount:  t.RemainingAmount(),
			Status:           string(t.Debt.Status),
			CounterpartyName: t.Debt.CounterpartyName,
			Direction:        string(t.Debt.Direction),
			PaymentProgress:  t.PaymentProgress(),
		}
		if t.Debt.DueDate != nil {
			debt.DueDate = t.Debt.DueDate.Format(time.RFC3339)
		}
		resp.Debt = debt
	}
	return resp
}

func toGoalResponse(g *models.Goal) dto.GoalResponse {
	return dto.GoalResponse{
		ID:                 g.ID.String(),
		Title:              g.Title,
		Description:        g.Description,
		TargetAmount:       g.TargetAmount,
		CurrentAmount:      g.CurrentAmount,
		RemainingAmount:    g.RemainingAmount(),
		ProgressPercentage: g.ProgressPercentage(),
		Deadline:           g.Deadline.Format(time.RFC3339),
		Status:             string(g.Status),
		ReminderInterval:   string(g.ReminderInterval),
		CreatedAt:          g.CreatedAt.Format(time.RFC3339),
	}
}

func toGoalTransactionResponse(gt *models.GoalTransaction) dto.GoalTransactionResponse {
	return dto.GoalTransactionResponse{
		ID:          gt.ID.String(),
		GoalID:      gt.GoalID.String(),
		Amount:      gt.Amount,
		Description: gt.Description,
		CreatedAt:   gt.CreatedAt.Format(time.RFC3339),
	}
}

func toReminderResponse(r *models.Reminder) dto.ReminderResponse {
	resp := dto.ReminderResponse{
		ID:            r.ID.String(),
		Title:         r.Title,
		Description:   r.Description,
		Type:          string(r.Type),
		ScheduledTime: r.ScheduledTime.Format(time.RFC3339),
		Repeat:        string(r.Repeat),
		Amount:        r.Amount,
		IsActive:      r.IsActive,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
	}
	if r.GoalID != nil {
		resp.GoalID = r.GoalID.String()
	}
	if r.LastSent != nil {
		resp.LastSent = r.LastSent.Format(time.RFC3339)
	}
	if r.NextReminder != nil {
		resp.NextReminder = r.NextReminder.Format(time.RFC3339)
	}
	return resp
}

func toCategoryResponse(cat *models.Category) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:        cat.ID.String(),
		Name:      cat.Name,
		Type:      string(cat.Type),
		Emoji:     cat.Emoji,
		IsDefault: cat.UserID == nil,
		CreatedAt: cat.CreatedAt.Format(time.RFC3339),
	}
}
