package service

import (
	"context"
	"time"

	"ovozpay/internal/dto"
	"ovozpay/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AnalyticsService struct {
	transactions TransactionStore
	balances     BalanceStore
	users        UserStore
	logger       *zap.Logger
}

func NewAnalyticsService(transactions TransactionStore, balances BalanceStore, users UserStore, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		transactions: transactions,
		balances:     balances,
		users:        users,
		logger:       logger,
	}
}

// GetBalance computes the aggregate balance from the ledger and refreshes
// the cached balances row. The ledger is the source of truth; the cache
// only exists so the bot can answer /balance without a full scan elsewhere.
func (s *AnalyticsService) GetBalance(ctx context.Context, userID uuid.UUID) (*dto.BalanceResponse, error) {
	amount, err := s.transactions.SumBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	currency := "UZS"
	if user, err := s.users.GetByID(ctx, userID); err == nil && user.Currency != "" {
		currency = user.Currency
	}

	now := time.Now()
	balance := &models.Balance{
		ID:        uuid.New(),
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		UpdatedAt: now,
	}
	if err := s.balances.Upsert(ctx, balance); err != nil {
		// Cache refresh is best effort.
		s.logger.Warn("Balance cache update failed",
			zap.String("user_id", userID.String()),
			zap.Error(err),
		)
	}

	return &dto.BalanceResponse{
		Amount:    amount,
		Currency:  currency,
		UpdatedAt: now.Format(time.RFC3339),
	}, nil
}

// GetStats aggregates income, expenses and the per-category expense
// breakdown for the given period.
func (s *AnalyticsService) GetStats(ctx context.Context, userID uuid.UUID, from, to time.Time) (*dto.StatsResponse, error) {
	totals, err := s.transactions.PeriodTotals(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	byCategory, err := s.transactions.ExpensesByCategory(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	resp := &dto.StatsResponse{
		PeriodStart:  from.Format(time.RFC3339),
		PeriodEnd:    to.Format(time.RFC3339),
		TotalIncome:  totals.TotalIncome,
		TotalExpense: totals.TotalExpense,
		Net:          totals.TotalIncome - totals.TotalExpense,
		ByCategory:   make([]dto.CategoryTotal, 0, len(byCategory)),
	}
	for _, cs := range byCategory {
		ct := dto.CategoryTotal{
			CategoryName: cs.CategoryName,
			Total:        cs.Total,
		}
		if cs.CategoryID != nil {
			ct.CategoryID = cs.CategoryID.String()
		}
		resp.ByCategory = append(resp.ByCategory, ct)
	}
	return resp, nil
}
