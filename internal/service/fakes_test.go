package service

import (
	"context"
	"sync"
	"time"

	"ovozpay/internal/models"
	"ovozpay/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// In-memory fakes backing the service tests.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.PhoneNumber == phone {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByTelegramChatID(ctx context.Context, chatID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.TelegramChatID != nil && *u.TelegramChatID == chatID {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserStore) Update(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.users[user.ID] = user
	return nil
}

type fakeTransactionStore struct {
	mu           sync.Mutex
	transactions map[uuid.UUID]*models.Transaction
	createErr    error
}

func newFakeTransactionStore() *fakeTransactionStore {
	return &fakeTransactionStore{transactions: make(map[uuid.UUID]*models.Transaction)}
}

func (f *fakeTransactionStore) Create(ctx context.Context, t *models.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeTransactionStore) CreatePair(ctx context.Context, out, in *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transactions[out.ID] = out
	f.transactions[in.ID] = in
	return nil
}

func (f *fakeTransactionStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeTransactionStore) List(ctx context.Context, userID uuid.UUID, txType models.TransactionType, limit, offset int) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Transaction
	for _, t := range f.transactions {
		if t.UserID != userID {
			continue
		}
		if txType != "" && t.Type != txType {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeTransactionStore) UpdateDebt(ctx context.Context, t *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.transactions[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.transactions[t.ID] = t
	return nil
}

func (f *fakeTransactionStore) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.transactions {
		if t.IsOverdue(now) && t.Debt.Status != models.DebtStatusOverdue {
			t.Debt.Status = models.DebtStatusOverdue
			n++
		}
	}
	return n, nil
}

func (f *fakeTransactionStore) SumBalance(ctx context.Context, userID uuid.UUID) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum float64
	for _, t := range f.transactions {
		if t.UserID == userID {
			sum += t.BalanceImpact()
		}
	}
	return sum, nil
}

func (f *fakeTransactionStore) PeriodTotals(ctx context.Context, userID uuid.UUID, from, to time.Time) (*repository.PeriodTotals, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	totals := &repository.PeriodTotals{}
	for _, t := range f.transactions {
		if t.UserID != userID || t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		switch t.Type {
		case models.TransactionTypeIncome:
			totals.TotalIncome += t.Amount
		case models.TransactionTypeExpense:
			totals.TotalExpense += t.Amount
		}
	}
	return totals, nil
}

func (f *fakeTransactionStore) ExpensesByCategory(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]repository.CategorySum, error) {
	return nil, nil
}

func (f *fakeTransactionStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.transactions[id]
	if !ok || t.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.transactions, id)
	return nil
}

type fakeGoalStore struct {
	mu           sync.Mutex
	goals        map[uuid.UUID]*models.Goal
	contribs     map[uuid.UUID][]*models.GoalTransaction
	withdrawals  []*models.Transaction
	saveProgErr  error
	saveProgCall int
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{
		goals:    make(map[uuid.UUID]*models.Goal),
		contribs: make(map[uuid.UUID][]*models.GoalTransaction),
	}
}

func (f *fakeGoalStore) Create(ctx context.Context, goal *models.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.goals[goal.ID] = goal
	return nil
}

func (f *fakeGoalStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.goals[id]
	if !ok || g.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGoalStore) List(ctx context.Context, userID uuid.UUID) ([]*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Goal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) ListActive(ctx context.Context) ([]*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Goal
	for _, g := range f.goals {
		if g.Status == models.GoalStatusActive && g.ReminderInterval != models.ReminderIntervalNever {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeGoalStore) Update(ctx context.Context, goal *models.Goal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.goals[goal.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.goals[goal.ID] = goal
	return nil
}

func (f *fakeGoalStore) SaveProgress(ctx context.Context, goal *models.Goal, gt *models.GoalTransaction, withdrawal *models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveProgCall++
	if f.saveProgErr != nil {
		return f.saveProgErr
	}
	f.goals[goal.ID] = goal
	f.contribs[goal.ID] = append(f.contribs[goal.ID], gt)
	if withdrawal != nil {
		f.withdrawals = append(f.withdrawals, withdrawal)
	}
	return nil
}

func (f *fakeGoalStore) ListTransactions(ctx context.Context, goalID uuid.UUID) ([]*models.GoalTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.contribs[goalID], nil
}

type fakeReminderStore struct {
	mu        sync.Mutex
	reminders map[uuid.UUID]*models.Reminder
}

func newFakeReminderStore() *fakeReminderStore {
	return &fakeReminderStore{reminders: make(map[uuid.UUID]*models.Reminder)}
}

func (f *fakeReminderStore) Create(ctx context.Context, reminder *models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[reminder.ID] = reminder
	return nil
}

func (f *fakeReminderStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID {
		return nil, pgx.ErrNoRows
	}
	return r, nil
}

func (f *fakeReminderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) ListDue(ctx context.Context, now time.Time) ([]*models.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Reminder
	for _, r := range f.reminders {
		if r.IsDue(now) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderStore) Update(ctx context.Context, reminder *models.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.reminders[reminder.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.reminders[reminder.ID] = reminder
	return nil
}

func (f *fakeReminderStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok || r.UserID != userID {
		return pgx.ErrNoRows
	}
	delete(f.reminders, id)
	return nil
}

type fakeBalanceStore struct {
	mu        sync.Mutex
	balances  map[uuid.UUID]*models.Balance
	upsertErr error
}

func newFakeBalanceStore() *fakeBalanceStore {
	return &fakeBalanceStore{balances: make(map[uuid.UUID]*models.Balance)}
}

func (f *fakeBalanceStore) Get(ctx context.Context, userID uuid.UUID) (*models.Balance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.balances[userID]; ok {
		return b, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeBalanceStore) Upsert(ctx context.Context, b *models.Balance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.balances[b.UserID] = b
	return nil
}

type fakeSourceStore struct {
	mu      sync.Mutex
	sources map[string]*models.Source
}

func newFakeSourceStore() *fakeSourceStore {
	return &fakeSourceStore{sources: make(map[string]*models.Source)}
}

func (f *fakeSourceStore) Create(ctx context.Context, source *models.Source) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources[source.Name] = source
	return nil
}

func (f *fakeSourceStore) GetByName(ctx context.Context, name string) (*models.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.sources[name]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSourceStore) List(ctx context.Context) ([]*models.Source, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Source
	for _, s := range f.sources {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeSourceStore) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, s := range f.sources {
		if s.ID == id {
			delete(f.sources, name)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeSourceStore) CountUsers(ctx context.Context, id uuid.UUID) (int64, error) {
	return 0, nil
}

// fakeNotifier records sent messages and can be told to fail the first N
// deliveries.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	chatIDs  []int64
	failN    int
	attempts int
}

func (f *fakeNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failN {
		return context.DeadlineExceeded
	}
	f.messages = append(f.messages, text)
	f.chatIDs = append(f.chatIDs, chatID)
	return nil
}

func newTestUser(store *fakeUserStore, chatID int64) *models.User {
	user := &models.User{
		ID:             uuid.New(),
		PhoneNumber:    "+998901234567",
		Language:       models.LanguageRussian,
		Currency:       "UZS",
		IsActive:       true,
		TelegramChatID: &chatID,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	store.users[user.ID] = user
	return user
}
