package ledger

import (
	"context"
	"sort"
	"sync"

	"finanzas/internal/core"
)

// MemoryStore is a mutex-protected in-memory Store. It is the default
// backend and backs the service and handler tests.
type MemoryStore struct {
	mu sync.Mutex

	debts        map[int64]core.Debt
	goals        map[int64]core.Goal
	budgets      map[int64]core.Budget
	transactions map[int64]core.Transaction
	reminders    map[int64]core.Reminder

	nextID int64
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		debts:        make(map[int64]core.Debt),
		goals:        make(map[int64]core.Goal),
		budgets:      make(map[int64]core.Budget),
		transactions: make(map[int64]core.Transaction),
		reminders:    make(map[int64]core.Reminder),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) ListDebts(_ context.Context) ([]core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Debt, 0, len(s.debts))
	for _, d := range s.debts {
		out = append(out, cloneDebt(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetDebt(_ context.Context, id int64) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[id]
	if !ok {
		return core.Debt{}, core.ErrNotFound
	}
	return cloneDebt(d), nil
}

func (s *MemoryStore) CreateDebt(_ context.Context, d core.Debt) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.allocID()
	s.debts[d.ID] = cloneDebt(d)
	return d, nil
}

func (s *MemoryStore) UpdateDebt(_ context.Context, d core.Debt) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debts[d.ID]; !ok {
		return core.Debt{}, core.ErrNotFound
	}
	s.debts[d.ID] = cloneDebt(d)
	return d, nil
}

func (s *MemoryStore) DeleteDebt(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.debts[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.debts, id)
	return nil
}

func (s *MemoryStore) ApplyPayment(_ context.Context, id int64, p core.Payment) (core.Debt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.debts[id]
	if !ok {
		return core.Debt{}, core.ErrNotFound
	}
	if err := p.Validate(); err != nil {
		return core.Debt{}, err
	}

	p.ID = s.allocID()
	p.DebtID = id
	d.CurrentBalance = d.CurrentBalance.Sub(p.Amount)
	if d.CurrentBalance.Cents < 0 {
		d.CurrentBalance = core.Money{}
	}
	d.PaymentHistory = append(d.PaymentHistory, p)
	s.debts[id] = cloneDebt(d)
	return cloneDebt(d), nil
}

func (s *MemoryStore) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetGoal(_ context.Context, id int64) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.Goal{}, core.ErrNotFound
	}
	return g, nil
}

func (s *MemoryStore) CreateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.allocID()
	s.goals[g.ID] = g
	return g, nil
}

func (s *MemoryStore) UpdateGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[g.ID]; !ok {
		return core.Goal{}, core.ErrNotFound
	}
	s.goals[g.ID] = g
	return g, nil
}

func (s *MemoryStore) DeleteGoal(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.goals, id)
	return nil
}

func (s *MemoryStore) AddFunds(_ context.Context, id int64, amount core.Money) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.Goal{}, core.ErrNotFound
	}
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	s.goals[id] = g
	return g, nil
}

func (s *MemoryStore) WithdrawFunds(_ context.Context, id int64, amount core.Money) (core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.Goal{}, core.ErrNotFound
	}
	if err := amount.Validate(); err != nil {
		return core.Goal{}, err
	}
	if amount.Cents > g.CurrentAmount.Cents {
		return core.Goal{}, core.ErrInsufficientFunds
	}
	g.CurrentAmount = g.CurrentAmount.Sub(amount)
	s.goals[id] = g
	return g, nil
}

func (s *MemoryStore) ListBudgets(_ context.Context, month string) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Budget, 0, len(s.budgets))
	for _, b := range s.budgets {
		if month != "" && b.Month != month {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetBudget(_ context.Context, id int64) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.budgets[id]
	if !ok {
		return core.Budget{}, core.ErrNotFound
	}
	return b, nil
}

func (s *MemoryStore) CreateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.budgets {
		if existing.Category == b.Category && existing.Month == b.Month {
			return core.Budget{}, core.ErrDuplicateBudget
		}
	}
	b.ID = s.allocID()
	s.budgets[b.ID] = b
	return b, nil
}

func (s *MemoryStore) UpdateBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[b.ID]; !ok {
		return core.Budget{}, core.ErrNotFound
	}
	for _, existing := range s.budgets {
		if existing.ID != b.ID && existing.Category == b.Category && existing.Month == b.Month {
			return core.Budget{}, core.ErrDuplicateBudget
		}
	}
	s.budgets[b.ID] = b
	return b, nil
}

func (s *MemoryStore) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.budgets[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.budgets, id)
	return nil
}

func (s *MemoryStore) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	s.transactions[t.ID] = t
	return t, nil
}

func (s *MemoryStore) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *MemoryStore) ListReminders(_ context.Context) ([]core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetReminder(_ context.Context, id int64) (core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return core.Reminder{}, core.ErrNotFound
	}
	return r, nil
}

func (s *MemoryStore) CreateReminder(_ context.Context, r core.Reminder) (core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.allocID()
	s.reminders[r.ID] = r
	return r, nil
}

func (s *MemoryStore) UpdateReminder(_ context.Context, r core.Reminder) (core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[r.ID]; !ok {
		return core.Reminder{}, core.ErrNotFound
	}
	s.reminders[r.ID] = r
	return r, nil
}

func (s *MemoryStore) DeleteReminder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.reminders, id)
	return nil
}

func (s *MemoryStore) FindDebtReminder(_ context.Context, debtID int64) (core.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reminders {
		if r.DebtID == debtID {
			return r, nil
		}
	}
	return core.Reminder{}, core.ErrNotFound
}

// cloneDebt copies the payment history slice so callers never share it
// with the store.
func cloneDebt(d core.Debt) core.Debt {
	if len(d.PaymentHistory) > 0 {
		history := make([]core.Payment, len(d.PaymentHistory))
		copy(history, d.PaymentHistory)
		d.PaymentHistory = history
	}
	return d
}
