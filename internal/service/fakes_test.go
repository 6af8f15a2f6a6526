package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/market"
	"github.com/rjoshi/findash/internal/models"
)

// In-memory repository doubles. They mirror the SQL repositories' contracts
// closely enough for the service layer: ErrNotFound on misses, inclusive
// date ranges on the aggregation queries.

type fakeTxManager struct{}

func (fakeTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*models.Account
	order    []uuid.UUID
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*models.Account)}
}

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.IsActive = true
	cp := *account
	r.accounts[account.ID] = &cp
	r.order = append(r.order, account.ID)
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	acc, ok := r.accounts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *fakeAccountRepo) GetAll(_ context.Context) ([]models.Account, error) {
	out := make([]models.Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.accounts[id])
	}
	return out, nil
}

func (r *fakeAccountRepo) Update(_ context.Context, id uuid.UUID, update *models.AccountUpdate) error {
	acc, ok := r.accounts[id]
	if !ok {
		return models.ErrNotFound
	}
	if update.Name != nil {
		acc.Name = *update.Name
	}
	if update.Balance != nil {
		acc.Balance = *update.Balance
	}
	if update.IsActive != nil {
		acc.IsActive = *update.IsActive
	}
	return nil
}

func (r *fakeAccountRepo) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) error {
	acc, ok := r.accounts[id]
	if !ok {
		return models.ErrNotFound
	}
	acc.Balance = acc.Balance.Add(delta)
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.accounts[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeAccountRepo) CountActive(_ context.Context) (int, error) {
	n := 0
	for _, acc := range r.accounts {
		if acc.IsActive {
			n++
		}
	}
	return n, nil
}

type fakeTransactionRepo struct {
	transactions []models.Transaction
}

func inRange(date, from, to time.Time) bool {
	return !date.Before(from) && !date.After(to)
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *models.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	r.transactions = append(r.transactions, *tx)
	return nil
}

func (r *fakeTransactionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			cp := r.transactions[i]
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeTransactionRepo) GetByFilter(_ context.Context, filter *models.TransactionFilter) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range r.transactions {
		if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
			continue
		}
		if filter.Type != nil && tx.Type != *filter.Type {
			continue
		}
		if filter.Category != nil && tx.Category != *filter.Category {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

func (r *fakeTransactionRepo) Update(_ context.Context, id uuid.UUID, update *models.TransactionUpdate) error {
	for i := range r.transactions {
		if r.transactions[i].ID != id {
			continue
		}
		if update.Amount != nil {
			r.transactions[i].Amount = *update.Amount
		}
		if update.Category != nil {
			r.transactions[i].Category = *update.Category
		}
		if update.Merchant != nil {
			r.transactions[i].Merchant = *update.Merchant
		}
		if update.Description != nil {
			r.transactions[i].Description = *update.Description
		}
		if update.Tags != nil {
			r.transactions[i].Tags = update.Tags
		}
		if update.Date != nil {
			r.transactions[i].Date = *update.Date
		}
		return nil
	}
	return models.ErrNotFound
}

func (r *fakeTransactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i := range r.transactions {
		if r.transactions[i].ID == id {
			r.transactions = append(r.transactions[:i], r.transactions[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeTransactionRepo) ListCategories(_ context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, tx := range r.transactions {
		if tx.Category != "" && !seen[tx.Category] {
			seen[tx.Category] = true
			out = append(out, tx.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeTransactionRepo) SumByType(_ context.Context, txType models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.transactions {
		if tx.Type == txType && inRange(tx.Date, from, to) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *fakeTransactionRepo) SumExpensesByCategory(_ context.Context, from, to time.Time) ([]models.CategorySpend, error) {
	sums := map[string]decimal.Decimal{}
	for _, tx := range r.transactions {
		if tx.Type == models.TransactionTypeExpense && inRange(tx.Date, from, to) {
			sums[tx.Category] = sums[tx.Category].Add(tx.Amount)
		}
	}
	out := make([]models.CategorySpend, 0, len(sums))
	for cat, amount := range sums {
		out = append(out, models.CategorySpend{Category: cat, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}

func (r *fakeTransactionRepo) SumByMonth(_ context.Context, from, to time.Time) ([]models.MonthlyFlow, error) {
	byMonth := map[string]*models.MonthlyFlow{}
	for _, tx := range r.transactions {
		if !inRange(tx.Date, from, to) {
			continue
		}
		month := tx.Date.UTC().Format("2006-01")
		f, ok := byMonth[month]
		if !ok {
			f = &models.MonthlyFlow{Month: month}
			byMonth[month] = f
		}
		switch tx.Type {
		case models.TransactionTypeIncome:
			f.Income = f.Income.Add(tx.Amount)
		case models.TransactionTypeExpense:
			f.Expenses = f.Expenses.Add(tx.Amount)
		}
	}
	var out []models.MonthlyFlow
	for _, f := range byMonth {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (r *fakeTransactionRepo) SumCategoryExpenses(_ context.Context, category string, from, to time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.transactions {
		if tx.Type == models.TransactionTypeExpense && tx.Category == category && inRange(tx.Date, from, to) {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *fakeTransactionRepo) CountInRange(_ context.Context, from, to time.Time) (int64, error) {
	var n int64
	for _, tx := range r.transactions {
		if inRange(tx.Date, from, to) {
			n++
		}
	}
	return n, nil
}

type fakeBudgetRepo struct {
	budgets map[uuid.UUID]*models.Budget
}

func newFakeBudgetRepo() *fakeBudgetRepo {
	return &fakeBudgetRepo{budgets: make(map[uuid.UUID]*models.Budget)}
}

func (r *fakeBudgetRepo) Create(_ context.Context, budget *models.Budget) error {
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	cp := *budget
	r.budgets[budget.ID] = &cp
	return nil
}

func (r *fakeBudgetRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Budget, error) {
	b, ok := r.budgets[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBudgetRepo) GetAll(_ context.Context) ([]models.Budget, error) {
	out := make([]models.Budget, 0, len(r.budgets))
	for _, b := range r.budgets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (r *fakeBudgetRepo) GetByCategoryAndPeriod(_ context.Context, category string, period models.BudgetPeriod) (*models.Budget, error) {
	for _, b := range r.budgets {
		if b.Category == category && b.Period == period {
			cp := *b
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeBudgetRepo) Update(_ context.Context, id uuid.UUID, update *models.BudgetUpdate) error {
	b, ok := r.budgets[id]
	if !ok {
		return models.ErrNotFound
	}
	if update.Amount != nil {
		b.Amount = *update.Amount
	}
	if update.Period != nil {
		b.Period = *update.Period
	}
	return nil
}

func (r *fakeBudgetRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.budgets[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.budgets, id)
	return nil
}

type fakeInvestmentRepo struct {
	investments map[uuid.UUID]*models.Investment
	order       []uuid.UUID
}

func newFakeInvestmentRepo() *fakeInvestmentRepo {
	return &fakeInvestmentRepo{investments: make(map[uuid.UUID]*models.Investment)}
}

func (r *fakeInvestmentRepo) Create(_ context.Context, inv *models.Investment) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	cp := *inv
	r.investments[inv.ID] = &cp
	r.order = append(r.order, inv.ID)
	return nil
}

func (r *fakeInvestmentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Investment, error) {
	inv, ok := r.investments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvestmentRepo) GetAll(_ context.Context, accountID *uuid.UUID) ([]models.Investment, error) {
	var out []models.Investment
	for _, id := range r.order {
		inv := r.investments[id]
		if accountID != nil && inv.AccountID != *accountID {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (r *fakeInvestmentRepo) Update(_ context.Context, id uuid.UUID, update *models.InvestmentUpdate) error {
	inv, ok := r.investments[id]
	if !ok {
		return models.ErrNotFound
	}
	if update.Name != nil {
		inv.Name = *update.Name
	}
	if update.Quantity != nil {
		inv.Quantity = *update.Quantity
	}
	if update.PurchasePrice != nil {
		inv.PurchasePrice = *update.PurchasePrice
	}
	return nil
}

func (r *fakeInvestmentRepo) UpdatePrice(_ context.Context, id uuid.UUID, price decimal.Decimal, at time.Time) error {
	inv, ok := r.investments[id]
	if !ok {
		return models.ErrNotFound
	}
	inv.CurrentPrice = &price
	inv.PriceUpdatedAt = &at
	return nil
}

func (r *fakeInvestmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.investments[id]; !ok {
		return models.ErrNotFound
	}
	delete(r.investments, id)
	return nil
}

// fakeQuoteProvider serves quotes out of a symbol map and fails every
// other lookup with ErrQuoteUnavailable.
type fakeQuoteProvider struct {
	prices  map[string]decimal.Decimal
	matches []market.SymbolMatch
	calls   int
}

func (p *fakeQuoteProvider) Name() string { return "fake" }

func (p *fakeQuoteProvider) GetQuote(_ context.Context, symbol string, exchange models.Exchange) (*market.Quote, error) {
	p.calls++
	query := market.QuerySymbol(symbol, exchange)
	price, ok := p.prices[query]
	if !ok {
		return nil, fmt.Errorf("no quote for %s: %w", query, models.ErrQuoteUnavailable)
	}
	return &market.Quote{Symbol: query, Price: price, Currency: "USD", AsOf: time.Now()}, nil
}

func (p *fakeQuoteProvider) SearchSymbols(_ context.Context, query string) ([]market.SymbolMatch, error) {
	var out []market.SymbolMatch
	for _, m := range p.matches {
		if strings.Contains(strings.ToUpper(m.Symbol), strings.ToUpper(query)) {
			out = append(out, m)
		}
	}
	return out, nil
}
