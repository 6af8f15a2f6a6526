package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/clock"
	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/repository"
)

type BudgetService interface {
	Create(ctx context.Context, input *models.BudgetCreate) (*models.Budget, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	GetAll(ctx context.Context) ([]models.Budget, error)
	Update(ctx context.Context, id uuid.UUID, update *models.BudgetUpdate) (*models.Budget, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetService struct {
	budgetRepo      repository.BudgetRepository
	transactionRepo repository.TransactionRepository
	clock           clock.Clock
}

func NewBudgetService(budgetRepo repository.BudgetRepository, transactionRepo repository.TransactionRepository, c clock.Clock) BudgetService {
	return &budgetService{
		budgetRepo:      budgetRepo,
		transactionRepo: transactionRepo,
		clock:           c,
	}
}

func (s *budgetService) Create(ctx context.Context, input *models.BudgetCreate) (*models.Budget, error) {
	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}
	if category == "" {
		return nil, models.NewValidationError("category is required")
	}
	if input.Amount.IsNegative() {
		return nil, models.NewValidationError("amount must not be negative")
	}

	period := input.Period
	if period == "" {
		period = models.BudgetPeriodMonthly
	}
	if !period.Valid() {
		return nil, models.NewValidationError("unknown budget period %q", period)
	}

	existing, err := s.budgetRepo.GetByCategoryAndPeriod(ctx, category, period)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewValidationError("budget for category %q already exists", category)
	}

	budget := &models.Budget{
		Category: category,
		Amount:   input.Amount,
		Period:   period,
	}
	if err := s.budgetRepo.Create(ctx, budget); err != nil {
		return nil, err
	}

	return s.withProgress(ctx, budget)
}

func (s *budgetService) GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withProgress(ctx, budget)
}

func (s *budgetService) GetAll(ctx context.Context) ([]models.Budget, error) {
	budgets, err := s.budgetRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range budgets {
		if _, err := s.withProgress(ctx, &budgets[i]); err != nil {
			return nil, err
		}
	}
	return budgets, nil
}

func (s *budgetService) Update(ctx context.Context, id uuid.UUID, update *models.BudgetUpdate) (*models.Budget, error) {
	if update.Amount != nil && update.Amount.IsNegative() {
		return nil, models.NewValidationError("amount must not be negative")
	}
	if update.Period != nil && !update.Period.Valid() {
		return nil, models.NewValidationError("unknown budget period %q", *update.Period)
	}

	if err := s.budgetRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *budgetService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.budgetRepo.Delete(ctx, id)
}

// withProgress fills the derived spend fields for the budget's current
// period window. remaining may go negative; percentage_used is uncapped and
// zero for a zero-amount budget.
func (s *budgetService) withProgress(ctx context.Context, budget *models.Budget) (*models.Budget, error) {
	from, to := budgetWindow(s.clock, budget.Period)

	spent, err := s.transactionRepo.SumCategoryExpenses(ctx, budget.Category, from, to)
	if err != nil {
		return nil, err
	}

	budget.Spent = spent
	budget.Remaining = budget.Amount.Sub(spent)
	if budget.Amount.IsPositive() {
		budget.PercentageUsed = spent.Div(budget.Amount).Mul(decimal.NewFromInt(100)).Round(2)
	} else {
		budget.PercentageUsed = decimal.Zero
	}

	return budget, nil
}
