package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rjoshi/findash/internal/models"
)

type BudgetRepository interface {
	Create(ctx context.Context, budget *models.Budget) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error)
	GetAll(ctx context.Context) ([]models.Budget, error)
	GetByCategoryAndPeriod(ctx context.Context, category string, period models.BudgetPeriod) (*models.Budget, error)
	Update(ctx context.Context, id uuid.UUID, update *models.BudgetUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type budgetRepository struct {
	pool *pgxpool.Pool
}

func NewBudgetRepository(pool *pgxpool.Pool) BudgetRepository {
	return &budgetRepository{pool: pool}
}

func (r *budgetRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

const budgetColumns = `id, category, amount, period, created_at, updated_at`

func scanBudget(row pgx.Row) (*models.Budget, error) {
	var b models.Budget
	err := row.Scan(&b.ID, &b.Category, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *budgetRepository) Create(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (id, category, amount, period, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	now := time.Now()
	budget.CreatedAt = now
	budget.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		budget.ID, budget.Category, budget.Amount, budget.Period,
		budget.CreatedAt, budget.UpdatedAt,
	)
	return err
}

func (r *budgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE id = $1`
	return scanBudget(r.db(ctx).QueryRow(ctx, query, id))
}

func (r *budgetRepository) GetAll(ctx context.Context) ([]models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets ORDER BY category`

	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount, &b.Period, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *budgetRepository) GetByCategoryAndPeriod(ctx context.Context, category string, period models.BudgetPeriod) (*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE category = $1 AND period = $2`
	return scanBudget(r.db(ctx).QueryRow(ctx, query, category, period))
}

func (r *budgetRepository) Update(ctx context.Context, id uuid.UUID, update *models.BudgetUpdate) error {
	query := `
		UPDATE budgets SET
			amount = COALESCE($2, amount),
			period = COALESCE($3, period),
			updated_at = $4
		WHERE id = $1
	`

	tag, err := r.db(ctx).Exec(ctx, query, id, update.Amount, update.Period, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM budgets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
