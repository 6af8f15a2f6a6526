package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/models"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetByFilter(ctx context.Context, filter *models.TransactionFilter) ([]models.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, update *models.TransactionUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]string, error)

	// aggregation queries used by the analytics and budget engines
	SumByType(ctx context.Context, txType models.TransactionType, from, to time.Time) (decimal.Decimal, error)
	SumExpensesByCategory(ctx context.Context, from, to time.Time) ([]models.CategorySpend, error)
	SumByMonth(ctx context.Context, from, to time.Time) ([]models.MonthlyFlow, error)
	SumCategoryExpenses(ctx context.Context, category string, from, to time.Time) (decimal.Decimal, error)
	CountInRange(ctx context.Context, from, to time.Time) (int64, error)
}

type transactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

func (r *transactionRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

const transactionColumns = `id, account_id, type, amount, COALESCE(category, ''), merchant, description, tags, date, created_at, updated_at`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Category,
		&t.Merchant, &t.Description, &t.Tags, &t.Date,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// tags is a NOT NULL text[] column; a nil slice must still insert as the
// empty array.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, type, amount, category, merchant, description, tags, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)
	`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		tx.ID, tx.AccountID, tx.Type, tx.Amount, tx.Category,
		tx.Merchant, tx.Description, tagsOrEmpty(tx.Tags), tx.Date,
		tx.CreatedAt, tx.UpdatedAt,
	)
	return err
}

func (r *transactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`
	return scanTransaction(r.db(ctx).QueryRow(ctx, query, id))
}

func (r *transactionRepository) GetByFilter(ctx context.Context, filter *models.TransactionFilter) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions`

	var conditions []string
	var args []interface{}
	argIndex := 1

	if filter.AccountID != nil {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", argIndex))
		args = append(args, *filter.AccountID)
		argIndex++
	}

	if filter.Category != nil {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, *filter.Category)
		argIndex++
	}

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, *filter.Type)
		argIndex++
	}

	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIndex))
		args = append(args, *filter.DateFrom)
		argIndex++
	}

	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", argIndex))
		args = append(args, *filter.DateTo)
		argIndex++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY date DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d", argIndex)
	args = append(args, limit)
	argIndex++

	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIndex)
		args = append(args, filter.Offset)
	}

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(
			&t.ID, &t.AccountID, &t.Type, &t.Amount, &t.Category,
			&t.Merchant, &t.Description, &t.Tags, &t.Date,
			&t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *transactionRepository) Update(ctx context.Context, id uuid.UUID, update *models.TransactionUpdate) error {
	query := `
		UPDATE transactions SET
			amount = COALESCE($2, amount),
			category = CASE WHEN $3::text IS NULL THEN category ELSE NULLIF($3, '') END,
			merchant = COALESCE($4, merchant),
			description = COALESCE($5, description),
			tags = COALESCE($6::text[], tags),
			date = COALESCE($7, date),
			updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db(ctx).Exec(ctx, query,
		id, update.Amount, update.Category, update.Merchant,
		update.Description, update.Tags, update.Date, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *transactionRepository) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM transactions WHERE category IS NOT NULL ORDER BY category`

	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *transactionRepository) SumByType(ctx context.Context, txType models.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = $1 AND date >= $2 AND date <= $3
	`
	var sum decimal.Decimal
	err := r.db(ctx).QueryRow(ctx, query, txType, from, to).Scan(&sum)
	return sum, err
}

func (r *transactionRepository) SumExpensesByCategory(ctx context.Context, from, to time.Time) ([]models.CategorySpend, error) {
	query := `
		SELECT COALESCE(category, ''), SUM(amount)
		FROM transactions
		WHERE type = 'expense' AND date >= $1 AND date <= $2
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`

	rows, err := r.db(ctx).Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var spends []models.CategorySpend
	for rows.Next() {
		var s models.CategorySpend
		if err := rows.Scan(&s.Category, &s.Amount); err != nil {
			return nil, err
		}
		spends = append(spends, s)
	}
	return spends, rows.Err()
}

// SumByMonth buckets by UTC calendar month; labels must not depend on the
// DB session timezone.
func (r *transactionRepository) SumByMonth(ctx context.Context, from, to time.Time) ([]models.MonthlyFlow, error) {
	query := `
		SELECT to_char(date AT TIME ZONE 'UTC', 'YYYY-MM') AS month,
		       COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE date >= $1 AND date <= $2
		GROUP BY month
		ORDER BY month
	`

	rows, err := r.db(ctx).Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flows []models.MonthlyFlow
	for rows.Next() {
		var f models.MonthlyFlow
		if err := rows.Scan(&f.Month, &f.Income, &f.Expenses); err != nil {
			return nil, err
		}
		flows = append(flows, f)
	}
	return flows, rows.Err()
}

func (r *transactionRepository) SumCategoryExpenses(ctx context.Context, category string, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE type = 'expense' AND category = $1 AND date >= $2 AND date <= $3
	`
	var sum decimal.Decimal
	err := r.db(ctx).QueryRow(ctx, query, category, from, to).Scan(&sum)
	return sum, err
}

func (r *transactionRepository) CountInRange(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions WHERE date >= $1 AND date <= $2`,
		from, to,
	).Scan(&count)
	return count, err
}
