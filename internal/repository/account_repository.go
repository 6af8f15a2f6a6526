package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/models"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAll(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, id uuid.UUID, update *models.AccountUpdate) error
	AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountActive(ctx context.Context) (int, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

func (r *accountRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

const accountColumns = `id, name, type, balance, currency, institution, account_number, notes, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (*models.Account, error) {
	var a models.Account
	err := row.Scan(
		&a.ID, &a.Name, &a.Type, &a.Balance, &a.Currency,
		&a.Institution, &a.AccountNumber, &a.Notes, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (id, name, type, balance, currency, institution, account_number, notes, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	account.IsActive = true

	_, err := r.db(ctx).Exec(ctx, query,
		account.ID, account.Name, account.Type, account.Balance,
		account.Currency, account.Institution, account.AccountNumber,
		account.Notes, account.IsActive, account.CreatedAt, account.UpdatedAt,
	)
	return err
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db(ctx).QueryRow(ctx, query, id))
}

func (r *accountRepository) GetAll(ctx context.Context) ([]models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`

	rows, err := r.db(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		err := rows.Scan(
			&a.ID, &a.Name, &a.Type, &a.Balance, &a.Currency,
			&a.Institution, &a.AccountNumber, &a.Notes, &a.IsActive,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepository) Update(ctx context.Context, id uuid.UUID, update *models.AccountUpdate) error {
	query := `
		UPDATE accounts SET
			name = COALESCE($2, name),
			balance = COALESCE($3, balance),
			institution = COALESCE($4, institution),
			account_number = COALESCE($5, account_number),
			notes = COALESCE($6, notes),
			is_active = COALESCE($7, is_active),
			updated_at = $8
		WHERE id = $1
	`

	tag, err := r.db(ctx).Exec(ctx, query,
		id, update.Name, update.Balance, update.Institution,
		update.AccountNumber, update.Notes, update.IsActive, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *accountRepository) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) error {
	query := `
		UPDATE accounts SET
			balance = balance + $2,
			updated_at = $3
		WHERE id = $1
	`

	tag, err := r.db(ctx).Exec(ctx, query, id, delta, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *accountRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM accounts WHERE is_active`).Scan(&count)
	return count, err
}
