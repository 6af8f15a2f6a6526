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

type InvestmentRepository interface {
	Create(ctx context.Context, inv *models.Investment) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	GetAll(ctx context.Context, accountID *uuid.UUID) ([]models.Investment, error)
	Update(ctx context.Context, id uuid.UUID, update *models.InvestmentUpdate) error
	// UpdatePrice persists a refreshed quote. Idempotent: identity + price +
	// timestamp, last write wins.
	UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type investmentRepository struct {
	pool *pgxpool.Pool
}

func NewInvestmentRepository(pool *pgxpool.Pool) InvestmentRepository {
	return &investmentRepository{pool: pool}
}

func (r *investmentRepository) db(ctx context.Context) DBTX {
	return GetTxOrPool(ctx, r.pool)
}

const investmentColumns = `id, account_id, symbol, name, asset_type, exchange, quantity, purchase_price, current_price, currency, purchase_date, price_updated_at, created_at, updated_at`

func scanInvestment(row pgx.Row) (*models.Investment, error) {
	var inv models.Investment
	err := row.Scan(
		&inv.ID, &inv.AccountID, &inv.Symbol, &inv.Name, &inv.AssetType,
		&inv.Exchange, &inv.Quantity, &inv.PurchasePrice, &inv.CurrentPrice,
		&inv.Currency, &inv.PurchaseDate, &inv.PriceUpdatedAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *investmentRepository) Create(ctx context.Context, inv *models.Investment) error {
	query := `
		INSERT INTO investments (id, account_id, symbol, name, asset_type, exchange, quantity, purchase_price, current_price, currency, purchase_date, price_updated_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	now := time.Now()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := r.db(ctx).Exec(ctx, query,
		inv.ID, inv.AccountID, inv.Symbol, inv.Name, inv.AssetType,
		inv.Exchange, inv.Quantity, inv.PurchasePrice, inv.CurrentPrice,
		inv.Currency, inv.PurchaseDate, inv.PriceUpdatedAt,
		inv.CreatedAt, inv.UpdatedAt,
	)
	return err
}

func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`
	return scanInvestment(r.db(ctx).QueryRow(ctx, query, id))
}

func (r *investmentRepository) GetAll(ctx context.Context, accountID *uuid.UUID) ([]models.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments`
	var args []interface{}
	if accountID != nil {
		query += ` WHERE account_id = $1`
		args = append(args, *accountID)
	}
	query += ` ORDER BY symbol`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var investments []models.Investment
	for rows.Next() {
		var inv models.Investment
		err := rows.Scan(
			&inv.ID, &inv.AccountID, &inv.Symbol, &inv.Name, &inv.AssetType,
			&inv.Exchange, &inv.Quantity, &inv.PurchasePrice, &inv.CurrentPrice,
			&inv.Currency, &inv.PurchaseDate, &inv.PriceUpdatedAt,
			&inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		investments = append(investments, inv)
	}
	return investments, rows.Err()
}

func (r *investmentRepository) Update(ctx context.Context, id uuid.UUID, update *models.InvestmentUpdate) error {
	query := `
		UPDATE investments SET
			name = COALESCE($2, name),
			quantity = COALESCE($3, quantity),
			purchase_price = COALESCE($4, purchase_price),
			updated_at = $5
		WHERE id = $1
	`

	tag, err := r.db(ctx).Exec(ctx, query,
		id, update.Name, update.Quantity, update.PurchasePrice, time.Now(),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *investmentRepository) UpdatePrice(ctx context.Context, id uuid.UUID, price decimal.Decimal, at time.Time) error {
	query := `
		UPDATE investments SET
			current_price = $2,
			price_updated_at = $3,
			updated_at = $3
		WHERE id = $1
	`

	tag, err := r.db(ctx).Exec(ctx, query, id, price, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *investmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM investments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
