package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/repository"
)

type TransactionService interface {
	Create(ctx context.Context, input *models.TransactionCreate) (*models.Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	GetByFilter(ctx context.Context, filter *models.TransactionFilter) ([]models.Transaction, error)
	Update(ctx context.Context, id uuid.UUID, update *models.TransactionUpdate) (*models.Transaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]string, error)
}

type transactionService struct {
	txManager       repository.TxManager
	transactionRepo repository.TransactionRepository
	accountRepo     repository.AccountRepository
}

func NewTransactionService(txManager repository.TxManager, transactionRepo repository.TransactionRepository, accountRepo repository.AccountRepository) TransactionService {
	return &transactionService{
		txManager:       txManager,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// normalizeCategory trims surrounding whitespace so grouping is
// deterministic. Empty after trimming means uncategorized.
func normalizeCategory(category string) (string, error) {
	category = strings.TrimSpace(category)
	if len(category) > models.MaxCategoryLength {
		return "", models.NewValidationError("category exceeds %d characters", models.MaxCategoryLength)
	}
	return category, nil
}

// balanceDelta is the effect a posted transaction has on its account
// balance. Transfers move money between accounts and leave the tracked
// balance alone.
func balanceDelta(txType models.TransactionType, amount decimal.Decimal) decimal.Decimal {
	switch txType {
	case models.TransactionTypeIncome:
		return amount
	case models.TransactionTypeExpense:
		return amount.Neg()
	default:
		return decimal.Zero
	}
}

func (s *transactionService) Create(ctx context.Context, input *models.TransactionCreate) (*models.Transaction, error) {
	if !input.Type.Valid() {
		return nil, models.NewValidationError("unknown transaction type %q", input.Type)
	}
	if !input.Amount.IsPositive() {
		return nil, models.NewValidationError("amount must be positive")
	}

	category, err := normalizeCategory(input.Category)
	if err != nil {
		return nil, err
	}

	if _, err := s.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		AccountID:   input.AccountID,
		Type:        input.Type,
		Amount:      input.Amount,
		Category:    category,
		Merchant:    input.Merchant,
		Description: input.Description,
		Tags:        input.Tags,
		Date:        input.Date,
	}

	// the ledger row and the balance adjustment commit together
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.Create(ctx, tx); err != nil {
			return err
		}
		delta := balanceDelta(tx.Type, tx.Amount)
		if delta.IsZero() {
			return nil
		}
		return s.accountRepo.AdjustBalance(ctx, tx.AccountID, delta)
	})
	if err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *transactionService) GetByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, id)
}

func (s *transactionService) GetByFilter(ctx context.Context, filter *models.TransactionFilter) ([]models.Transaction, error) {
	return s.transactionRepo.GetByFilter(ctx, filter)
}

func (s *transactionService) Update(ctx context.Context, id uuid.UUID, update *models.TransactionUpdate) (*models.Transaction, error) {
	if update.Amount != nil && !update.Amount.IsPositive() {
		return nil, models.NewValidationError("amount must be positive")
	}
	if update.Category != nil {
		category, err := normalizeCategory(*update.Category)
		if err != nil {
			return nil, err
		}
		update.Category = &category
	}

	if err := s.transactionRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.transactionRepo.GetByID(ctx, id)
}

func (s *transactionService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// reverse the posted balance change along with the delete
	return s.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := s.transactionRepo.Delete(ctx, id); err != nil {
			return err
		}
		delta := balanceDelta(tx.Type, tx.Amount).Neg()
		if delta.IsZero() {
			return nil
		}
		return s.accountRepo.AdjustBalance(ctx, tx.AccountID, delta)
	})
}

func (s *transactionService) ListCategories(ctx context.Context) ([]string, error) {
	return s.transactionRepo.ListCategories(ctx)
}
