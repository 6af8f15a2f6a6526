package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/repository"
)

type AccountService interface {
	Create(ctx context.Context, input *models.AccountCreate) (*models.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error)
	GetAll(ctx context.Context) ([]models.Account, error)
	Update(ctx context.Context, id uuid.UUID, update *models.AccountUpdate) (*models.Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type accountService struct {
	accountRepo     repository.AccountRepository
	defaultCurrency string
}

func NewAccountService(accountRepo repository.AccountRepository, defaultCurrency string) AccountService {
	return &accountService{
		accountRepo:     accountRepo,
		defaultCurrency: defaultCurrency,
	}
}

func (s *accountService) Create(ctx context.Context, input *models.AccountCreate) (*models.Account, error) {
	if !input.Type.Valid() {
		return nil, models.NewValidationError("unknown account type %q", input.Type)
	}

	account := &models.Account{
		Name:          input.Name,
		Type:          input.Type,
		Balance:       input.Balance,
		Currency:      input.Currency,
		Institution:   input.Institution,
		AccountNumber: input.AccountNumber,
		Notes:         input.Notes,
	}
	if account.Currency == "" {
		account.Currency = s.defaultCurrency
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetByID(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.accountRepo.GetByID(ctx, id)
}

func (s *accountService) GetAll(ctx context.Context) ([]models.Account, error) {
	return s.accountRepo.GetAll(ctx)
}

func (s *accountService) Update(ctx context.Context, id uuid.UUID, update *models.AccountUpdate) (*models.Account, error) {
	if err := s.accountRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.accountRepo.GetByID(ctx, id)
}

func (s *accountService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.accountRepo.Delete(ctx, id)
}
