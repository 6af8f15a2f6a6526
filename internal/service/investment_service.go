package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/clock"
	"github.com/rjoshi/findash/internal/market"
	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/repository"
)

// InvestmentService is the valuation engine: holding CRUD plus the derived
// valuation view, explicit price refresh and the portfolio summary.
type InvestmentService interface {
	Create(ctx context.Context, input *models.InvestmentCreate) (*models.Investment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	GetAll(ctx context.Context, accountID *uuid.UUID) ([]models.Investment, error)
	Update(ctx context.Context, id uuid.UUID, update *models.InvestmentUpdate) (*models.Investment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RefreshPrice(ctx context.Context, id uuid.UUID) (*models.Investment, error)
	PortfolioSummary(ctx context.Context, accountID *uuid.UUID) (*models.PortfolioSummary, error)
	SearchSymbols(ctx context.Context, query string) ([]market.SymbolMatch, error)
}

type investmentService struct {
	investmentRepo  repository.InvestmentRepository
	accountRepo     repository.AccountRepository
	quotes          market.QuoteProvider
	clock           clock.Clock
	defaultCurrency string
	log             zerolog.Logger
}

func NewInvestmentService(
	investmentRepo repository.InvestmentRepository,
	accountRepo repository.AccountRepository,
	quotes market.QuoteProvider,
	c clock.Clock,
	defaultCurrency string,
	log zerolog.Logger,
) InvestmentService {
	return &investmentService{
		investmentRepo:  investmentRepo,
		accountRepo:     accountRepo,
		quotes:          quotes,
		clock:           c,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

var oneHundred = decimal.NewFromInt(100)

// valuate fills the derived valuation fields. current_price falls back to
// the purchase price until the first successful refresh; a zero cost basis
// yields a zero percentage rather than a division.
func valuate(inv *models.Investment) {
	price := inv.PurchasePrice
	if inv.CurrentPrice != nil {
		price = *inv.CurrentPrice
	}

	inv.Price = price
	inv.CostBasis = inv.Quantity.Mul(inv.PurchasePrice)
	inv.CurrentValue = inv.Quantity.Mul(price)
	inv.GainLoss = inv.CurrentValue.Sub(inv.CostBasis)
	if inv.CostBasis.IsPositive() {
		inv.GainLossPercentage = inv.GainLoss.Div(inv.CostBasis).Mul(oneHundred).Round(2)
	} else {
		inv.GainLossPercentage = decimal.Zero
	}
}

func (s *investmentService) Create(ctx context.Context, input *models.InvestmentCreate) (*models.Investment, error) {
	if !input.AssetType.Valid() {
		return nil, models.NewValidationError("unknown asset type %q", input.AssetType)
	}
	exchange := input.Exchange
	if exchange == "" {
		exchange = models.ExchangeUS
	}
	if !exchange.Valid() {
		return nil, models.NewValidationError("unknown exchange %q", exchange)
	}
	if input.Quantity.IsNegative() {
		return nil, models.NewValidationError("quantity must not be negative")
	}
	if input.PurchasePrice.IsNegative() {
		return nil, models.NewValidationError("purchase price must not be negative")
	}

	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return nil, models.NewValidationError("symbol is required")
	}

	if _, err := s.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	inv := &models.Investment{
		AccountID:     input.AccountID,
		Symbol:        symbol,
		Name:          input.Name,
		AssetType:     input.AssetType,
		Exchange:      exchange,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		Currency:      input.Currency,
		PurchaseDate:  input.PurchaseDate,
	}
	if inv.Currency == "" {
		inv.Currency = s.defaultCurrency
	}
	if inv.Name == "" {
		inv.Name = symbol
	}

	// best-effort initial quote; the holding is created either way
	if quote, err := s.quotes.GetQuote(ctx, symbol, exchange); err == nil {
		inv.CurrentPrice = &quote.Price
		now := s.clock.Now()
		inv.PriceUpdatedAt = &now
	} else {
		s.log.Debug().Err(err).Str("symbol", symbol).Msg("initial quote skipped")
	}

	if err := s.investmentRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	valuate(inv)
	return inv, nil
}

func (s *investmentService) GetByID(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	inv, err := s.investmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	valuate(inv)
	return inv, nil
}

func (s *investmentService) GetAll(ctx context.Context, accountID *uuid.UUID) ([]models.Investment, error) {
	investments, err := s.investmentRepo.GetAll(ctx, accountID)
	if err != nil {
		return nil, err
	}
	for i := range investments {
		valuate(&investments[i])
	}
	return investments, nil
}

func (s *investmentService) Update(ctx context.Context, id uuid.UUID, update *models.InvestmentUpdate) (*models.Investment, error) {
	if update.Quantity != nil && update.Quantity.IsNegative() {
		return nil, models.NewValidationError("quantity must not be negative")
	}
	if update.PurchasePrice != nil && update.PurchasePrice.IsNegative() {
		return nil, models.NewValidationError("purchase price must not be negative")
	}

	if err := s.investmentRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *investmentService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.investmentRepo.Delete(ctx, id)
}

// RefreshPrice queries the oracle and persists the new cached price. On any
// oracle failure the stored price stays untouched and the error is returned
// for the caller to surface; nothing else is affected.
func (s *investmentService) RefreshPrice(ctx context.Context, id uuid.UUID) (*models.Investment, error) {
	inv, err := s.investmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quote, err := s.quotes.GetQuote(ctx, inv.Symbol, inv.Exchange)
	if err != nil {
		s.log.Warn().Err(err).Str("symbol", inv.Symbol).Msg("price refresh failed")
		return nil, err
	}

	now := s.clock.Now()
	if err := s.investmentRepo.UpdatePrice(ctx, id, quote.Price, now); err != nil {
		return nil, err
	}

	inv.CurrentPrice = &quote.Price
	inv.PriceUpdatedAt = &now
	valuate(inv)
	return inv, nil
}

// SearchSymbols passes a ticker lookup through to the oracle.
func (s *investmentService) SearchSymbols(ctx context.Context, query string) ([]market.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("search query is required")
	}
	return s.quotes.SearchSymbols(ctx, query)
}

// PortfolioSummary aggregates valuation across holdings. Amounts are summed
// raw across currencies; no conversion is applied.
func (s *investmentService) PortfolioSummary(ctx context.Context, accountID *uuid.UUID) (*models.PortfolioSummary, error) {
	investments, err := s.GetAll(ctx, accountID)
	if err != nil {
		return nil, err
	}

	summary := &models.PortfolioSummary{
		HoldingsCount: len(investments),
	}

	for _, inv := range investments {
		summary.TotalValue = summary.TotalValue.Add(inv.CurrentValue)
		summary.TotalCost = summary.TotalCost.Add(inv.CostBasis)
	}

	summary.TotalGainLoss = summary.TotalValue.Sub(summary.TotalCost)
	if summary.TotalCost.IsPositive() {
		summary.TotalGainLossPercentage = summary.TotalGainLoss.Div(summary.TotalCost).Mul(oneHundred).Round(2)
	}

	return summary, nil
}
