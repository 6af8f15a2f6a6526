package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AssetType string

const (
	AssetTypeStock      AssetType = "stock"
	AssetTypeETF        AssetType = "etf"
	AssetTypeMutualFund AssetType = "mutual_fund"
	AssetTypeCrypto     AssetType = "crypto"
)

func (t AssetType) Valid() bool {
	switch t {
	case AssetTypeStock, AssetTypeETF, AssetTypeMutualFund, AssetTypeCrypto:
		return true
	}
	return false
}

type Exchange string

const (
	ExchangeUS  Exchange = "US"
	ExchangeNSE Exchange = "NSE"
	ExchangeBSE Exchange = "BSE"
)

func (e Exchange) Valid() bool {
	switch e {
	case ExchangeUS, ExchangeNSE, ExchangeBSE:
		return true
	}
	return false
}

// Investment is a single holding. CurrentPrice stays nil until the first
// successful price refresh; the valuation engine falls back to the purchase
// price until then.
type Investment struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	AccountID      uuid.UUID        `json:"account_id" db:"account_id"`
	Symbol         string           `json:"symbol" db:"symbol"`
	Name           string           `json:"name" db:"name"`
	AssetType      AssetType        `json:"asset_type" db:"asset_type"`
	Exchange       Exchange         `json:"exchange" db:"exchange"`
	Quantity       decimal.Decimal  `json:"quantity" db:"quantity"`
	PurchasePrice  decimal.Decimal  `json:"purchase_price" db:"purchase_price"`
	CurrentPrice   *decimal.Decimal `json:"-" db:"current_price"`
	Currency       string           `json:"currency" db:"currency"`
	PurchaseDate   *time.Time       `json:"purchase_date" db:"purchase_date"`
	PriceUpdatedAt *time.Time       `json:"price_updated_at" db:"price_updated_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`

	// derived by the valuation engine
	Price              decimal.Decimal `json:"current_price" db:"-"`
	CostBasis          decimal.Decimal `json:"cost_basis" db:"-"`
	CurrentValue       decimal.Decimal `json:"current_value" db:"-"`
	GainLoss           decimal.Decimal `json:"gain_loss" db:"-"`
	GainLossPercentage decimal.Decimal `json:"gain_loss_percentage" db:"-"`
}

type InvestmentCreate struct {
	AccountID     uuid.UUID       `json:"account_id" binding:"required"`
	Symbol        string          `json:"symbol" binding:"required"`
	Name          string          `json:"name"`
	AssetType     AssetType       `json:"asset_type" binding:"required"`
	Exchange      Exchange        `json:"exchange"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"required"`
	Currency      string          `json:"currency"`
	PurchaseDate  *time.Time      `json:"purchase_date"`
}

type InvestmentUpdate struct {
	Name          *string          `json:"name"`
	Quantity      *decimal.Decimal `json:"quantity"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
}

type PortfolioSummary struct {
	TotalValue              decimal.Decimal `json:"total_value"`
	TotalCost               decimal.Decimal `json:"total_cost"`
	TotalGainLoss           decimal.Decimal `json:"total_gain_loss"`
	TotalGainLossPercentage decimal.Decimal `json:"total_gain_loss_percentage"`
	HoldingsCount           int             `json:"holdings_count"`
}
