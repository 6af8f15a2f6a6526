package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	return p == BudgetPeriodMonthly || p == BudgetPeriodYearly
}

type Budget struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Category  string          `json:"category" db:"category"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Period    BudgetPeriod    `json:"period" db:"period"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`

	// derived from expense transactions in the current period window
	Spent          decimal.Decimal `json:"spent" db:"-"`
	Remaining      decimal.Decimal `json:"remaining" db:"-"`
	PercentageUsed decimal.Decimal `json:"percentage_used" db:"-"`
}

type BudgetCreate struct {
	Category string          `json:"category" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Period   BudgetPeriod    `json:"period"`
}

type BudgetUpdate struct {
	Amount *decimal.Decimal `json:"amount"`
	Period *BudgetPeriod    `json:"period"`
}
