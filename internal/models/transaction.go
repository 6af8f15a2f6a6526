package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionTypeIncome, TransactionTypeExpense, TransactionTypeTransfer:
		return true
	}
	return false
}

// MaxCategoryLength bounds the free-text category label so grouping stays
// deterministic.
const MaxCategoryLength = 100

type Transaction struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	AccountID   uuid.UUID       `json:"account_id" db:"account_id"`
	Type        TransactionType `json:"transaction_type" db:"type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Category    string          `json:"category" db:"category"` // empty = uncategorized
	Merchant    string          `json:"merchant" db:"merchant"`
	Description string          `json:"description" db:"description"`
	Tags        []string        `json:"tags" db:"tags"`
	Date        time.Time       `json:"transaction_date" db:"date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

type TransactionCreate struct {
	AccountID   uuid.UUID       `json:"account_id" binding:"required"`
	Type        TransactionType `json:"transaction_type" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    string          `json:"category"`
	Merchant    string          `json:"merchant"`
	Description string          `json:"description"`
	Tags        []string        `json:"tags"`
	Date        time.Time       `json:"transaction_date" binding:"required"`
}

type TransactionUpdate struct {
	Amount      *decimal.Decimal `json:"amount"`
	Category    *string          `json:"category"`
	Merchant    *string          `json:"merchant"`
	Description *string          `json:"description"`
	Tags        []string         `json:"tags"`
	Date        *time.Time       `json:"transaction_date"`
}

type TransactionFilter struct {
	AccountID *uuid.UUID       `form:"account_id"`
	Category  *string          `form:"category"`
	Type      *TransactionType `form:"transaction_type"`
	DateFrom  *time.Time       `form:"start_date" time_format:"2006-01-02"`
	DateTo    *time.Time       `form:"end_date" time_format:"2006-01-02"`
	Limit     int              `form:"limit"`
	Offset    int              `form:"offset"`
}
