package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeChecking   AccountType = "checking"
	AccountTypeSavings    AccountType = "savings"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeInvestment AccountType = "investment"
	AccountTypeCrypto     AccountType = "crypto"
	AccountTypeLoan       AccountType = "loan"
	AccountTypeOther      AccountType = "other"
)

// IsLiability reports whether balances of this account type count against
// net worth rather than towards it.
func (t AccountType) IsLiability() bool {
	return t == AccountTypeCreditCard || t == AccountTypeLoan
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeCreditCard,
		AccountTypeInvestment, AccountTypeCrypto, AccountTypeLoan, AccountTypeOther:
		return true
	}
	return false
}

type Account struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	Name          string          `json:"name" db:"name"`
	Type          AccountType     `json:"account_type" db:"type"`
	Balance       decimal.Decimal `json:"balance" db:"balance"`
	Currency      string          `json:"currency" db:"currency"`
	Institution   string          `json:"institution" db:"institution"`
	AccountNumber string          `json:"account_number" db:"account_number"`
	Notes         string          `json:"notes" db:"notes"`
	IsActive      bool            `json:"is_active" db:"is_active"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
}

type AccountCreate struct {
	Name          string          `json:"name" binding:"required"`
	Type          AccountType     `json:"account_type" binding:"required"`
	Balance       decimal.Decimal `json:"balance"`
	Currency      string          `json:"currency"`
	Institution   string          `json:"institution"`
	AccountNumber string          `json:"account_number"`
	Notes         string          `json:"notes"`
}

type AccountUpdate struct {
	Name          *string          `json:"name"`
	Balance       *decimal.Decimal `json:"balance"`
	Institution   *string          `json:"institution"`
	AccountNumber *string          `json:"account_number"`
	Notes         *string          `json:"notes"`
	IsActive      *bool            `json:"is_active"`
}
