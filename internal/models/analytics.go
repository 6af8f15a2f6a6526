package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountBalance is one row of the account-balances report: the active
// accounts ordered by balance magnitude.
type AccountBalance struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Type     AccountType     `json:"type"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"`
}

type NetWorthReport struct {
	NetWorth         decimal.Decimal `json:"net_worth"`
	TotalAssets      decimal.Decimal `json:"total_assets"`
	TotalLiabilities decimal.Decimal `json:"total_liabilities"`
	Timestamp        time.Time       `json:"timestamp"`
}

type CashFlowReport struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetCashFlow   decimal.Decimal `json:"net_cash_flow"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
}

type CategorySpend struct {
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

type SpendingReport struct {
	Categories    []CategorySpend `json:"categories"`
	TotalSpending decimal.Decimal `json:"total_spending"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
}

// MonthlyFlow is one calendar-month bucket of the income/expense trend.
type MonthlyFlow struct {
	Month    string          `json:"month"` // YYYY-MM
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type TrendReport struct {
	Trend  []MonthlyFlow `json:"trend"`
	Months int           `json:"months"`
}

type DashboardSummary struct {
	NetWorth                     *NetWorthReport `json:"net_worth"`
	CurrentMonthCashFlow         *CashFlowReport `json:"current_month_cash_flow"`
	CurrentMonthSpending         *SpendingReport `json:"current_month_spending"`
	AccountCount                 int             `json:"account_count"`
	CurrentMonthTransactionCount int64           `json:"current_month_transaction_count"`
	Timestamp                    time.Time       `json:"timestamp"`
}
