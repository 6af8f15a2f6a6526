package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rjoshi/findash/internal/clock"
	"github.com/rjoshi/findash/internal/models"
)

type analyticsFixture struct {
	svc     AnalyticsService
	accRepo *fakeAccountRepo
	txRepo  *fakeTransactionRepo
	invRepo *fakeInvestmentRepo
}

func newAnalyticsFixture() *analyticsFixture {
	accRepo := newFakeAccountRepo()
	txRepo := &fakeTransactionRepo{}
	invRepo := newFakeInvestmentRepo()
	return &analyticsFixture{
		svc:     NewAnalyticsService(accRepo, txRepo, invRepo, clock.Fixed(testTime)),
		accRepo: accRepo,
		txRepo:  txRepo,
		invRepo: invRepo,
	}
}

func (f *analyticsFixture) addAccount(t *testing.T, accType models.AccountType, balance string) *models.Account {
	t.Helper()
	acc := &models.Account{
		Name:    string(accType),
		Type:    accType,
		Balance: decimal.RequireFromString(balance),
	}
	require.NoError(t, f.accRepo.Create(context.Background(), acc))
	return acc
}

func (f *analyticsFixture) addTransaction(t *testing.T, txType models.TransactionType, amount, category string, date time.Time) {
	t.Helper()
	require.NoError(t, f.txRepo.Create(context.Background(), &models.Transaction{
		Type:     txType,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
		Date:     date,
	}))
}

func TestAnalyticsService_NetWorth(t *testing.T) {
	f := newAnalyticsFixture()
	f.addAccount(t, models.AccountTypeChecking, "5000")
	f.addAccount(t, models.AccountTypeCreditCard, "-1200")

	report, err := f.svc.GetNetWorth(context.Background())
	require.NoError(t, err)

	require.True(t, report.TotalAssets.Equal(decimal.NewFromInt(5000)))
	require.True(t, report.TotalLiabilities.Equal(decimal.NewFromInt(1200)),
		"liabilities count by absolute value, got %s", report.TotalLiabilities)
	require.True(t, report.NetWorth.Equal(decimal.NewFromInt(3800)))
	require.Equal(t, testTime, report.Timestamp)
}

func TestAnalyticsService_NetWorthPositiveLiabilityBalance(t *testing.T) {
	f := newAnalyticsFixture()
	f.addAccount(t, models.AccountTypeChecking, "5000")
	// loan stored as a positive outstanding amount
	f.addAccount(t, models.AccountTypeLoan, "1200")

	report, err := f.svc.GetNetWorth(context.Background())
	require.NoError(t, err)
	require.True(t, report.TotalLiabilities.Equal(decimal.NewFromInt(1200)))
	require.True(t, report.NetWorth.Equal(decimal.NewFromInt(3800)))
}

func TestAnalyticsService_NetWorthIncludesHoldings(t *testing.T) {
	f := newAnalyticsFixture()
	acc := f.addAccount(t, models.AccountTypeInvestment, "0")

	price := decimal.NewFromInt(180)
	require.NoError(t, f.invRepo.Create(context.Background(), &models.Investment{
		AccountID:     acc.ID,
		Symbol:        "AAPL",
		AssetType:     models.AssetTypeStock,
		Exchange:      models.ExchangeUS,
		Quantity:      decimal.NewFromInt(10),
		PurchasePrice: decimal.NewFromInt(150),
		CurrentPrice:  &price,
	}))

	report, err := f.svc.GetNetWorth(context.Background())
	require.NoError(t, err)
	require.True(t, report.TotalAssets.Equal(decimal.NewFromInt(1800)),
		"holdings enter at cached valuation, got %s", report.TotalAssets)
}

func TestAnalyticsService_NetWorthSkipsInactiveAccounts(t *testing.T) {
	f := newAnalyticsFixture()
	f.addAccount(t, models.AccountTypeChecking, "5000")
	closed := f.addAccount(t, models.AccountTypeChecking, "999")
	inactive := false
	require.NoError(t, f.accRepo.Update(context.Background(), closed.ID, &models.AccountUpdate{IsActive: &inactive}))

	report, err := f.svc.GetNetWorth(context.Background())
	require.NoError(t, err)
	require.True(t, report.TotalAssets.Equal(decimal.NewFromInt(5000)))
}

func TestAnalyticsService_CashFlowDefaultsToCurrentMonth(t *testing.T) {
	f := newAnalyticsFixture()
	f.addTransaction(t, models.TransactionTypeIncome, "3000", "Salary", testTime.AddDate(0, 0, -1))
	f.addTransaction(t, models.TransactionTypeExpense, "800", "Rent", testTime.AddDate(0, 0, -2))
	// transfers touch neither side
	f.addTransaction(t, models.TransactionTypeTransfer, "10000", "", testTime.AddDate(0, 0, -3))
	// previous month stays out of the default window
	f.addTransaction(t, models.TransactionTypeIncome, "9999", "Salary", testTime.AddDate(0, -1, 0))

	report, err := f.svc.GetCashFlow(context.Background(), nil, nil)
	require.NoError(t, err)

	require.True(t, report.TotalIncome.Equal(decimal.NewFromInt(3000)))
	require.True(t, report.TotalExpenses.Equal(decimal.NewFromInt(800)))
	require.True(t, report.NetCashFlow.Equal(decimal.NewFromInt(2200)))
	require.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), report.StartDate)
	require.Equal(t, testTime, report.EndDate)
}

func TestAnalyticsService_CashFlowExplicitRange(t *testing.T) {
	f := newAnalyticsFixture()
	f.addTransaction(t, models.TransactionTypeExpense, "100", "", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	f.addTransaction(t, models.TransactionTypeExpense, "50", "", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	report, err := f.svc.GetCashFlow(context.Background(), &from, &to)
	require.NoError(t, err)
	require.True(t, report.TotalExpenses.Equal(decimal.NewFromInt(100)))
	require.True(t, report.NetCashFlow.Equal(decimal.NewFromInt(-100)))
}

func TestAnalyticsService_SpendingByCategory(t *testing.T) {
	f := newAnalyticsFixture()
	f.addTransaction(t, models.TransactionTypeExpense, "600", "Rent", testTime.AddDate(0, 0, -1))
	f.addTransaction(t, models.TransactionTypeExpense, "250", "Groceries", testTime.AddDate(0, 0, -2))
	f.addTransaction(t, models.TransactionTypeExpense, "150", "", testTime.AddDate(0, 0, -3))
	// income never shows up in spending
	f.addTransaction(t, models.TransactionTypeIncome, "3000", "Salary", testTime.AddDate(0, 0, -1))

	report, err := f.svc.GetSpendingByCategory(context.Background(), nil, nil)
	require.NoError(t, err)

	require.True(t, report.TotalSpending.Equal(decimal.NewFromInt(1000)))
	require.Len(t, report.Categories, 3)

	// descending by amount, blank category surfaced as Uncategorized
	require.Equal(t, "Rent", report.Categories[0].Category)
	require.True(t, report.Categories[0].Percentage.Equal(decimal.NewFromInt(60)))
	require.Equal(t, "Groceries", report.Categories[1].Category)
	require.True(t, report.Categories[1].Percentage.Equal(decimal.NewFromInt(25)))
	require.Equal(t, UncategorizedLabel, report.Categories[2].Category)
	require.True(t, report.Categories[2].Percentage.Equal(decimal.NewFromInt(15)))

	total := decimal.Zero
	for _, c := range report.Categories {
		total = total.Add(c.Percentage)
	}
	require.True(t, total.Equal(decimal.NewFromInt(100)))
}

func TestAnalyticsService_SpendingByCategoryEmpty(t *testing.T) {
	f := newAnalyticsFixture()

	report, err := f.svc.GetSpendingByCategory(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, report.Categories)
	require.True(t, report.TotalSpending.IsZero())
}

func TestAnalyticsService_MonthlyTrendZeroFills(t *testing.T) {
	f := newAnalyticsFixture()
	// only two of six months have activity
	f.addTransaction(t, models.TransactionTypeIncome, "3000", "Salary", time.Date(2024, 4, 5, 0, 0, 0, 0, time.UTC))
	f.addTransaction(t, models.TransactionTypeExpense, "1200", "Rent", time.Date(2024, 4, 7, 0, 0, 0, 0, time.UTC))
	f.addTransaction(t, models.TransactionTypeExpense, "300", "Rent", time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC))

	report, err := f.svc.GetMonthlyTrend(context.Background(), 6)
	require.NoError(t, err)

	require.Equal(t, 6, report.Months)
	require.Len(t, report.Trend, 6)

	months := make([]string, len(report.Trend))
	for i, b := range report.Trend {
		months[i] = b.Month
	}
	require.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}, months)

	require.True(t, report.Trend[0].Income.IsZero())
	require.True(t, report.Trend[0].Expenses.IsZero())
	require.True(t, report.Trend[0].Net.IsZero())

	april := report.Trend[3]
	require.True(t, april.Income.Equal(decimal.NewFromInt(3000)))
	require.True(t, april.Expenses.Equal(decimal.NewFromInt(1200)))
	require.True(t, april.Net.Equal(decimal.NewFromInt(1800)))

	june := report.Trend[5]
	require.True(t, june.Net.Equal(decimal.NewFromInt(-300)))
}

func TestAnalyticsService_MonthlyTrendBounds(t *testing.T) {
	f := newAnalyticsFixture()

	report, err := f.svc.GetMonthlyTrend(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, report.Trend, 6, "non-positive months falls back to the default")

	report, err = f.svc.GetMonthlyTrend(context.Background(), 240)
	require.NoError(t, err)
	require.Len(t, report.Trend, 24, "months is capped")
}

func TestAnalyticsService_MonthlyTrendUsesUTCMonths(t *testing.T) {
	// the app clock lives east of UTC: locally it is already July 1st, but
	// in UTC the current month is still June
	local := time.FixedZone("UTC+10", 10*60*60)
	now := time.Date(2024, 7, 1, 5, 0, 0, 0, local)

	f := newAnalyticsFixture()
	svc := NewAnalyticsService(f.accRepo, f.txRepo, f.invRepo, clock.Fixed(now))

	// posted at 02:00 local on July 1st, which is June 30th in UTC
	f.addTransaction(t, models.TransactionTypeExpense, "75", "Rent", time.Date(2024, 7, 1, 2, 0, 0, 0, local))

	report, err := svc.GetMonthlyTrend(context.Background(), 3)
	require.NoError(t, err)

	months := make([]string, len(report.Trend))
	for i, b := range report.Trend {
		months[i] = b.Month
	}
	require.Equal(t, []string{"2024-04", "2024-05", "2024-06"}, months,
		"grid anchors to the UTC month, matching store bucket labels")
	require.True(t, report.Trend[2].Expenses.Equal(decimal.NewFromInt(75)),
		"boundary transaction lands in its UTC month bucket")
}

func TestAnalyticsService_AccountBalances(t *testing.T) {
	f := newAnalyticsFixture()
	f.addAccount(t, models.AccountTypeChecking, "5000")
	f.addAccount(t, models.AccountTypeSavings, "12000")
	// a large debt outranks a small asset
	f.addAccount(t, models.AccountTypeCreditCard, "-7500")
	closed := f.addAccount(t, models.AccountTypeChecking, "99999")
	inactive := false
	require.NoError(t, f.accRepo.Update(context.Background(), closed.ID, &models.AccountUpdate{IsActive: &inactive}))

	balances, err := f.svc.GetAccountBalances(context.Background())
	require.NoError(t, err)

	require.Len(t, balances, 3, "inactive accounts are excluded")
	require.Equal(t, models.AccountTypeSavings, balances[0].Type)
	require.Equal(t, models.AccountTypeCreditCard, balances[1].Type)
	require.True(t, balances[1].Balance.Equal(decimal.NewFromInt(-7500)),
		"ordering uses magnitude but the signed balance is reported")
	require.Equal(t, models.AccountTypeChecking, balances[2].Type)
}

func TestAnalyticsService_DashboardSummary(t *testing.T) {
	f := newAnalyticsFixture()
	f.addAccount(t, models.AccountTypeChecking, "5000")
	f.addTransaction(t, models.TransactionTypeIncome, "3000", "Salary", testTime.AddDate(0, 0, -1))
	f.addTransaction(t, models.TransactionTypeExpense, "800", "Rent", testTime.AddDate(0, 0, -2))
	f.addTransaction(t, models.TransactionTypeExpense, "100", "Rent", testTime.AddDate(0, -2, 0))

	summary, err := f.svc.GetDashboardSummary(context.Background())
	require.NoError(t, err)

	require.Equal(t, 1, summary.AccountCount)
	require.Equal(t, int64(2), summary.CurrentMonthTransactionCount)
	require.True(t, summary.NetWorth.NetWorth.Equal(decimal.NewFromInt(5000)))
	require.True(t, summary.CurrentMonthCashFlow.NetCashFlow.Equal(decimal.NewFromInt(2200)))
	require.True(t, summary.CurrentMonthSpending.TotalSpending.Equal(decimal.NewFromInt(800)))
	require.Equal(t, testTime, summary.Timestamp)
}
