package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/clock"
	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/repository"
)

// UncategorizedLabel is the bucket expense transactions without a category
// fall into.
const UncategorizedLabel = "Uncategorized"

// AnalyticsService is the aggregation engine. Every report is a pure
// function of the current store snapshot; amounts in mixed currencies are
// summed raw, which is a documented limitation of the system.
type AnalyticsService interface {
	GetNetWorth(ctx context.Context) (*models.NetWorthReport, error)
	GetCashFlow(ctx context.Context, startDate, endDate *time.Time) (*models.CashFlowReport, error)
	GetSpendingByCategory(ctx context.Context, startDate, endDate *time.Time) (*models.SpendingReport, error)
	GetMonthlyTrend(ctx context.Context, months int) (*models.TrendReport, error)
	GetAccountBalances(ctx context.Context) ([]models.AccountBalance, error)
	GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error)
}

type analyticsService struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	investmentRepo  repository.InvestmentRepository
	clock           clock.Clock
}

func NewAnalyticsService(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	investmentRepo repository.InvestmentRepository,
	c clock.Clock,
) AnalyticsService {
	return &analyticsService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
		clock:           c,
	}
}

// GetNetWorth partitions account balances into assets and liabilities and
// adds the cached market value of holdings on top. Liability balances count
// by absolute magnitude so both storage sign conventions work.
func (s *analyticsService) GetNetWorth(ctx context.Context) (*models.NetWorthReport, error) {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.NetWorthReport{Timestamp: s.clock.Now()}

	for _, acc := range accounts {
		if !acc.IsActive {
			continue
		}
		if acc.Type.IsLiability() {
			report.TotalLiabilities = report.TotalLiabilities.Add(acc.Balance.Abs())
		} else {
			report.TotalAssets = report.TotalAssets.Add(acc.Balance)
		}
	}

	// holdings valued at the cached price; no oracle call on a read path
	investments, err := s.investmentRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	for i := range investments {
		valuate(&investments[i])
		report.TotalAssets = report.TotalAssets.Add(investments[i].CurrentValue)
	}

	report.NetWorth = report.TotalAssets.Sub(report.TotalLiabilities)
	return report, nil
}

// GetCashFlow sums income and expenses over the range, defaulting to the
// current calendar month. Transfers contribute to neither side.
func (s *analyticsService) GetCashFlow(ctx context.Context, startDate, endDate *time.Time) (*models.CashFlowReport, error) {
	from, to := s.rangeOrCurrentMonth(startDate, endDate)

	income, err := s.transactionRepo.SumByType(ctx, models.TransactionTypeIncome, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.transactionRepo.SumByType(ctx, models.TransactionTypeExpense, from, to)
	if err != nil {
		return nil, err
	}

	return &models.CashFlowReport{
		TotalIncome:   income,
		TotalExpenses: expenses,
		NetCashFlow:   income.Sub(expenses),
		StartDate:     from,
		EndDate:       to,
	}, nil
}

func (s *analyticsService) GetSpendingByCategory(ctx context.Context, startDate, endDate *time.Time) (*models.SpendingReport, error) {
	from, to := s.rangeOrCurrentMonth(startDate, endDate)

	categories, err := s.transactionRepo.SumExpensesByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &models.SpendingReport{
		StartDate: from,
		EndDate:   to,
	}

	for _, c := range categories {
		report.TotalSpending = report.TotalSpending.Add(c.Amount)
	}

	for _, c := range categories {
		if c.Category == "" {
			c.Category = UncategorizedLabel
		}
		if report.TotalSpending.IsPositive() {
			c.Percentage = c.Amount.Div(report.TotalSpending).Mul(oneHundred).Round(2)
		}
		report.Categories = append(report.Categories, c)
	}

	return report, nil
}

// GetMonthlyTrend produces exactly months buckets, oldest first, anchored to
// the current calendar month. Months without activity stay as zeros. Buckets
// are UTC calendar months, matching how the store labels them.
func (s *analyticsService) GetMonthlyTrend(ctx context.Context, months int) (*models.TrendReport, error) {
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		months = 24
	}

	now := s.clock.Now().UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	from := currentMonth.AddDate(0, -(months - 1), 0)

	flows, err := s.transactionRepo.SumByMonth(ctx, from, now)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]models.MonthlyFlow, len(flows))
	for _, f := range flows {
		byMonth[f.Month] = f
	}

	report := &models.TrendReport{Months: months}
	for i := 0; i < months; i++ {
		month := from.AddDate(0, i, 0).Format("2006-01")
		bucket := models.MonthlyFlow{
			Month:    month,
			Income:   decimal.Zero,
			Expenses: decimal.Zero,
		}
		if f, ok := byMonth[month]; ok {
			bucket.Income = f.Income
			bucket.Expenses = f.Expenses
		}
		bucket.Net = bucket.Income.Sub(bucket.Expenses)
		report.Trend = append(report.Trend, bucket)
	}

	return report, nil
}

// GetAccountBalances lists the active accounts ordered by balance
// magnitude, largest first, so liabilities rank by size too.
func (s *analyticsService) GetAccountBalances(ctx context.Context) ([]models.AccountBalance, error) {
	accounts, err := s.accountRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	balances := make([]models.AccountBalance, 0, len(accounts))
	for _, acc := range accounts {
		if !acc.IsActive {
			continue
		}
		balances = append(balances, models.AccountBalance{
			ID:       acc.ID,
			Name:     acc.Name,
			Type:     acc.Type,
			Balance:  acc.Balance,
			Currency: acc.Currency,
		})
	}

	sort.SliceStable(balances, func(i, j int) bool {
		return balances[i].Balance.Abs().GreaterThan(balances[j].Balance.Abs())
	})
	return balances, nil
}

// GetDashboardSummary composes the read-side reports for the dashboard. No
// computation happens here beyond the calls it bundles.
func (s *analyticsService) GetDashboardSummary(ctx context.Context) (*models.DashboardSummary, error) {
	netWorth, err := s.GetNetWorth(ctx)
	if err != nil {
		return nil, err
	}

	monthStart, now := currentMonthWindow(s.clock)

	cashFlow, err := s.GetCashFlow(ctx, &monthStart, &now)
	if err != nil {
		return nil, err
	}

	spending, err := s.GetSpendingByCategory(ctx, &monthStart, &now)
	if err != nil {
		return nil, err
	}

	accountCount, err := s.accountRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	transactionCount, err := s.transactionRepo.CountInRange(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		NetWorth:                     netWorth,
		CurrentMonthCashFlow:         cashFlow,
		CurrentMonthSpending:         spending,
		AccountCount:                 accountCount,
		CurrentMonthTransactionCount: transactionCount,
		Timestamp:                    s.clock.Now(),
	}, nil
}

func (s *analyticsService) rangeOrCurrentMonth(startDate, endDate *time.Time) (time.Time, time.Time) {
	from, to := currentMonthWindow(s.clock)
	if startDate != nil {
		from = *startDate
	}
	if endDate != nil {
		to = *endDate
	}
	return from, to
}
