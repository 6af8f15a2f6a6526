package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/rjoshi/findash/internal/models"
)

type importFixture struct {
	svc       ImportService
	accRepo   *fakeAccountRepo
	txRepo    *fakeTransactionRepo
	invRepo   *fakeInvestmentRepo
	accountID string
}

func newImportFixture(t *testing.T) *importFixture {
	t.Helper()

	accRepo := newFakeAccountRepo()
	account := &models.Account{Name: "Checking", Type: models.AccountTypeChecking}
	require.NoError(t, accRepo.Create(context.Background(), account))

	txRepo := &fakeTransactionRepo{}
	invRepo := newFakeInvestmentRepo()

	return &importFixture{
		svc:       NewImportService(accRepo, txRepo, invRepo, "USD", zerolog.Nop()),
		accRepo:   accRepo,
		txRepo:    txRepo,
		invRepo:   invRepo,
		accountID: account.ID.String(),
	}
}

func TestImportService_Transactions(t *testing.T) {
	f := newImportFixture(t)

	csvData := fmt.Sprintf(`date,amount,type,category,merchant,description,account_id,tags
2024-01-01,100.00,income,Salary,Employer,Monthly salary,%s,
2024-01-02,50.00,expense,Groceries,Walmart,Weekly groceries,%s,"food,essential"
`, f.accountID, f.accountID)

	result, err := f.svc.ImportTransactions(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	require.Equal(t, 2, result.Imported)
	require.Equal(t, 2, result.TotalRows)
	require.Empty(t, result.Errors)

	require.Len(t, f.txRepo.transactions, 2)
	tx := f.txRepo.transactions[1]
	require.Equal(t, models.TransactionTypeExpense, tx.Type)
	require.True(t, tx.Amount.Equal(decimal.NewFromInt(50)))
	require.Equal(t, []string{"food", "essential"}, tx.Tags)
	require.Equal(t, "2024-01-02", tx.Date.Format("2006-01-02"))

	// imports do not post to account balances
	acc, err := f.accRepo.GetByID(context.Background(), f.txRepo.transactions[0].AccountID)
	require.NoError(t, err)
	require.True(t, acc.Balance.IsZero())
}

func TestImportService_TransactionsBadRowsSkipped(t *testing.T) {
	f := newImportFixture(t)

	csvData := fmt.Sprintf(`date,amount,type,category,merchant,description,account_id,tags
2024-01-01,100.00,income,Salary,,,%s,
not-a-date,50.00,expense,,,,%s,
2024-01-03,abc,expense,,,,%s,
2024-01-04,50.00,refund,,,,%s,
2024-01-05,50.00,expense,,,,unknown-account,
`, f.accountID, f.accountID, f.accountID, f.accountID)

	result, err := f.svc.ImportTransactions(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	require.Equal(t, 1, result.Imported)
	require.Equal(t, 5, result.TotalRows)
	require.Len(t, result.Errors, 4)
	require.Contains(t, result.Errors[0], "row 3")
	require.Contains(t, result.Errors[0], "invalid date")
}

func TestImportService_Accounts(t *testing.T) {
	f := newImportFixture(t)

	csvData := `name,account_type,balance,currency,institution,account_number,notes
Savings,savings,10000.00,,Chase Bank,****5678,Emergency fund
Credit Card,credit_card,-1500.00,USD,Amex,****9012,
Bogus,piggy_bank,1.00,,,,
`

	result, err := f.svc.ImportAccounts(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	require.Equal(t, 2, result.Imported)
	require.Equal(t, 3, result.TotalRows)
	require.Len(t, result.Errors, 1)
	require.Contains(t, result.Errors[0], "piggy_bank")

	accounts, err := f.accRepo.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 3) // the fixture account plus two imported

	savings := accounts[1]
	require.Equal(t, models.AccountTypeSavings, savings.Type)
	require.Equal(t, "USD", savings.Currency, "blank currency falls back to the default")
	require.True(t, savings.Balance.Equal(decimal.NewFromInt(10000)))
}

func TestImportService_Investments(t *testing.T) {
	f := newImportFixture(t)

	csvData := fmt.Sprintf(`symbol,name,asset_type,exchange,quantity,purchase_price,purchase_date,account_id,currency
aapl,Apple Inc,stock,,10,150.00,2024-01-01,%s,USD
RELIANCE,Reliance Industries,stock,NSE,50,2500.00,,%s,INR
`, f.accountID, f.accountID)

	result, err := f.svc.ImportInvestments(context.Background(), strings.NewReader(csvData))
	require.NoError(t, err)

	require.Equal(t, 2, result.Imported)
	require.Empty(t, result.Errors)

	investments, err := f.invRepo.GetAll(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, investments, 2)

	require.Equal(t, "AAPL", investments[0].Symbol)
	require.Equal(t, models.ExchangeUS, investments[0].Exchange, "blank exchange defaults to US")
	require.NotNil(t, investments[0].PurchaseDate)

	require.Equal(t, models.ExchangeNSE, investments[1].Exchange)
	require.Nil(t, investments[1].PurchaseDate)
	require.Nil(t, investments[1].CurrentPrice, "imports never call the price oracle")
}

func TestImportService_EmptyFile(t *testing.T) {
	f := newImportFixture(t)

	result, err := f.svc.ImportTransactions(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	require.Equal(t, 0, result.Imported)
	require.Equal(t, 0, result.TotalRows)
}

func TestImportService_Templates(t *testing.T) {
	f := newImportFixture(t)

	for name, tmpl := range map[string]string{
		"transactions": f.svc.TransactionTemplate(),
		"accounts":     f.svc.AccountTemplate(),
		"investments":  f.svc.InvestmentTemplate(),
	} {
		lines := strings.Split(tmpl, "\n")
		require.Greater(t, len(lines), 1, "%s template needs a header and sample rows", name)
	}

	require.True(t, strings.HasPrefix(f.svc.TransactionTemplate(), "date,amount,type,"))
	require.True(t, strings.HasPrefix(f.svc.AccountTemplate(), "name,account_type,"))
	require.True(t, strings.HasPrefix(f.svc.InvestmentTemplate(), "symbol,name,asset_type,"))
}
