package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/rjoshi/findash/internal/models"
	"github.com/rjoshi/findash/internal/repository"
)

// ImportService loads accounts, transactions and investments from CSV
// files. Imported transactions are recorded as-is and do not move account
// balances; the balances in an exported file already reflect them.
type ImportService interface {
	ImportTransactions(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	ImportAccounts(ctx context.Context, r io.Reader) (*models.ImportResult, error)
	ImportInvestments(ctx context.Context, r io.Reader) (*models.ImportResult, error)

	TransactionTemplate() string
	AccountTemplate() string
	InvestmentTemplate() string
}

type importService struct {
	accountRepo     repository.AccountRepository
	transactionRepo repository.TransactionRepository
	investmentRepo  repository.InvestmentRepository
	defaultCurrency string
	log             zerolog.Logger
}

func NewImportService(
	accountRepo repository.AccountRepository,
	transactionRepo repository.TransactionRepository,
	investmentRepo repository.InvestmentRepository,
	defaultCurrency string,
	log zerolog.Logger,
) ImportService {
	return &importService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		investmentRepo:  investmentRepo,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// csvRow is one data row keyed by header name, header and values trimmed.
type csvRow map[string]string

func (r csvRow) get(key string) string { return r[key] }

func (r csvRow) require(key string) (string, error) {
	v := r[key]
	if v == "" {
		return "", fmt.Errorf("missing %s", key)
	}
	return v, nil
}

// readRows parses the whole file and hands each data row to fn. Parse and
// validation failures are collected per row; a malformed stream aborts the
// import entirely.
func readRows(r io.Reader, result *models.ImportResult, fn func(row csvRow) error) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return models.NewValidationError("reading CSV header: %v", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return models.NewValidationError("reading CSV row %d: %v", line, err)
		}

		row := make(csvRow, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			}
		}

		result.TotalRows++
		if err := fn(row); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		result.Imported++
	}
}

func (s *importService) ImportTransactions(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	result := &models.ImportResult{Errors: []string{}}

	err := readRows(r, result, func(row csvRow) error {
		tx, err := s.parseTransactionRow(row)
		if err != nil {
			return err
		}
		if _, err := s.accountRepo.GetByID(ctx, tx.AccountID); err != nil {
			return fmt.Errorf("account %s: %w", tx.AccountID, err)
		}
		return s.transactionRepo.Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("imported", result.Imported).
		Int("total_rows", result.TotalRows).
		Int("failed", len(result.Errors)).
		Msg("transaction CSV import finished")
	return result, nil
}

func (s *importService) parseTransactionRow(row csvRow) (*models.Transaction, error) {
	dateRaw, err := row.require("date")
	if err != nil {
		return nil, err
	}
	date, err := time.Parse("2006-01-02", dateRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q", dateRaw)
	}

	amountRaw, err := row.require("amount")
	if err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(amountRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q", amountRaw)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive, got %s", amount)
	}

	typeRaw, err := row.require("type")
	if err != nil {
		return nil, err
	}
	txType := models.TransactionType(strings.ToLower(typeRaw))
	if !txType.Valid() {
		return nil, fmt.Errorf("unknown transaction type %q", typeRaw)
	}

	accountRaw, err := row.require("account_id")
	if err != nil {
		return nil, err
	}
	accountID, err := uuid.Parse(accountRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid account_id %q", accountRaw)
	}

	category, err := normalizeCategory(row.get("category"))
	if err != nil {
		return nil, err
	}

	var tags []string
	if raw := row.get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	return &models.Transaction{
		AccountID:   accountID,
		Type:        txType,
		Amount:      amount,
		Category:    category,
		Merchant:    row.get("merchant"),
		Description: row.get("description"),
		Tags:        tags,
		Date:        date,
	}, nil
}

func (s *importService) ImportAccounts(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	result := &models.ImportResult{Errors: []string{}}

	err := readRows(r, result, func(row csvRow) error {
		acc, err := s.parseAccountRow(row)
		if err != nil {
			return err
		}
		return s.accountRepo.Create(ctx, acc)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("imported", result.Imported).
		Int("total_rows", result.TotalRows).
		Int("failed", len(result.Errors)).
		Msg("account CSV import finished")
	return result, nil
}

func (s *importService) parseAccountRow(row csvRow) (*models.Account, error) {
	name, err := row.require("name")
	if err != nil {
		return nil, err
	}

	typeRaw, err := row.require("account_type")
	if err != nil {
		return nil, err
	}
	accType := models.AccountType(strings.ToLower(typeRaw))
	if !accType.Valid() {
		return nil, fmt.Errorf("unknown account type %q", typeRaw)
	}

	balanceRaw, err := row.require("balance")
	if err != nil {
		return nil, err
	}
	balance, err := decimal.NewFromString(balanceRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid balance %q", balanceRaw)
	}

	currency := row.get("currency")
	if currency == "" {
		currency = s.defaultCurrency
	}

	return &models.Account{
		Name:          name,
		Type:          accType,
		Balance:       balance,
		Currency:      currency,
		Institution:   row.get("institution"),
		AccountNumber: row.get("account_number"),
		Notes:         row.get("notes"),
		IsActive:      true,
	}, nil
}

func (s *importService) ImportInvestments(ctx context.Context, r io.Reader) (*models.ImportResult, error) {
	result := &models.ImportResult{Errors: []string{}}

	err := readRows(r, result, func(row csvRow) error {
		inv, err := s.parseInvestmentRow(row)
		if err != nil {
			return err
		}
		if _, err := s.accountRepo.GetByID(ctx, inv.AccountID); err != nil {
			return fmt.Errorf("account %s: %w", inv.AccountID, err)
		}
		return s.investmentRepo.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Int("imported", result.Imported).
		Int("total_rows", result.TotalRows).
		Int("failed", len(result.Errors)).
		Msg("investment CSV import finished")
	return result, nil
}

func (s *importService) parseInvestmentRow(row csvRow) (*models.Investment, error) {
	symbol, err := row.require("symbol")
	if err != nil {
		return nil, err
	}

	typeRaw, err := row.require("asset_type")
	if err != nil {
		return nil, err
	}
	assetType := models.AssetType(strings.ToLower(typeRaw))
	if !assetType.Valid() {
		return nil, fmt.Errorf("unknown asset type %q", typeRaw)
	}

	exchange := models.Exchange(strings.ToUpper(row.get("exchange")))
	if exchange == "" {
		exchange = models.ExchangeUS
	}
	if !exchange.Valid() {
		return nil, fmt.Errorf("unknown exchange %q", row.get("exchange"))
	}

	quantityRaw, err := row.require("quantity")
	if err != nil {
		return nil, err
	}
	quantity, err := decimal.NewFromString(quantityRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid quantity %q", quantityRaw)
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("quantity must not be negative, got %s", quantity)
	}

	priceRaw, err := row.require("purchase_price")
	if err != nil {
		return nil, err
	}
	price, err := decimal.NewFromString(priceRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid purchase_price %q", priceRaw)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("purchase_price must not be negative, got %s", price)
	}

	accountRaw, err := row.require("account_id")
	if err != nil {
		return nil, err
	}
	accountID, err := uuid.Parse(accountRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid account_id %q", accountRaw)
	}

	inv := &models.Investment{
		AccountID:     accountID,
		Symbol:        strings.ToUpper(symbol),
		Name:          row.get("name"),
		AssetType:     assetType,
		Exchange:      exchange,
		Quantity:      quantity,
		PurchasePrice: price,
		Currency:      row.get("currency"),
	}
	if inv.Currency == "" {
		inv.Currency = s.defaultCurrency
	}

	if raw := row.get("purchase_date"); raw != "" {
		purchaseDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, fmt.Errorf("invalid purchase_date %q", raw)
		}
		inv.PurchaseDate = &purchaseDate
	}

	return inv, nil
}

func (s *importService) TransactionTemplate() string {
	return strings.Join([]string{
		"date,amount,type,category,merchant,description,account_id,tags",
		"2024-01-01,100.00,income,Salary,Employer,Monthly salary,00000000-0000-0000-0000-000000000001,",
		"2024-01-02,50.00,expense,Groceries,Walmart,Weekly groceries,00000000-0000-0000-0000-000000000001,\"food,essential\"",
		"2024-01-03,30.00,expense,Transportation,Uber,Ride to work,00000000-0000-0000-0000-000000000001,transport",
	}, "\n")
}

func (s *importService) AccountTemplate() string {
	return strings.Join([]string{
		"name,account_type,balance,currency,institution,account_number,notes",
		"Checking Account,checking,5000.00,USD,Chase Bank,****1234,Primary account",
		"Savings Account,savings,10000.00,USD,Chase Bank,****5678,Emergency fund",
		"Credit Card,credit_card,-1500.00,USD,Amex,****9012,Main credit card",
	}, "\n")
}

func (s *importService) InvestmentTemplate() string {
	return strings.Join([]string{
		"symbol,name,asset_type,exchange,quantity,purchase_price,purchase_date,account_id,currency",
		"AAPL,Apple Inc,stock,US,10,150.00,2024-01-01,00000000-0000-0000-0000-000000000002,USD",
		"RELIANCE,Reliance Industries,stock,NSE,50,2500.00,2024-01-01,00000000-0000-0000-0000-000000000002,INR",
		"NIFTY,Nifty 50 ETF,etf,NSE,100,180.00,2024-01-01,00000000-0000-0000-0000-000000000002,INR",
	}, "\n")
}
