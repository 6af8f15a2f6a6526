package service

import (
	"github.com/rs/zerolog"

	"github.com/rjoshi/findash/internal/clock"
	"github.com/rjoshi/findash/internal/config"
	"github.com/rjoshi/findash/internal/market"
	"github.com/rjoshi/findash/internal/repository"
)

// Services bundles the business layer for handler wiring.
type Services struct {
	Account     AccountService
	Transaction TransactionService
	Budget      BudgetService
	Investment  InvestmentService
	Analytics   AnalyticsService
	Import      ImportService
}

func NewServices(repos *repository.Repositories, quotes market.QuoteProvider, cfg *config.Config, c clock.Clock, log zerolog.Logger) *Services {
	return &Services{
		Account:     NewAccountService(repos.Account, cfg.DefaultCurrency),
		Transaction: NewTransactionService(repos.TxManager, repos.Transaction, repos.Account),
		Budget:      NewBudgetService(repos.Budget, repos.Transaction, c),
		Investment:  NewInvestmentService(repos.Investment, repos.Account, quotes, c, cfg.DefaultCurrency, log),
		Analytics:   NewAnalyticsService(repos.Account, repos.Transaction, repos.Investment, c),
		Import:      NewImportService(repos.Account, repos.Transaction, repos.Investment, cfg.DefaultCurrency, log),
	}
}
