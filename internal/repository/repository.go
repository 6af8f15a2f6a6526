package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	TxManager   TxManager
	Account     AccountRepository
	Transaction TransactionRepository
	Budget      BudgetRepository
	Investment  InvestmentRepository
}

func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		TxManager:   NewTxManager(pool),
		Account:     NewAccountRepository(pool),
		Transaction: NewTransactionRepository(pool),
		Budget:      NewBudgetRepository(pool),
		Investment:  NewInvestmentRepository(pool),
	}
}
