package ynab

import "FinanceAssistant/internal/model"

// BudgetSource provides account and transaction data from a budgeting
// service. All amounts it returns are in milliunits.
type BudgetSource interface {
	Budgets() ([]model.Budget, error)
	Accounts() ([]model.BudgetAccount, error)
	AccountByID(accountID string) (*model.BudgetAccount, error)
	Transactions(sinceDate string) ([]model.Transaction, error)
	ScheduledTransactions() ([]model.ScheduledTransaction, error)
	CreateTransaction(tx model.Transaction) (*model.Transaction, error)
	Name() string
}
