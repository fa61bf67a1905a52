package ynab

import (
	"fmt"

	"FinanceAssistant/internal/model"
)

// StaticSource serves fixed data. It backs tests and stands in when no YNAB
// credentials are configured, so the rest of the app can run on manual data.
type StaticSource struct {
	BudgetList  []model.Budget
	AccountList []model.BudgetAccount
	TxList      []model.Transaction
	Scheduled   []model.ScheduledTransaction
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Budgets() ([]model.Budget, error) { return s.BudgetList, nil }

func (s *StaticSource) Accounts() ([]model.BudgetAccount, error) {
	var open []model.BudgetAccount
	for _, a := range s.AccountList {
		if !a.Closed {
			open = append(open, a)
		}
	}
	return open, nil
}

func (s *StaticSource) AccountByID(accountID string) (*model.BudgetAccount, error) {
	for _, a := range s.AccountList {
		if a.ID == accountID {
			acc := a
			return &acc, nil
		}
	}
	return nil, fmt.Errorf("account %s not found", accountID)
}

func (s *StaticSource) Transactions(sinceDate string) ([]model.Transaction, error) {
	var txs []model.Transaction
	for _, tx := range s.TxList {
		if sinceDate == "" || tx.Date >= sinceDate {
			txs = append(txs, tx)
		}
	}
	return txs, nil
}

func (s *StaticSource) ScheduledTransactions() ([]model.ScheduledTransaction, error) {
	return s.Scheduled, nil
}

func (s *StaticSource) CreateTransaction(tx model.Transaction) (*model.Transaction, error) {
	tx.ID = fmt.Sprintf("static-%d", len(s.TxList)+1)
	s.TxList = append(s.TxList, tx)
	return &tx, nil
}
