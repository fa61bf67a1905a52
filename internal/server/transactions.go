package server

import (
	"net/http"

	"FinanceAssistant/internal/model"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.Source.Budgets()
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch budgets: "+err.Error())
		return
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.Source.Transactions(r.URL.Query().Get("since_date"))
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch transactions: "+err.Error())
		return
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx model.Transaction
	if !decodeBody(w, r, &tx) {
		return
	}
	if tx.AccountID == "" || tx.Date == "" {
		writeError(w, http.StatusBadRequest, "account_id and date are required")
		return
	}
	created, err := s.Source.CreateTransaction(tx)
	if err != nil {
		writeError(w, http.StatusBadGateway, "create transaction: "+err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListScheduledTransactions(w http.ResponseWriter, r *http.Request) {
	scheduled, err := s.Source.ScheduledTransactions()
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch scheduled transactions: "+err.Error())
		return
	}
	if scheduled == nil {
		scheduled = []model.ScheduledTransaction{}
	}
	writeJSON(w, http.StatusOK, scheduled)
}
