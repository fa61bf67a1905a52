// Package server exposes the HTTP API: lookup and entity management,
// account allocation rules, and net-worth reporting.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"FinanceAssistant/internal/scheduler"
	"FinanceAssistant/internal/store"
	"FinanceAssistant/internal/ynab"
)

// Server serves the JSON API.
type Server struct {
	Store     *store.Store
	Source    ynab.BudgetSource
	Scheduler *scheduler.Scheduler
	Symbol    string

	http *http.Server
}

// NewServer wires the API onto listenAddr. symbol is the currency symbol
// used for display strings.
func NewServer(listenAddr string, st *store.Store, src ynab.BudgetSource, sched *scheduler.Scheduler, symbol string) *Server {
	s := &Server{
		Store:     st,
		Source:    src,
		Scheduler: sched,
		Symbol:    symbol,
	}
	s.http = &http.Server{
		Addr:         listenAddr,
		Handler:      s.routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("GET /api/settings", s.handleListSettings)
	mux.HandleFunc("PUT /api/settings/{key}", s.handlePutSetting)

	mux.HandleFunc("GET /api/lookups/{kind}", s.handleListLookup)
	mux.HandleFunc("POST /api/lookups/{kind}", s.handleAddLookup)
	mux.HandleFunc("PUT /api/lookups/{kind}/{id}", s.handleRenameLookup)
	mux.HandleFunc("DELETE /api/lookups/{kind}/{id}", s.handleDeleteLookup)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/scheduled-transactions", s.handleListScheduledTransactions)

	mux.HandleFunc("GET /api/accounts", s.handleListAccounts)
	mux.HandleFunc("GET /api/accounts/{id}", s.handleAccountDetails)
	mux.HandleFunc("PUT /api/accounts/{id}", s.handleSaveAccountDetails)
	mux.HandleFunc("DELETE /api/accounts/{id}", s.handleDeleteAccountDetails)

	mux.HandleFunc("GET /api/assets", s.handleListAssets)
	mux.HandleFunc("POST /api/assets", s.handleSaveAsset)
	mux.HandleFunc("PUT /api/assets/{id}", s.handleSaveAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)

	mux.HandleFunc("GET /api/liabilities", s.handleListLiabilities)
	mux.HandleFunc("POST /api/liabilities", s.handleSaveLiability)
	mux.HandleFunc("PUT /api/liabilities/{id}", s.handleSaveLiability)
	mux.HandleFunc("DELETE /api/liabilities/{id}", s.handleDeleteLiability)

	mux.HandleFunc("GET /api/credit-cards", s.handleListCreditCards)
	mux.HandleFunc("POST /api/credit-cards", s.handleSaveCreditCard)
	mux.HandleFunc("PUT /api/credit-cards/{id}", s.handleSaveCreditCard)
	mux.HandleFunc("DELETE /api/credit-cards/{id}", s.handleDeleteCreditCard)

	mux.HandleFunc("GET /api/trees/{kind}", s.handleListTree)
	mux.HandleFunc("POST /api/trees/{kind}", s.handleAddTreeItem)
	mux.HandleFunc("PUT /api/trees/{kind}/{id}", s.handleUpdateTreeItem)
	mux.HandleFunc("DELETE /api/trees/{kind}/{id}", s.handleDeleteTreeItem)

	mux.HandleFunc("GET /api/networth", s.handleNetWorth)
	mux.HandleFunc("GET /api/networth/history", s.handleNetWorthHistory)
	mux.HandleFunc("POST /api/networth/snapshot", s.handleTakeSnapshot)

	return mux
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	log.Printf("[INFO] HTTP server listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"source": s.Source.Name(),
	})
}

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.Store.AllSettings()
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handlePutSetting(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	var value any
	if !decodeBody(w, r, &value) {
		return
	}
	if err := s.Store.SetSetting(key, value); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{key: value})
}
