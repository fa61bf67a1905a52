package ynab

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAccountsFiltersClosedAndSendsAuth(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/budgets/b1/accounts" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"accounts":[
			{"id":"a1","name":"Savings","type":"savings","on_budget":true,"closed":false,"balance":10000000},
			{"id":"a2","name":"Old","type":"checking","on_budget":true,"closed":true,"balance":500}
		]}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "token-123", "b1")
	accounts, err := c.Accounts()
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(accounts) != 1 || accounts[0].ID != "a1" {
		t.Errorf("accounts = %+v, want only a1", accounts)
	}
	if accounts[0].Balance != 10_000_000 {
		t.Errorf("balance = %d", accounts[0].Balance)
	}
}

func TestNewClientStripsBearerPrefix(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("Authorization = %q", got)
		}
		w.Write([]byte(`{"data":{"budgets":[]}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL+"/", " Bearer token-123 ", "b1")
	if _, err := c.Budgets(); err != nil {
		t.Fatalf("Budgets: %v", err)
	}
}

func TestErrorResponseIncludesBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"id":"401"}}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "bad", "b1")
	_, err := c.Accounts()
	if err == nil {
		t.Fatal("expected error on 401")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("error = %v, want status 401 mentioned", err)
	}
}

func TestTransactionsSinceDateQuery(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("since_date"); got != "2026-01-01" {
			t.Errorf("since_date = %q", got)
		}
		w.Write([]byte(`{"data":{"transactions":[{"id":"t1","account_id":"a1","date":"2026-01-02","amount":-45000}]}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "token", "b1")
	txs, err := c.Transactions("2026-01-01")
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != -45_000 {
		t.Errorf("transactions = %+v", txs)
	}
}
