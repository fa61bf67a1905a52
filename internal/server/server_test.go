package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"FinanceAssistant/internal/model"
	"FinanceAssistant/internal/scheduler"
	"FinanceAssistant/internal/store"
	"FinanceAssistant/internal/ynab"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	src := &ynab.StaticSource{
		AccountList: []model.BudgetAccount{
			{ID: "a1", Name: "Main Savings", Type: "savings", OnBudget: true, Balance: 10_000_000},
			{ID: "a2", Name: "Checking", Type: "checking", OnBudget: true, Balance: 2_345_670},
		},
	}
	sched := scheduler.NewScheduler(context.Background(), src, st)
	srv := NewServer(":0", st, src, sched, "$")
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return srv, ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	var body map[string]string
	if status := getJSON(t, ts.URL+"/api/health", &body); status != http.StatusOK {
		t.Fatalf("health status = %d", status)
	}
	if body["status"] != "ok" || body["source"] != "static" {
		t.Errorf("health body = %v", body)
	}
}

func TestListAccountsComputesAllocations(t *testing.T) {
	_, ts := newTestServer(t)

	var views []accountView
	if status := getJSON(t, ts.URL+"/api/accounts", &views); status != http.StatusOK {
		t.Fatalf("accounts status = %d", status)
	}
	if len(views) != 2 {
		t.Fatalf("got %d accounts, want 2", len(views))
	}

	byID := map[string]accountView{}
	for _, v := range views {
		byID[v.ID] = v
	}
	savings := byID["a1"]
	if savings.Allocation == nil {
		t.Fatal("savings account has no allocation")
	}
	if savings.Allocation.Frozen != 10_000_000 {
		t.Errorf("savings Frozen = %d, want 10000000", savings.Allocation.Frozen)
	}
	if savings.BalanceDisplay != "$10,000.00" {
		t.Errorf("BalanceDisplay = %q", savings.BalanceDisplay)
	}
	checking := byID["a2"]
	if checking.Allocation == nil || checking.Allocation.Liquid != 2_345_670 {
		t.Errorf("checking allocation = %+v", checking.Allocation)
	}
}

func TestSaveAccountDetailsRejectsBadRules(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name  string
		rules []map[string]any
	}{
		{"duplicate remaining", []map[string]any{
			{"id": "r1", "type": "remaining", "status": "Liquid"},
			{"id": "r2", "type": "remaining", "status": "Frozen"},
		}},
		{"negative fixed", []map[string]any{
			{"id": "r1", "type": "fixed", "value": "-50", "status": "Frozen"},
		}},
		{"percentage over 100", []map[string]any{
			{"id": "r1", "type": "percentage", "value": "150", "status": "Frozen"},
		}},
	}
	for _, tt := range tests {
		body := map[string]any{"allocation_rules": tt.rules}
		status := doJSON(t, http.MethodPut, ts.URL+"/api/accounts/a1", body, nil)
		if status != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, status)
		}
	}
}

func TestSaveAccountDetailsRoundTrip(t *testing.T) {
	_, ts := newTestServer(t)

	body := map[string]any{
		"allocation_rules": []map[string]any{
			{"id": "r1", "name": "Buffer", "type": "fixed", "value": "2000", "status": "Frozen"},
			{"id": "remaining", "name": "Remaining", "type": "remaining", "status": "Deep Freeze"},
		},
	}
	if status := doJSON(t, http.MethodPut, ts.URL+"/api/accounts/a1", body, nil); status != http.StatusOK {
		t.Fatalf("save details status = %d", status)
	}

	var details model.AccountDetails
	if status := getJSON(t, ts.URL+"/api/accounts/a1", &details); status != http.StatusOK {
		t.Fatalf("get details status = %d", status)
	}
	if len(details.AllocationRules) != 2 {
		t.Fatalf("got %d rules, want 2", len(details.AllocationRules))
	}

	// The accounts list must now allocate the savings balance per the
	// saved rules: 2000 major fixed to Frozen, rest into Deep Freeze.
	var views []accountView
	getJSON(t, ts.URL+"/api/accounts", &views)
	for _, v := range views {
		if v.ID != "a1" {
			continue
		}
		if v.Allocation == nil {
			t.Fatal("no allocation for a1")
		}
		if v.Allocation.Frozen != 2_000_000 || v.Allocation.DeepFreeze != 8_000_000 {
			t.Errorf("allocation = %+v, want Frozen 2000000 DeepFreeze 8000000", v.Allocation)
		}
	}
}

func TestLookupLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	var bank model.LookupItem
	status := doJSON(t, http.MethodPost, ts.URL+"/api/lookups/banks", map[string]string{"name": "Chase"}, &bank)
	if status != http.StatusCreated {
		t.Fatalf("add bank status = %d", status)
	}

	if status := doJSON(t, http.MethodPost, ts.URL+"/api/lookups/banks", map[string]string{"name": "chase"}, nil); status != http.StatusConflict {
		t.Errorf("duplicate bank status = %d, want 409", status)
	}

	var renamed model.LookupItem
	url := fmt.Sprintf("%s/api/lookups/banks/%s", ts.URL, bank.ID)
	if status := doJSON(t, http.MethodPut, url, map[string]string{"name": "Chase Bank"}, &renamed); status != http.StatusOK {
		t.Fatalf("rename status = %d", status)
	}
	if renamed.Name != "Chase Bank" {
		t.Errorf("renamed to %q", renamed.Name)
	}

	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", status)
	}

	if status := getJSON(t, ts.URL+"/api/lookups/nonsense", nil); status != http.StatusNotFound {
		t.Errorf("unknown kind status = %d, want 404", status)
	}
}

func TestAssetLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	var asset model.Asset
	status := doJSON(t, http.MethodPost, ts.URL+"/api/assets",
		map[string]any{"name": "Index Fund", "value_milliunits": 3_000_000}, &asset)
	if status != http.StatusCreated {
		t.Fatalf("create asset status = %d", status)
	}
	if asset.ID == "" {
		t.Fatal("created asset has no id")
	}

	if status := doJSON(t, http.MethodPost, ts.URL+"/api/assets", map[string]any{"value_milliunits": 1}, nil); status != http.StatusBadRequest {
		t.Errorf("nameless asset status = %d, want 400", status)
	}

	url := ts.URL + "/api/assets/" + asset.ID
	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusNoContent {
		t.Errorf("delete asset status = %d", status)
	}
	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusNotFound {
		t.Errorf("double delete status = %d, want 404", status)
	}
}

func TestTreeEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	var root model.TreeItem
	status := doJSON(t, http.MethodPost, ts.URL+"/api/trees/managed_categories",
		map[string]string{"name": "Dining"}, &root)
	if status != http.StatusCreated {
		t.Fatalf("add root status = %d", status)
	}
	var child model.TreeItem
	status = doJSON(t, http.MethodPost, ts.URL+"/api/trees/managed_categories",
		map[string]string{"name": "Coffee", "parent_id": root.ID}, &child)
	if status != http.StatusCreated {
		t.Fatalf("add child status = %d", status)
	}

	// Moving the root under its own child must be refused.
	url := fmt.Sprintf("%s/api/trees/managed_categories/%s", ts.URL, root.ID)
	status = doJSON(t, http.MethodPut, url, map[string]string{"name": "Dining", "parent_id": child.ID}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("cycle reparent status = %d, want 400", status)
	}

	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusConflict {
		t.Errorf("delete parent status = %d, want 409", status)
	}
}

func TestCreateTransaction(t *testing.T) {
	_, ts := newTestServer(t)

	var created model.Transaction
	status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions",
		map[string]any{"account_id": "a2", "date": "2026-08-27", "amount": -45_000, "payee_name": "Grocer"}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create transaction status = %d", status)
	}
	if created.ID == "" || created.Amount != -45_000 {
		t.Errorf("created = %+v", created)
	}

	if status := doJSON(t, http.MethodPost, ts.URL+"/api/transactions", map[string]any{"amount": 1}, nil); status != http.StatusBadRequest {
		t.Errorf("incomplete transaction status = %d, want 400", status)
	}

	var txs []model.Transaction
	if status := getJSON(t, ts.URL+"/api/transactions?since_date=2026-08-01", &txs); status != http.StatusOK {
		t.Fatalf("list transactions status = %d", status)
	}
	if len(txs) != 1 {
		t.Errorf("got %d transactions, want 1", len(txs))
	}
}

func TestNetWorthEndpoints(t *testing.T) {
	_, ts := newTestServer(t)

	var snap model.NetWorthSnapshot
	if status := doJSON(t, http.MethodPost, ts.URL+"/api/networth/snapshot", nil, &snap); status != http.StatusCreated {
		t.Fatalf("take snapshot status = %d", status)
	}
	if snap.NetWorth != 12_345_670 {
		t.Errorf("NetWorth = %d, want 12345670", snap.NetWorth)
	}

	var view netWorthView
	if status := getJSON(t, ts.URL+"/api/networth", &view); status != http.StatusOK {
		t.Fatalf("networth status = %d", status)
	}
	if view.NetWorthDisplay != "$12,345.67" {
		t.Errorf("NetWorthDisplay = %q", view.NetWorthDisplay)
	}

	var history []model.NetWorthSnapshot
	if status := getJSON(t, ts.URL+"/api/networth/history", &history); status != http.StatusOK {
		t.Fatalf("history status = %d", status)
	}
	if len(history) != 1 {
		t.Errorf("history length = %d, want 1", len(history))
	}
}
