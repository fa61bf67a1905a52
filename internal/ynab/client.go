// Package ynab talks to the YNAB v1 REST API. Amounts cross the wire in
// milliunits already, so no unit conversion happens here; closed accounts
// are filtered out before anything downstream sees them.
package ynab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"FinanceAssistant/internal/model"
)

// Client implements BudgetSource against the YNAB v1 API.
type Client struct {
	BaseURL  string
	BudgetID string
	apiKey   string
	Client   *http.Client
}

// NewClient creates a YNAB API client. A "Bearer " prefix on the key is
// stripped so either form can be configured.
func NewClient(baseURL, apiKey, budgetID string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	apiKey = strings.TrimPrefix(apiKey, "Bearer ")
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		BudgetID: budgetID,
		apiKey:   apiKey,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Name() string { return "ynab" }

// Wire shapes: every YNAB response nests its payload under "data".
type budgetsResponse struct {
	Data struct {
		Budgets []struct {
			ID             string `json:"id"`
			Name           string `json:"name"`
			LastModifiedOn string `json:"last_modified_on"`
		} `json:"budgets"`
	} `json:"data"`
}

type wireAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	OnBudget bool   `json:"on_budget"`
	Closed   bool   `json:"closed"`
	Balance  int64  `json:"balance"`
}

type wireTransaction struct {
	ID        string `json:"id,omitempty"`
	AccountID string `json:"account_id"`
	Date      string `json:"date"`
	Amount    int64  `json:"amount"`
	PayeeID   string `json:"payee_id,omitempty"`
	PayeeName string `json:"payee_name,omitempty"`
	Memo      string `json:"memo,omitempty"`
	Cleared   string `json:"cleared,omitempty"`
	Approved  bool   `json:"approved,omitempty"`
}

func (c *Client) Budgets() ([]model.Budget, error) {
	var resp budgetsResponse
	if err := c.get("/budgets", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch budgets: %w", err)
	}
	budgets := make([]model.Budget, len(resp.Data.Budgets))
	for i, b := range resp.Data.Budgets {
		budgets[i] = model.Budget{ID: b.ID, Name: b.Name, LastModifiedOn: b.LastModifiedOn}
	}
	return budgets, nil
}

func (c *Client) Accounts() ([]model.BudgetAccount, error) {
	var resp struct {
		Data struct {
			Accounts []wireAccount `json:"accounts"`
		} `json:"data"`
	}
	if err := c.get("/budgets/"+c.BudgetID+"/accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	var accounts []model.BudgetAccount
	for _, a := range resp.Data.Accounts {
		if a.Closed {
			continue
		}
		accounts = append(accounts, accountFromWire(a))
	}
	return accounts, nil
}

func (c *Client) AccountByID(accountID string) (*model.BudgetAccount, error) {
	var resp struct {
		Data struct {
			Account wireAccount `json:"account"`
		} `json:"data"`
	}
	if err := c.get("/budgets/"+c.BudgetID+"/accounts/"+accountID, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch account %s: %w", accountID, err)
	}
	acc := accountFromWire(resp.Data.Account)
	return &acc, nil
}

func (c *Client) Transactions(sinceDate string) ([]model.Transaction, error) {
	query := url.Values{}
	if sinceDate != "" {
		query.Set("since_date", sinceDate)
	}
	var resp struct {
		Data struct {
			Transactions []wireTransaction `json:"transactions"`
		} `json:"data"`
	}
	if err := c.get("/budgets/"+c.BudgetID+"/transactions", query, &resp); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	txs := make([]model.Transaction, len(resp.Data.Transactions))
	for i, tx := range resp.Data.Transactions {
		txs[i] = transactionFromWire(tx)
	}
	return txs, nil
}

func (c *Client) ScheduledTransactions() ([]model.ScheduledTransaction, error) {
	var resp struct {
		Data struct {
			ScheduledTransactions []struct {
				ID        string `json:"id"`
				AccountID string `json:"account_id"`
				DateNext  string `json:"date_next"`
				Frequency string `json:"frequency"`
				Amount    int64  `json:"amount"`
				PayeeName string `json:"payee_name"`
				Memo      string `json:"memo"`
			} `json:"scheduled_transactions"`
		} `json:"data"`
	}
	if err := c.get("/budgets/"+c.BudgetID+"/scheduled_transactions", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch scheduled transactions: %w", err)
	}
	scheduled := make([]model.ScheduledTransaction, len(resp.Data.ScheduledTransactions))
	for i, st := range resp.Data.ScheduledTransactions {
		scheduled[i] = model.ScheduledTransaction{
			ID:        st.ID,
			AccountID: st.AccountID,
			DateNext:  st.DateNext,
			Frequency: st.Frequency,
			Amount:    st.Amount,
			PayeeName: st.PayeeName,
			Memo:      st.Memo,
		}
	}
	return scheduled, nil
}

func (c *Client) CreateTransaction(tx model.Transaction) (*model.Transaction, error) {
	body := struct {
		Transaction wireTransaction `json:"transaction"`
	}{Transaction: wireTransaction{
		AccountID: tx.AccountID,
		Date:      tx.Date,
		Amount:    tx.Amount,
		PayeeID:   tx.PayeeID,
		PayeeName: tx.PayeeName,
		Memo:      tx.Memo,
	}}
	var resp struct {
		Data struct {
			Transaction wireTransaction `json:"transaction"`
		} `json:"data"`
	}
	if err := c.post("/budgets/"+c.BudgetID+"/transactions", body, &resp); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	created := transactionFromWire(resp.Data.Transaction)
	return &created, nil
}

func (c *Client) get(path string, query url.Values, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(respBody))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func accountFromWire(a wireAccount) model.BudgetAccount {
	return model.BudgetAccount{
		ID:       a.ID,
		Name:     a.Name,
		Type:     a.Type,
		OnBudget: a.OnBudget,
		Closed:   a.Closed,
		Balance:  a.Balance,
	}
}

func transactionFromWire(tx wireTransaction) model.Transaction {
	return model.Transaction{
		ID:        tx.ID,
		AccountID: tx.AccountID,
		Date:      tx.Date,
		Amount:    tx.Amount,
		PayeeID:   tx.PayeeID,
		PayeeName: tx.PayeeName,
		Memo:      tx.Memo,
		Cleared:   tx.Cleared,
		Approved:  tx.Approved,
	}
}
