package model

import "time"

// LookupItem is a flat named entity: banks, account types, asset types,
// liability types, payment methods, points programs.
type LookupItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TreeItem is a named entity that may nest under a parent of the same kind
// (managed categories/payees, rewards categories/payees).
type TreeItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
}

// AccountDetails holds the manual data attached to a YNAB account,
// including its allocation rule list.
type AccountDetails struct {
	ID                string           `json:"id"`
	BankID            string           `json:"bank_id,omitempty"`
	AccountTypeID     string           `json:"account_type_id,omitempty"`
	Last4Digits       string           `json:"last_4_digits,omitempty"`
	IncludeBankInName bool             `json:"include_bank_in_name"`
	AllocationRules   []AllocationRule `json:"allocation_rules"`
	Notes             string           `json:"notes,omitempty"`
	LastUpdated       time.Time        `json:"last_updated,omitempty"`
}

// Asset is a manually tracked asset (brokerage position, retirement plan).
// Value is in milliunits.
type Asset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TypeID      string    `json:"asset_type_id,omitempty"`
	BankID      string    `json:"bank_id,omitempty"`
	Symbol      string    `json:"symbol,omitempty"`
	Shares      float64   `json:"shares,omitempty"`
	Value       int64     `json:"value_milliunits"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// Liability is a debt tracked manually or mirrored from YNAB.
// Value is in milliunits and non-negative (the owed amount).
type Liability struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	TypeID       string    `json:"liability_type_id,omitempty"`
	BankID       string    `json:"bank_id,omitempty"`
	InterestRate float64   `json:"interest_rate,omitempty"`
	StartDate    string    `json:"start_date,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	IsYNAB       bool      `json:"is_ynab"`
	Value        int64     `json:"value_milliunits"`
	LastUpdated  time.Time `json:"last_updated,omitempty"`
}

// CreditCard holds credit-card metadata and reward settings.
// CreditLimit and AnnualFee are in milliunits.
type CreditCard struct {
	ID                string    `json:"id"`
	Name              string    `json:"card_name"`
	BankID            string    `json:"bank_id,omitempty"`
	IncludeBankInName bool      `json:"include_bank_in_name"`
	Last4Digits       string    `json:"last_4_digits,omitempty"`
	ExpirationDate    string    `json:"expiration_date,omitempty"`
	AutoPayDay1       int       `json:"auto_pay_day_1,omitempty"`
	AutoPayDay2       int       `json:"auto_pay_day_2,omitempty"`
	CreditLimit       int64     `json:"credit_limit_milliunits,omitempty"`
	AnnualFee         int64     `json:"annual_fee_milliunits,omitempty"`
	PaymentMethodIDs  []string  `json:"payment_method_ids,omitempty"`
	BaseRate          float64   `json:"base_rate"`
	RewardSystem      string    `json:"reward_system,omitempty"`
	PointsProgramID   string    `json:"points_program_id,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	LastUpdated       time.Time `json:"last_updated,omitempty"`
}

// BudgetAccount is an account as reported by the budgeting service.
// Balance is in milliunits and may be negative for liability accounts.
type BudgetAccount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	OnBudget bool   `json:"on_budget"`
	Closed   bool   `json:"closed"`
	Balance  int64  `json:"balance"`
}

// Budget identifies a budget in the budgeting service.
type Budget struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	LastModifiedOn string `json:"last_modified_on,omitempty"`
}

// Transaction mirrors a budgeting-service transaction. Amount is in
// milliunits, negative for outflows.
type Transaction struct {
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

// ScheduledTransaction mirrors an upcoming budgeting-service transaction.
type ScheduledTransaction struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	DateNext  string `json:"date_next"`
	Frequency string `json:"frequency,omitempty"`
	Amount    int64  `json:"amount"`
	PayeeName string `json:"payee_name,omitempty"`
	Memo      string `json:"memo,omitempty"`
}

// NetWorthSnapshot is a point-in-time record of tier totals and net worth.
// All amounts are in milliunits.
type NetWorthSnapshot struct {
	Time        time.Time `json:"time"`
	Liquid      int64     `json:"liquid_milliunits"`
	Frozen      int64     `json:"frozen_milliunits"`
	DeepFreeze  int64     `json:"deep_freeze_milliunits"`
	Assets      int64     `json:"assets_milliunits"`
	Liabilities int64     `json:"liabilities_milliunits"`
	NetWorth    int64     `json:"net_worth_milliunits"`
}
