package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"FinanceAssistant/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultRules returns the allocation rule list seeded for an account of
// the given type: savings balances freeze by default, everything else is
// treated as liquid.
func DefaultRules(accountType string) []model.AllocationRule {
	hundred := decimal.NewFromInt(100)
	switch strings.ToLower(accountType) {
	case "savings":
		return []model.AllocationRule{
			{ID: "savings_frozen", Name: "Savings Frozen", Type: model.RulePercentage, Value: &hundred, Status: model.TierFrozen},
			{ID: model.RemainingRuleID, Name: "Remaining", Type: model.RuleRemaining, Status: model.TierFrozen},
		}
	case "cash":
		return []model.AllocationRule{
			{ID: "cash_liquid", Name: "Cash Liquid", Type: model.RulePercentage, Value: &hundred, Status: model.TierLiquid},
			{ID: model.RemainingRuleID, Name: "Remaining", Type: model.RuleRemaining, Status: model.TierLiquid},
		}
	default:
		return []model.AllocationRule{
			{ID: "checking_liquid", Name: "Checking Liquid", Type: model.RulePercentage, Value: &hundred, Status: model.TierLiquid},
			{ID: model.RemainingRuleID, Name: "Remaining", Type: model.RuleRemaining, Status: model.TierLiquid},
		}
	}
}

// repairRules normalizes a stored rule list: the remaining rule gets its
// canonical type, name and nil value and moves to the end of the list; a
// missing remaining rule is appended. Reports whether anything changed.
func repairRules(rules []model.AllocationRule, accountType string) ([]model.AllocationRule, bool) {
	remainingIdx := -1
	for i, r := range rules {
		if r.IsRemaining() {
			remainingIdx = i
			break
		}
	}

	if remainingIdx == -1 {
		defaults := DefaultRules(accountType)
		rules = append(rules, defaults[len(defaults)-1])
		return rules, true
	}

	r := rules[remainingIdx]
	changed := false
	if r.Type != model.RuleRemaining {
		r.Type = model.RuleRemaining
		changed = true
	}
	if r.Name != "Remaining" {
		r.Name = "Remaining"
		changed = true
	}
	if r.Value != nil {
		r.Value = nil
		changed = true
	}
	if !r.Status.Valid() {
		r.Status = model.TierLiquid
		changed = true
	}
	if remainingIdx != len(rules)-1 {
		rules = append(rules[:remainingIdx], rules[remainingIdx+1:]...)
		rules = append(rules, r)
		changed = true
	} else {
		rules[remainingIdx] = r
	}
	return rules, changed
}

// AccountDetails loads the manual details for a budgeting-service account.
// Unknown accounts get default rules for the given account type. Malformed
// rule lists are repaired and the repaired form written back.
func (s *Store) AccountDetails(accountID, accountType string) (*model.AccountDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		details   model.AccountDetails
		rulesJSON sql.NullString
		updated   sql.NullString
		bankID    sql.NullString
		typeID    sql.NullString
		last4     sql.NullString
		notes     sql.NullString
		include   int
	)
	err := s.db.QueryRow(
		`SELECT id, bank_id, account_type_id, last_4_digits, include_bank_in_name,
		        allocation_rules, notes, last_updated
		 FROM accounts WHERE id = ?`, accountID,
	).Scan(&details.ID, &bankID, &typeID, &last4, &include, &rulesJSON, &notes, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return &model.AccountDetails{
			ID:                accountID,
			IncludeBankInName: true,
			AllocationRules:   DefaultRules(accountType),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", accountID, err)
	}

	details.BankID = bankID.String
	details.AccountTypeID = typeID.String
	details.Last4Digits = last4.String
	details.Notes = notes.String
	details.IncludeBankInName = include != 0
	if updated.Valid {
		if t, err := time.Parse(time.RFC3339, updated.String); err == nil {
			details.LastUpdated = t
		}
	}

	var rules []model.AllocationRule
	if rulesJSON.Valid && rulesJSON.String != "" {
		if err := json.Unmarshal([]byte(rulesJSON.String), &rules); err != nil {
			log.Printf("[WARN] corrupted allocation rules for account %s, resetting: %v", accountID, err)
			rules = nil
		}
	}
	rules, repaired := repairRules(rules, accountType)
	details.AllocationRules = rules

	if repaired {
		raw, err := json.Marshal(rules)
		if err != nil {
			return nil, fmt.Errorf("encode repaired rules: %w", err)
		}
		if _, err := s.db.Exec(
			"UPDATE accounts SET allocation_rules = ? WHERE id = ?",
			string(raw), accountID,
		); err != nil {
			log.Printf("[WARN] save repaired rules for account %s: %v", accountID, err)
		}
	}

	return &details, nil
}

// SaveAccountDetails upserts the manual details for an account.
func (s *Store) SaveAccountDetails(details *model.AccountDetails) error {
	if details.ID == "" {
		return fmt.Errorf("account id is required: %w", ErrInvalid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(details.AllocationRules)
	if err != nil {
		return fmt.Errorf("encode allocation rules: %w", err)
	}
	details.LastUpdated = time.Now()
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO accounts
		 (id, bank_id, account_type_id, last_4_digits, include_bank_in_name,
		  allocation_rules, notes, last_updated)
		 VALUES (?,?,?,?,?,?,?,?)`,
		details.ID, nullable(details.BankID), nullable(details.AccountTypeID),
		nullable(details.Last4Digits), boolToInt(details.IncludeBankInName),
		string(raw), nullable(details.Notes), details.LastUpdated.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save account %s: %w", details.ID, err)
	}
	return nil
}

// DeleteAccountDetails removes the manual details for an account. Deleting
// an unknown account is not an error; the end state is the same.
func (s *Store) DeleteAccountDetails(accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec("DELETE FROM accounts WHERE id = ?", accountID); err != nil {
		return fmt.Errorf("delete account %s: %w", accountID, err)
	}
	return nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
