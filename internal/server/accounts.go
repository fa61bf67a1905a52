package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"FinanceAssistant/internal/allocation"
	"FinanceAssistant/internal/currency"
	"FinanceAssistant/internal/model"
	"FinanceAssistant/internal/store"
)

// accountView is a budget account merged with its stored details and the
// allocation its rules produce against the live balance.
type accountView struct {
	model.BudgetAccount
	DisplayName    string                `json:"display_name"`
	BalanceDisplay string                `json:"balance_display"`
	Details        *model.AccountDetails `json:"details,omitempty"`
	Allocation     *model.Allocation     `json:"allocation,omitempty"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.Source.Accounts()
	if err != nil {
		writeError(w, http.StatusBadGateway, "fetch accounts: "+err.Error())
		return
	}

	views := make([]accountView, 0, len(accounts))
	for _, acct := range accounts {
		view := accountView{
			BudgetAccount:  acct,
			DisplayName:    acct.Name,
			BalanceDisplay: currency.Format(acct.Balance, s.Symbol),
		}

		details, err := s.Store.AccountDetails(acct.ID, strings.ToLower(acct.Type))
		if err != nil {
			log.Printf("[WARN] account details for %s: %v", acct.ID, err)
			views = append(views, view)
			continue
		}
		view.Details = details
		view.DisplayName = s.displayName(acct.Name, details)

		if acct.Balance > 0 {
			if rs, err := allocation.NewRuleSet(details.AllocationRules); err == nil {
				alloc := allocation.Allocate(acct.Balance, rs)
				view.Allocation = &alloc
			} else {
				log.Printf("[WARN] rules for account %s: %v", acct.ID, err)
			}
		}
		views = append(views, view)
	}
	writeJSON(w, http.StatusOK, views)
}

// displayName prefixes the bank name and suffixes the card digits when the
// details ask for it.
func (s *Server) displayName(name string, details *model.AccountDetails) string {
	out := name
	if details.IncludeBankInName && details.BankID != "" {
		if bank, err := s.Store.LookupName(store.Banks, details.BankID); err == nil {
			out = bank + " " + out
		}
	}
	if details.Last4Digits != "" {
		out = fmt.Sprintf("%s (…%s)", out, details.Last4Digits)
	}
	return out
}

func (s *Server) handleAccountDetails(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	acct, err := s.Source.AccountByID(id)
	accountType := ""
	if err == nil {
		accountType = strings.ToLower(acct.Type)
	}
	details, err := s.Store.AccountDetails(id, accountType)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleSaveAccountDetails(w http.ResponseWriter, r *http.Request) {
	var details model.AccountDetails
	if !decodeBody(w, r, &details) {
		return
	}
	details.ID = r.PathValue("id")

	// Reject rule lists the engine would refuse: duplicate remaining rules,
	// negative fixed amounts, percentages outside (0,100].
	if _, err := allocation.NewRuleSet(details.AllocationRules); err != nil {
		writeError(w, http.StatusBadRequest, "invalid allocation rules: "+err.Error())
		return
	}
	if err := s.Store.SaveAccountDetails(&details); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleDeleteAccountDetails(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteAccountDetails(r.PathValue("id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
