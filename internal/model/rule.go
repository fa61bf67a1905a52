package model

import "github.com/shopspring/decimal"

// Tier classifies how accessible a slice of an account balance is.
type Tier string

const (
	TierLiquid     Tier = "Liquid"
	TierFrozen     Tier = "Frozen"
	TierDeepFreeze Tier = "Deep Freeze"
)

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierLiquid, TierFrozen, TierDeepFreeze:
		return true
	}
	return false
}

// RuleType identifies how an allocation rule consumes the balance.
type RuleType string

const (
	RuleFixed      RuleType = "fixed"
	RulePercentage RuleType = "percentage"
	RuleRemaining  RuleType = "remaining"
)

// RemainingRuleID is the id carried by the distinguished remaining-balance
// rule in stored rule lists.
const RemainingRuleID = "remaining"

// AllocationRule describes one step of an account's allocation waterfall.
// Value holds major currency units for fixed rules and a percentage in
// (0, 100] for percentage rules; it is nil for the remaining rule.
type AllocationRule struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Type   RuleType         `json:"type,omitempty"`
	Value  *decimal.Decimal `json:"value,omitempty"`
	Status Tier             `json:"status"`
}

// IsRemaining reports whether the rule is the remaining-balance rule, by
// type or by its sentinel id (older stored lists only carry the id).
func (r AllocationRule) IsRemaining() bool {
	return r.Type == RuleRemaining || r.ID == RemainingRuleID
}
