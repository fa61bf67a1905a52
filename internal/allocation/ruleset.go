package allocation

import (
	"errors"
	"fmt"

	"FinanceAssistant/internal/currency"
	"FinanceAssistant/internal/model"

	"github.com/shopspring/decimal"
)

// Validation failures reported by NewRuleSet. These belong to the layer
// that edits rules; the engine itself never returns an error.
var (
	ErrDuplicateRemaining = errors.New("rule list has more than one remaining rule")
	ErrNegativeFixed      = errors.New("fixed rule value must be >= 0")
	ErrPercentageRange    = errors.New("percentage rule value must be in (0, 100]")
	ErrMissingValue       = errors.New("rule value is required")
	ErrUnknownTier        = errors.New("rule status is not a known tier")
)

var oneHundred = decimal.NewFromInt(100)

type fixedRule struct {
	tier   model.Tier
	amount int64 // milliunits
}

type percentageRule struct {
	tier model.Tier
	pct  decimal.Decimal
}

// RuleSet is a validated, type-partitioned view of an ordered rule list.
// Fixed and percentage rules keep their original relative order; at most
// one remaining rule exists, enforced at construction. A RuleSet is
// immutable once built.
type RuleSet struct {
	fixed      []fixedRule
	percentage []percentageRule
	remaining  *model.Tier
}

// NewRuleSet validates rules and partitions them by type. Fixed-rule values
// are converted from major units to milliunits here so the waterfall runs
// on integers only.
func NewRuleSet(rules []model.AllocationRule) (RuleSet, error) {
	var rs RuleSet
	for _, r := range rules {
		if r.IsRemaining() {
			if rs.remaining != nil {
				return RuleSet{}, fmt.Errorf("rule %q: %w", r.ID, ErrDuplicateRemaining)
			}
			tier := r.Status
			if tier == "" {
				tier = model.TierLiquid
			}
			if !tier.Valid() {
				return RuleSet{}, fmt.Errorf("rule %q: %w", r.ID, ErrUnknownTier)
			}
			rs.remaining = &tier
			continue
		}
		if !r.Status.Valid() {
			return RuleSet{}, fmt.Errorf("rule %q: %w", r.ID, ErrUnknownTier)
		}
		switch r.Type {
		case model.RuleFixed:
			if r.Value == nil {
				return RuleSet{}, fmt.Errorf("rule %q: %w", r.ID, ErrMissingValue)
			}
			if r.Value.IsNegative() {
				return RuleSet{}, fmt.Errorf("rule %q: %w", r.ID, ErrNegativeFixed)
			}
			rs.fixed = append(rs.fixed, fixedRule{
				tier:   r.Status,
				amount: currency.FromMajor(*r.Value),
			})
		case model.RulePercentage:
			if r.Value == nil {
				return RuleSet{}, fmt.Errorf("rule %q: %w", r.ID, ErrMissingValue)
			}
			if !r.Value.IsPositive() || r.Value.GreaterThan(oneHundred) {
				return RuleSet{}, fmt.Errorf("rule %q: %w", r.ID, ErrPercentageRange)
			}
			rs.percentage = append(rs.percentage, percentageRule{
				tier: r.Status,
				pct:  *r.Value,
			})
		default:
			return RuleSet{}, fmt.Errorf("rule %q: unknown rule type %q", r.ID, r.Type)
		}
	}
	return rs, nil
}

// HasRemaining reports whether the set carries a remaining-balance rule.
func (rs RuleSet) HasRemaining() bool { return rs.remaining != nil }

// Len returns the number of rules in the set.
func (rs RuleSet) Len() int {
	n := len(rs.fixed) + len(rs.percentage)
	if rs.remaining != nil {
		n++
	}
	return n
}
