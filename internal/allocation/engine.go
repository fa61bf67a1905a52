// Package allocation implements the balance allocation waterfall: an
// account balance is partitioned across the Liquid, Frozen and Deep Freeze
// tiers by an ordered rule list. Fixed rules consume the balance first,
// then percentage rules draw on whatever the fixed rules left, and a single
// remaining rule absorbs the rest. Rule positions only matter within a
// type; a fixed rule stored after a percentage rule still evaluates first.
package allocation

import (
	"FinanceAssistant/internal/model"

	"github.com/shopspring/decimal"
)

// Allocate partitions totalBalance (milliunits) across the three tiers.
//
// It is a pure function: identical inputs always produce identical results.
// totalBalance is expected to be non-negative; a negative balance (a
// liability mirrored from the budgeting service) yields a zero allocation,
// and the caller should present the signed balance directly instead.
//
// The returned Remaining is 0 for any rule set containing a remaining rule
// and for the empty-list fallback; a positive value only ever signals a
// malformed rule set and is meant for display, not for control flow.
func Allocate(totalBalance int64, rs RuleSet) model.Allocation {
	var result model.Allocation
	remaining := totalBalance

	// Pass 1: fixed rules in list order, each clamped to what is left.
	for _, r := range rs.fixed {
		amount := min(r.amount, max(remaining, 0))
		if amount > 0 {
			credit(&result, r.tier, amount)
			remaining -= amount
		}
	}

	// Pass 2: percentage rules, computed against the balance after all
	// fixed rules, floored to whole milliunits, then clamped again.
	balanceAfterFixed := decimal.NewFromInt(remaining)
	for _, r := range rs.percentage {
		amount := balanceAfterFixed.Mul(r.pct).Div(oneHundred).IntPart()
		amount = min(amount, max(remaining, 0))
		if amount > 0 {
			credit(&result, r.tier, amount)
			remaining -= amount
		}
	}

	// The remaining rule absorbs the leftover; without one, leftover falls
	// to Liquid rather than being dropped.
	if remaining > 0 {
		tier := model.TierLiquid
		if rs.remaining != nil {
			tier = *rs.remaining
		}
		credit(&result, tier, remaining)
		remaining = 0
	}

	result.Remaining = max(remaining, 0)
	return result
}

// credit adds amount to the bucket named by tier.
func credit(a *model.Allocation, tier model.Tier, amount int64) {
	switch tier {
	case model.TierFrozen:
		a.Frozen += amount
	case model.TierDeepFreeze:
		a.DeepFreeze += amount
	default:
		a.Liquid += amount
	}
}
