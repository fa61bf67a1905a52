package allocation

import (
	"testing"

	"FinanceAssistant/internal/model"

	"github.com/shopspring/decimal"
)

func dec(v string) *decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return &d
}

func fixed(id, value string, tier model.Tier) model.AllocationRule {
	return model.AllocationRule{ID: id, Name: id, Type: model.RuleFixed, Value: dec(value), Status: tier}
}

func pct(id, value string, tier model.Tier) model.AllocationRule {
	return model.AllocationRule{ID: id, Name: id, Type: model.RulePercentage, Value: dec(value), Status: tier}
}

func remaining(tier model.Tier) model.AllocationRule {
	return model.AllocationRule{ID: model.RemainingRuleID, Name: "Remaining", Type: model.RuleRemaining, Status: tier}
}

func mustRuleSet(t *testing.T, rules ...model.AllocationRule) RuleSet {
	t.Helper()
	rs, err := NewRuleSet(rules)
	if err != nil {
		t.Fatalf("NewRuleSet: %v", err)
	}
	return rs
}

func TestAllocate_FixedThenRemaining(t *testing.T) {
	// $10,000 balance, $2,000 fixed to Frozen, rest to Deep Freeze.
	rs := mustRuleSet(t,
		fixed("emergency", "2000", model.TierFrozen),
		remaining(model.TierDeepFreeze),
	)
	got := Allocate(10_000_000, rs)
	want := model.Allocation{Frozen: 2_000_000, DeepFreeze: 8_000_000}
	if got != want {
		t.Errorf("Allocate = %+v, want %+v", got, want)
	}
}

func TestAllocate_PercentageSplit(t *testing.T) {
	// $1,000 balance, 50% to Liquid, remainder to Frozen.
	rs := mustRuleSet(t,
		pct("half", "50", model.TierLiquid),
		remaining(model.TierFrozen),
	)
	got := Allocate(1_000_000, rs)
	want := model.Allocation{Liquid: 500_000, Frozen: 500_000}
	if got != want {
		t.Errorf("Allocate = %+v, want %+v", got, want)
	}
}

func TestAllocate_FixedClampedToBalance(t *testing.T) {
	// Fixed rule exceeds the balance and no remaining rule exists: the rule
	// is clamped, nothing is left for the fallback.
	rs := mustRuleSet(t, fixed("big", "500", model.TierLiquid))
	got := Allocate(300_000, rs)
	want := model.Allocation{Liquid: 300_000}
	if got != want {
		t.Errorf("Allocate = %+v, want %+v", got, want)
	}
}

func TestAllocate_ZeroBalance(t *testing.T) {
	rs := mustRuleSet(t,
		fixed("f", "100", model.TierFrozen),
		pct("p", "50", model.TierDeepFreeze),
		remaining(model.TierLiquid),
	)
	if got := Allocate(0, rs); got != (model.Allocation{}) {
		t.Errorf("Allocate(0) = %+v, want all zero", got)
	}
}

func TestAllocate_EmptyRulesFallbackToLiquid(t *testing.T) {
	rs := mustRuleSet(t)
	got := Allocate(123_456, rs)
	want := model.Allocation{Liquid: 123_456}
	if got != want {
		t.Errorf("Allocate = %+v, want %+v", got, want)
	}
}

func TestAllocate_PercentageFlooring(t *testing.T) {
	// 33% of 10,001 milliunits floors to 3,300; the remainder absorbs the
	// truncation error so nothing is lost.
	rs := mustRuleSet(t,
		pct("third", "33", model.TierLiquid),
		remaining(model.TierFrozen),
	)
	got := Allocate(10_001, rs)
	want := model.Allocation{Liquid: 3_300, Frozen: 6_701}
	if got != want {
		t.Errorf("Allocate = %+v, want %+v", got, want)
	}
}

func TestAllocate_PercentagesUseBalanceAfterFixed(t *testing.T) {
	// 50% applies to the 900 left after the fixed rule, not the original 1000.
	rs := mustRuleSet(t,
		fixed("f", "0.1", model.TierFrozen), // 100 milliunits
		pct("p", "50", model.TierDeepFreeze),
		remaining(model.TierLiquid),
	)
	got := Allocate(1_000, rs)
	want := model.Allocation{Frozen: 100, DeepFreeze: 450, Liquid: 450}
	if got != want {
		t.Errorf("Allocate = %+v, want %+v", got, want)
	}
}

func TestAllocate_FixedOrderDecidesClamping(t *testing.T) {
	// Two fixed rules that together exceed the balance: the earlier one is
	// served in full, the later one is clamped.
	a := fixed("a", "7", model.TierFrozen)
	b := fixed("b", "7", model.TierDeepFreeze)

	got := Allocate(10_000, mustRuleSet(t, a, b))
	want := model.Allocation{Frozen: 7_000, DeepFreeze: 3_000}
	if got != want {
		t.Errorf("a-then-b = %+v, want %+v", got, want)
	}

	got = Allocate(10_000, mustRuleSet(t, b, a))
	want = model.Allocation{DeepFreeze: 7_000, Frozen: 3_000}
	if got != want {
		t.Errorf("b-then-a = %+v, want %+v", got, want)
	}
}

func TestAllocate_TypeOrderBeatsListOrder(t *testing.T) {
	// A fixed rule stored after a percentage rule still evaluates first.
	f := fixed("f", "2", model.TierFrozen)
	p := pct("p", "50", model.TierLiquid)
	r := remaining(model.TierDeepFreeze)

	first := Allocate(10_000, mustRuleSet(t, f, p, r))
	second := Allocate(10_000, mustRuleSet(t, p, f, r))
	if first != second {
		t.Errorf("list position changed the result: %+v vs %+v", first, second)
	}
	want := model.Allocation{Frozen: 2_000, Liquid: 4_000, DeepFreeze: 4_000}
	if first != want {
		t.Errorf("Allocate = %+v, want %+v", first, want)
	}
}

func TestAllocate_DuplicateTiersAccumulate(t *testing.T) {
	rs := mustRuleSet(t,
		fixed("a", "1", model.TierFrozen),
		fixed("b", "2", model.TierFrozen),
		remaining(model.TierFrozen),
	)
	got := Allocate(10_000, rs)
	want := model.Allocation{Frozen: 10_000}
	if got != want {
		t.Errorf("Allocate = %+v, want %+v", got, want)
	}
}

func TestAllocate_Conservation(t *testing.T) {
	rs := mustRuleSet(t,
		fixed("f1", "3.333", model.TierFrozen),
		pct("p1", "17", model.TierDeepFreeze),
		pct("p2", "41.5", model.TierLiquid),
		remaining(model.TierFrozen),
	)
	for _, balance := range []int64{0, 1, 999, 10_001, 123_457, 10_000_000} {
		got := Allocate(balance, rs)
		if got.Total() != balance {
			t.Errorf("balance %d: allocated %d, tiers %+v", balance, got.Total(), got)
		}
		if got.Remaining != 0 {
			t.Errorf("balance %d: unexpected remaining %d", balance, got.Remaining)
		}
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	rs := mustRuleSet(t,
		fixed("f", "5", model.TierFrozen),
		pct("p", "33", model.TierLiquid),
		remaining(model.TierDeepFreeze),
	)
	first := Allocate(98_765, rs)
	for i := 0; i < 10; i++ {
		if got := Allocate(98_765, rs); got != first {
			t.Fatalf("call %d differed: %+v vs %+v", i, got, first)
		}
	}
}

func TestAllocate_NegativeBalanceYieldsZeroAllocation(t *testing.T) {
	rs := mustRuleSet(t,
		fixed("f", "100", model.TierFrozen),
		pct("p", "50", model.TierLiquid),
		remaining(model.TierDeepFreeze),
	)
	if got := Allocate(-4_200, rs); got != (model.Allocation{}) {
		t.Errorf("Allocate(-4200) = %+v, want all zero", got)
	}
}
