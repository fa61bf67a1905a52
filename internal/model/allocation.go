package model

// Allocation is the result of running an account balance through its
// allocation rules. All amounts are in milliunits.
//
// Remaining is always 0 for a well-formed rule set; a positive value means
// the rule list was malformed and is surfaced for display only.
type Allocation struct {
	Liquid     int64 `json:"liquid_milliunits"`
	Frozen     int64 `json:"frozen_milliunits"`
	DeepFreeze int64 `json:"deep_freeze_milliunits"`
	Remaining  int64 `json:"remaining_milliunits"`
}

// Total returns the sum of the three tier buckets.
func (a Allocation) Total() int64 {
	return a.Liquid + a.Frozen + a.DeepFreeze
}

// Add accumulates another allocation into a.
func (a *Allocation) Add(other Allocation) {
	a.Liquid += other.Liquid
	a.Frozen += other.Frozen
	a.DeepFreeze += other.DeepFreeze
	a.Remaining += other.Remaining
}
