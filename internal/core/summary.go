package core

import "sort"

// DefaultRecentLimit caps the dashboard's recent-activity list unless the
// caller asks for everything.
const DefaultRecentLimit = 10

// CategoryAmount is a per-category net total.
type CategoryAmount struct {
	Category string
	Amount   Money
}

// Summary is a ledger statement for one period: the balance carried into the
// period, the balance at its close, and the activity inside it.
type Summary struct {
	BeginningBalance Money
	EndingBalance    Money
	Activities       []Activity
}

// Balances sums all amounts per payment method across all time. A method
// with at least one activity appears even when its net is zero; a method
// with no activity does not appear at all.
func Balances(activities []Activity) map[string]Money {
	balances := make(map[string]Money, 4)
	for _, a := range activities {
		b := balances[a.PaymentMethod]
		b.Cents += a.Amount.Cents
		balances[a.PaymentMethod] = b
	}
	return balances
}

// PeriodSummary computes the ledger statement for [start, end], both bounds
// inclusive at day granularity. The beginning balance is the sum of every
// activity dated strictly before start; the ending balance adds the
// in-period flow. An inverted range yields an empty subset and an ending
// balance equal to the beginning balance.
func PeriodSummary(activities []Activity, start, end Date) Summary {
	var s Summary
	for _, a := range activities {
		d := a.Date.Time
		switch {
		case d.Before(start.Time):
			s.BeginningBalance.Cents += a.Amount.Cents
		case !d.After(end.Time):
			s.Activities = append(s.Activities, a)
		}
	}
	s.EndingBalance = s.BeginningBalance
	for _, a := range s.Activities {
		s.EndingBalance.Cents += a.Amount.Cents
	}
	return s
}

// CategorySummary nets signed amounts per distinct category in the input,
// sorted by net amount descending. The sort is stable: categories with equal
// nets keep the order of their first appearance.
func CategorySummary(activities []Activity) []CategoryAmount {
	totals := make(map[string]int64, 8)
	var order []string
	for _, a := range activities {
		if _, seen := totals[a.Category]; !seen {
			order = append(order, a.Category)
		}
		totals[a.Category] += a.Amount.Cents
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryAmount{Category: cat, Amount: Money{Cents: totals[cat]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// ActivityFilter is the dashboard's ad-hoc secondary filter. Each field is
// optional; the zero value matches everything. Unlike the period summary it
// operates on the full history, not a period-bounded subset.
type ActivityFilter struct {
	Category      string
	PaymentMethod string
	From          Date
	To            Date
}

func (f ActivityFilter) matches(a Activity) bool {
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	if f.PaymentMethod != "" && a.PaymentMethod != f.PaymentMethod {
		return false
	}
	if !f.From.IsZero() && a.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && a.Date.After(f.To.Time) {
		return false
	}
	return true
}

// Apply returns the matching activities sorted by date descending, truncated
// to limit entries. A limit <= 0 means unlimited ("show all"). The input
// slice is never mutated.
func (f ActivityFilter) Apply(activities []Activity, limit int) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if f.matches(a) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
