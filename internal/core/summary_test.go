package core

import "testing"

func sampleActivities() []Activity {
	return []Activity{
		{ID: 1, Date: NewDate(2024, 1, 5), Description: "groceries", Amount: Money{Cents: -2000}, Category: "Food", PaymentMethod: "Cash"},
		{ID: 2, Date: NewDate(2024, 1, 10), Description: "january salary", Amount: Money{Cents: 10000}, Category: "Salary", PaymentMethod: "Bank"},
		{ID: 3, Date: NewDate(2023, 12, 20), Description: "snacks", Amount: Money{Cents: -500}, Category: "Food", PaymentMethod: "Cash"},
	}
}

func TestBalances(t *testing.T) {
	got := Balances(sampleActivities())
	if len(got) != 2 {
		t.Fatalf("expected 2 methods, got %d", len(got))
	}
	if got["Cash"].Cents != -2500 {
		t.Errorf("Cash = %d, want -2500", got["Cash"].Cents)
	}
	if got["Bank"].Cents != 10000 {
		t.Errorf("Bank = %d, want 10000", got["Bank"].Cents)
	}
}

func TestBalancesTotalMatchesInputSum(t *testing.T) {
	acts := sampleActivities()
	var want int64
	for _, a := range acts {
		want += a.Amount.Cents
	}
	var got int64
	for _, b := range Balances(acts) {
		got += b.Cents
	}
	if got != want {
		t.Fatalf("sum over methods = %d, want %d", got, want)
	}
}

func TestBalancesZeroNetMethodStillListed(t *testing.T) {
	acts := []Activity{
		{Date: NewDate(2024, 2, 1), Amount: Money{Cents: 300}, PaymentMethod: "PayPal"},
		{Date: NewDate(2024, 2, 2), Amount: Money{Cents: -300}, PaymentMethod: "PayPal"},
	}
	got := Balances(acts)
	b, ok := got["PayPal"]
	if !ok {
		t.Fatal("method with activity but zero net must appear")
	}
	if b.Cents != 0 {
		t.Fatalf("PayPal = %d, want 0", b.Cents)
	}
}

func TestBalancesEmptyInput(t *testing.T) {
	if got := Balances(nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestPeriodSummaryScenario(t *testing.T) {
	// The three-record scenario: -5 before the period, -20 and +100 inside.
	acts := []Activity{
		{Date: NewDate(2024, 1, 5), Amount: Money{Cents: -2000}, Category: "Food", PaymentMethod: "Cash"},
		{Date: NewDate(2024, 1, 10), Amount: Money{Cents: 10000}, Category: "Salary", PaymentMethod: "Bank"},
		{Date: NewDate(2023, 12, 20), Amount: Money{Cents: -500}, Category: "Food", PaymentMethod: "Cash"},
	}
	s := PeriodSummary(acts, NewDate(2024, 1, 1), NewDate(2024, 1, 31))
	if s.BeginningBalance.Cents != -500 {
		t.Errorf("beginning = %d, want -500", s.BeginningBalance.Cents)
	}
	if s.EndingBalance.Cents != 7500 {
		t.Errorf("ending = %d, want 7500", s.EndingBalance.Cents)
	}
	if len(s.Activities) != 2 {
		t.Fatalf("in-period count = %d, want 2", len(s.Activities))
	}
	for _, a := range s.Activities {
		if a.Date.Year() != 2024 {
			t.Errorf("unexpected activity %s in period", a.Date)
		}
	}
}

func TestPeriodSummaryEndingEqualsBeginningPlusFlow(t *testing.T) {
	acts := sampleActivities()
	ranges := []struct{ start, end Date }{
		{NewDate(2023, 1, 1), NewDate(2024, 12, 31)},
		{NewDate(2024, 1, 1), NewDate(2024, 1, 31)},
		{NewDate(2024, 1, 10), NewDate(2024, 1, 10)},
		{NewDate(2025, 1, 1), NewDate(2025, 1, 31)},
	}
	for i, r := range ranges {
		s := PeriodSummary(acts, r.start, r.end)
		var flow int64
		for _, a := range s.Activities {
			flow += a.Amount.Cents
		}
		if s.EndingBalance.Cents != s.BeginningBalance.Cents+flow {
			t.Errorf("range %d: ending %d != beginning %d + flow %d",
				i, s.EndingBalance.Cents, s.BeginningBalance.Cents, flow)
		}
	}
}

func TestPeriodSummarySingleDayRange(t *testing.T) {
	day := NewDate(2024, 1, 10)
	s := PeriodSummary(sampleActivities(), day, day)
	if len(s.Activities) != 1 {
		t.Fatalf("expected exactly the activity dated %s, got %d records", day, len(s.Activities))
	}
	if s.Activities[0].ID != 2 {
		t.Fatalf("wrong activity selected: id %d", s.Activities[0].ID)
	}
}

func TestPeriodSummaryInvertedRange(t *testing.T) {
	s := PeriodSummary(sampleActivities(), NewDate(2024, 1, 31), NewDate(2024, 1, 1))
	if len(s.Activities) != 0 {
		t.Fatalf("inverted range must select nothing, got %d", len(s.Activities))
	}
	if s.EndingBalance != s.BeginningBalance {
		t.Fatalf("ending %d must equal beginning %d for an inverted range",
			s.EndingBalance.Cents, s.BeginningBalance.Cents)
	}
}

func TestPeriodSummaryEmptyHistory(t *testing.T) {
	s := PeriodSummary(nil, NewDate(2024, 1, 1), NewDate(2024, 1, 31))
	if s.BeginningBalance.Cents != 0 || s.EndingBalance.Cents != 0 || len(s.Activities) != 0 {
		t.Fatalf("expected all-zero summary, got %+v", s)
	}
}

func TestCategorySummary(t *testing.T) {
	got := CategorySummary(sampleActivities())
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(got))
	}
	if got[0].Category != "Salary" || got[0].Amount.Cents != 10000 {
		t.Errorf("first entry = %+v, want Salary/10000", got[0])
	}
	if got[1].Category != "Food" || got[1].Amount.Cents != -2500 {
		t.Errorf("second entry = %+v, want Food/-2500", got[1])
	}
}

func TestCategorySummarySumInvariant(t *testing.T) {
	acts := sampleActivities()
	var want int64
	for _, a := range acts {
		want += a.Amount.Cents
	}
	var got int64
	for _, c := range CategorySummary(acts) {
		got += c.Amount.Cents
	}
	if got != want {
		t.Fatalf("category totals sum to %d, want %d", got, want)
	}
}

func TestCategorySummaryStableTieBreak(t *testing.T) {
	acts := []Activity{
		{Date: NewDate(2024, 3, 1), Amount: Money{Cents: 100}, Category: "Alpha"},
		{Date: NewDate(2024, 3, 2), Amount: Money{Cents: 100}, Category: "Beta"},
		{Date: NewDate(2024, 3, 3), Amount: Money{Cents: 200}, Category: "Gamma"},
	}
	got := CategorySummary(acts)
	if len(got) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(got))
	}
	if got[0].Category != "Gamma" {
		t.Errorf("got[0] = %s, want Gamma", got[0].Category)
	}
	// Alpha and Beta tie at 100; input order must hold.
	if got[1].Category != "Alpha" || got[2].Category != "Beta" {
		t.Errorf("tie order = %s, %s; want Alpha, Beta", got[1].Category, got[2].Category)
	}
}

func TestCategorySummaryEmpty(t *testing.T) {
	if got := CategorySummary(nil); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}

func TestCategorySummaryZeroNetKept(t *testing.T) {
	acts := []Activity{
		{Date: NewDate(2024, 4, 1), Amount: Money{Cents: 500}, Category: "Refunds"},
		{Date: NewDate(2024, 4, 2), Amount: Money{Cents: -500}, Category: "Refunds"},
	}
	got := CategorySummary(acts)
	if len(got) != 1 || got[0].Amount.Cents != 0 {
		t.Fatalf("zero-net category must stay listed, got %v", got)
	}
}

func TestActivityFilterByCategory(t *testing.T) {
	f := ActivityFilter{Category: "Food"}
	got := f.Apply(sampleActivities(), DefaultRecentLimit)
	if len(got) != 2 {
		t.Fatalf("expected 2 Food records, got %d", len(got))
	}
	// Sorted by date descending: 2024-01-05 before 2023-12-20.
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("wrong order: %d, %d", got[0].ID, got[1].ID)
	}
}

func TestActivityFilterDateBounds(t *testing.T) {
	from, _ := ParseDate("2024-01-01")
	f := ActivityFilter{From: from}
	got := f.Apply(sampleActivities(), 0)
	if len(got) != 2 {
		t.Fatalf("expected 2 records on/after 2024-01-01, got %d", len(got))
	}
	to, _ := ParseDate("2023-12-31")
	f = ActivityFilter{To: to}
	got = f.Apply(sampleActivities(), 0)
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected only the december record, got %v", got)
	}
}

func TestActivityFilterMethodAndTruncation(t *testing.T) {
	var acts []Activity
	for i := 1; i <= 15; i++ {
		acts = append(acts, Activity{
			ID:            int64(i),
			Date:          NewDate(2024, 1, i),
			Amount:        Money{Cents: -100},
			Category:      "Food",
			PaymentMethod: "Cash",
		})
	}
	got := ActivityFilter{PaymentMethod: "Cash"}.Apply(acts, DefaultRecentLimit)
	if len(got) != DefaultRecentLimit {
		t.Fatalf("expected %d records, got %d", DefaultRecentLimit, len(got))
	}
	if got[0].ID != 15 {
		t.Fatalf("newest first: got id %d", got[0].ID)
	}
	// Show-all path.
	if got := (ActivityFilter{}).Apply(acts, 0); len(got) != 15 {
		t.Fatalf("limit 0 must return everything, got %d", len(got))
	}
}

func TestActivityFilterDoesNotMutateInput(t *testing.T) {
	acts := sampleActivities()
	firstID := acts[0].ID
	_ = ActivityFilter{}.Apply(acts, 1)
	if acts[0].ID != firstID {
		t.Fatal("input slice order changed")
	}
}
