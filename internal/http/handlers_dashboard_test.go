package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func seedDashboardData(t *testing.T, ts *httptest.Server, token string) {
	t.Helper()

	for _, payload := range []map[string]string{
		{"date": "2023-12-20", "description": "dinner", "amount": "5.00", "flow": "Outflow", "category": "Food", "payment_method": "Cash"},
		{"date": "2024-01-05", "description": "groceries", "amount": "20.00", "flow": "Outflow", "category": "Food", "payment_method": "Cash"},
		{"date": "2024-01-10", "description": "salary", "amount": "100.00", "flow": "Inflow", "category": "Salary", "payment_method": "Bank Account"},
	} {
		createActivity(t, ts, token, payload)
	}
}

func getDashboard(t *testing.T, ts *httptest.Server, token, query string) map[string]any {
	t.Helper()

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/dashboard"+query, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard status = %d, body = %v", resp.StatusCode, body)
	}
	return body
}

func TestDashboardPeriodSummary(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")
	seedDashboardData(t, ts, token)

	body := getDashboard(t, ts, token, "?start=2024-01-01&end=2024-01-31")

	if body["beginning_balance"] != "-5.00" {
		t.Errorf("beginning_balance = %v, want -5.00", body["beginning_balance"])
	}
	if body["ending_balance"] != "75.00" {
		t.Errorf("ending_balance = %v, want 75.00", body["ending_balance"])
	}

	balances, _ := body["account_balances"].(map[string]any)
	if balances["Cash"] != "-25.00" {
		t.Errorf("Cash balance = %v, want -25.00", balances["Cash"])
	}
	if balances["Bank Account"] != "100.00" {
		t.Errorf("Bank Account balance = %v, want 100.00", balances["Bank Account"])
	}
}

func TestDashboardCategorySummary(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")
	seedDashboardData(t, ts, token)

	body := getDashboard(t, ts, token, "?start=2024-01-01&end=2024-01-31")

	categories, _ := body["categories"].([]any)
	if len(categories) != 2 {
		t.Fatalf("categories = %v, want 2 entries", categories)
	}
	// Sorted by magnitude descending.
	first, _ := categories[0].(map[string]any)
	if first["category"] != "Salary" || first["amount"] != "100.00" || first["flow"] != "Inflow" {
		t.Errorf("first category = %v", first)
	}
	second, _ := categories[1].(map[string]any)
	if second["category"] != "Food" || second["amount"] != "20.00" || second["flow"] != "Outflow" {
		t.Errorf("second category = %v", second)
	}
}

func TestDashboardFilters(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")
	seedDashboardData(t, ts, token)

	// The filter runs over the full history: both Food entries match even
	// though the December one falls outside the period.
	body := getDashboard(t, ts, token, "?start=2024-01-01&end=2024-01-31&category=Food")
	recent, _ := body["recent_activities"].([]any)
	if len(recent) != 2 {
		t.Fatalf("recent = %v, want 2 Food entries", recent)
	}
	first, _ := recent[0].(map[string]any)
	if first["date"] != "2024-01-05" {
		t.Errorf("newest Food entry date = %v, want 2024-01-05", first["date"])
	}

	body = getDashboard(t, ts, token, "?start=2024-01-01&end=2024-01-31&payment_method=Bank+Account")
	recent, _ = body["recent_activities"].([]any)
	if len(recent) != 1 {
		t.Errorf("recent = %v, want 1 Bank Account entry", recent)
	}
}

func TestDashboardFilterBoundsIndependentOfPeriod(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")
	seedDashboardData(t, ts, token)

	// The filter's own from bound trims the December entry; the period
	// summary still covers January.
	body := getDashboard(t, ts, token, "?start=2024-01-01&end=2024-01-31&category=Food&from=2024-01-01")
	recent, _ := body["recent_activities"].([]any)
	if len(recent) != 1 {
		t.Fatalf("recent = %v, want 1 Food entry from 2024", recent)
	}
	only, _ := recent[0].(map[string]any)
	if only["date"] != "2024-01-05" {
		t.Errorf("filtered entry date = %v, want 2024-01-05", only["date"])
	}
	if body["ending_balance"] != "75.00" {
		t.Errorf("ending_balance = %v, want 75.00", body["ending_balance"])
	}

	// A to bound keeps only the December entry.
	body = getDashboard(t, ts, token, "?start=2024-01-01&end=2024-01-31&category=Food&to=2023-12-31")
	recent, _ = body["recent_activities"].([]any)
	if len(recent) != 1 {
		t.Fatalf("recent = %v, want 1 Food entry from 2023", recent)
	}
	only, _ = recent[0].(map[string]any)
	if only["date"] != "2023-12-20" {
		t.Errorf("filtered entry date = %v, want 2023-12-20", only["date"])
	}
}

func TestDashboardInvertedRange(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")
	seedDashboardData(t, ts, token)

	body := getDashboard(t, ts, token, "?start=2024-01-31&end=2024-01-01")
	if body["beginning_balance"] != body["ending_balance"] {
		t.Errorf("inverted range balances differ: %v vs %v",
			body["beginning_balance"], body["ending_balance"])
	}
	// The recent list is period-independent and still shows the history.
	if recent, _ := body["recent_activities"].([]any); len(recent) != 3 {
		t.Errorf("recent = %v, want full history", recent)
	}
}

func TestDashboardRejectsBadParams(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")

	for _, query := range []string{"?start=bogus", "?end=31-01-2024", "?from=bogus", "?to=31-01-2024", "?limit=-1", "?limit=ten"} {
		resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/dashboard"+query, token, nil)
		if resp.StatusCode != http.StatusUnprocessableEntity {
			t.Errorf("dashboard%s status = %d, want 422", query, resp.StatusCode)
		}
	}
}

func TestDashboardCacheInvalidation(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")
	seedDashboardData(t, ts, token)

	query := "?start=2024-01-01&end=2024-01-31"
	before := getDashboard(t, ts, token, query)
	if before["ending_balance"] != "75.00" {
		t.Fatalf("ending_balance = %v, want 75.00", before["ending_balance"])
	}

	// A mutation must drop the cached view.
	createActivity(t, ts, token, map[string]string{
		"date": "2024-01-15", "description": "cinema", "amount": "10.00",
		"flow": "Outflow", "category": "Entertainment", "payment_method": "Cash",
	})

	after := getDashboard(t, ts, token, query)
	if after["ending_balance"] != "65.00" {
		t.Errorf("ending_balance after mutation = %v, want 65.00", after["ending_balance"])
	}
}
