package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"outgo/internal/auth"
	"outgo/internal/log"
	"outgo/internal/services"
	"outgo/internal/store/memory"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := memory.NewStore()
	logger := log.New(log.DefaultConfig())
	tokens := auth.NewTokenIssuer("test-secret-at-least-16", time.Hour)
	authSvc := auth.NewService(st, st, tokens, logger)
	activitySvc := services.NewActivityService(st, nil, logger)

	srv := NewServer("127.0.0.1:0", activitySvc, authSvc, Options{RequestsPerMinute: 1000})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(func() {
		ts.Close()
		_ = srv.Shutdown(context.Background())
	})
	return ts
}

func doJSON(t *testing.T, method, url, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func signupUser(t *testing.T, ts *httptest.Server, name, email string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "hunter2222",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status = %d, body = %v", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("signup returned no token")
	}
	return token
}

func createActivity(t *testing.T, ts *httptest.Server, token string, payload map[string]string) map[string]any {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/activities", token, payload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create activity status = %d, body = %v", resp.StatusCode, body)
	}
	return body
}

func TestSignupLoginFlow(t *testing.T) {
	ts := newTestServer(t)

	signupUser(t, ts, "mario", "mario@example.com")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "mario@example.com",
		"password": "hunter2222",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body = %v", resp.StatusCode, body)
	}
	if body["token"] == "" {
		t.Error("login returned no token")
	}

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/auth/login", "", map[string]string{
		"email":    "mario@example.com",
		"password": "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("login with wrong password status = %d, want 401", resp.StatusCode)
	}
}

func TestSignupValidation(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name    string
		payload map[string]string
		want    int
	}{
		{"missing name", map[string]string{"email": "a@example.com", "password": "hunter2222"}, http.StatusUnprocessableEntity},
		{"bad email", map[string]string{"name": "mario", "email": "nope", "password": "hunter2222"}, http.StatusUnprocessableEntity},
		{"short password", map[string]string{"name": "mario", "email": "a@example.com", "password": "short"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/signup", "", tt.payload)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestDuplicateSignupConflicts(t *testing.T) {
	ts := newTestServer(t)

	signupUser(t, ts, "mario", "mario@example.com")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/auth/signup", "", map[string]string{
		"name":     "luigi",
		"email":    "mario@example.com",
		"password": "hunter2222",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate email status = %d, want 409", resp.StatusCode)
	}
}

func TestActivitiesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, url := range []string{"/api/activities", "/api/categories", "/api/payment-methods", "/api/dashboard"} {
		resp, _ := doJSON(t, http.MethodGet, ts.URL+url, "", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token status = %d, want 401", url, resp.StatusCode)
		}
	}

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/activities", "not-a-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET with garbage token status = %d, want 401", resp.StatusCode)
	}
}

func TestCreateAndListActivities(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")

	created := createActivity(t, ts, token, map[string]string{
		"date":           "2024-01-05",
		"description":    "groceries",
		"amount":         "20.00",
		"flow":           "Outflow",
		"category":       "Food",
		"payment_method": "Cash",
	})
	if created["amount"] != "20.00" || created["flow"] != "Outflow" {
		t.Errorf("created = %v", created)
	}

	createActivity(t, ts, token, map[string]string{
		"date":           "2024-01-10",
		"description":    "salary",
		"amount":         "1000.00",
		"flow":           "Inflow",
		"category":       "Salary",
		"payment_method": "Bank Account",
	})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/activities", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	activities, _ := body["activities"].([]any)
	if len(activities) != 2 {
		t.Fatalf("listed %d activities, want 2", len(activities))
	}
	// Newest first.
	first, _ := activities[0].(map[string]any)
	if first["date"] != "2024-01-10" {
		t.Errorf("first activity date = %v, want 2024-01-10", first["date"])
	}
}

func TestCreateActivityValidation(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{"bad date", map[string]string{"date": "05/01/2024", "description": "x", "amount": "1.00", "flow": "Outflow", "category": "Food", "payment_method": "Cash"}},
		{"zero amount", map[string]string{"date": "2024-01-05", "description": "x", "amount": "0", "flow": "Outflow", "category": "Food", "payment_method": "Cash"}},
		{"signed amount", map[string]string{"date": "2024-01-05", "description": "x", "amount": "-1.00", "flow": "Outflow", "category": "Food", "payment_method": "Cash"}},
		{"bad flow", map[string]string{"date": "2024-01-05", "description": "x", "amount": "1.00", "flow": "sideways", "category": "Food", "payment_method": "Cash"}},
		{"empty description", map[string]string{"date": "2024-01-05", "description": "", "amount": "1.00", "flow": "Outflow", "category": "Food", "payment_method": "Cash"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/activities", token, tt.payload)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", resp.StatusCode)
			}
		})
	}
}

func TestUpdateAndDeleteActivity(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")

	created := createActivity(t, ts, token, map[string]string{
		"date":           "2024-01-05",
		"description":    "groceries",
		"amount":         "20.00",
		"flow":           "Outflow",
		"category":       "Food",
		"payment_method": "Cash",
	})
	id := int64(created["id"].(float64))

	url := fmt.Sprintf("%s/api/activities/%d", ts.URL, id)
	resp, body := doJSON(t, http.MethodPut, url, token, map[string]string{
		"date":           "2024-01-06",
		"description":    "weekly groceries",
		"amount":         "25.00",
		"flow":           "Outflow",
		"category":       "Food",
		"payment_method": "Cash",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body = %v", resp.StatusCode, body)
	}
	if body["description"] != "weekly groceries" || body["amount"] != "25.00" {
		t.Errorf("updated = %v", body)
	}

	resp, _ = doJSON(t, http.MethodDelete, url, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, url, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestActivitiesAreScopedPerUser(t *testing.T) {
	ts := newTestServer(t)
	marioToken := signupUser(t, ts, "mario", "mario@example.com")
	luigiToken := signupUser(t, ts, "luigi", "luigi@example.com")

	created := createActivity(t, ts, marioToken, map[string]string{
		"date":           "2024-01-05",
		"description":    "groceries",
		"amount":         "20.00",
		"flow":           "Outflow",
		"category":       "Food",
		"payment_method": "Cash",
	})
	id := int64(created["id"].(float64))

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/activities", luigiToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	if activities, _ := body["activities"].([]any); len(activities) != 0 {
		t.Errorf("luigi sees %d of mario's activities", len(activities))
	}

	url := fmt.Sprintf("%s/api/activities/%d", ts.URL, id)
	resp, _ = doJSON(t, http.MethodDelete, url, luigiToken, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("cross-user delete status = %d, want 404", resp.StatusCode)
	}
}

func TestTaxonomyEndpoints(t *testing.T) {
	ts := newTestServer(t)
	token := signupUser(t, ts, "mario", "mario@example.com")

	createActivity(t, ts, token, map[string]string{
		"date":           "2024-01-05",
		"description":    "groceries",
		"amount":         "20.00",
		"flow":           "Outflow",
		"category":       "Food",
		"payment_method": "Credit Card",
	})

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/categories", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categories status = %d", resp.StatusCode)
	}
	categories, _ := body["categories"].([]any)
	if len(categories) != 1 || categories[0] != "Food" {
		t.Errorf("categories = %v, want [Food]", categories)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/payment-methods", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("payment methods status = %d", resp.StatusCode)
	}
	// Cash is seeded at signup, Credit Card registered by the activity.
	methods, _ := body["payment_methods"].([]any)
	if len(methods) != 2 {
		t.Errorf("payment methods = %v, want [Cash Credit Card]", methods)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	var metrics map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		t.Fatalf("decode metrics: %v", err)
	}
	if _, ok := metrics["total_requests"]; !ok {
		t.Error("metrics missing total_requests")
	}
}
