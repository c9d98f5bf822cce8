package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"outgo/internal/core"
)

type categoryAmountView struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Flow     string `json:"flow"`
}

type dashboardResponse struct {
	From             string            `json:"from"`
	To               string            `json:"to"`
	BeginningBalance string            `json:"beginning_balance"`
	EndingBalance    string            `json:"ending_balance"`
	AccountBalances  map[string]string `json:"account_balances"`

	Categories []categoryAmountView `json:"categories"`
	Recent     []activityView       `json:"recent_activities"`

	AvailableCategories     []string `json:"available_categories"`
	AvailablePaymentMethods []string `json:"available_payment_methods"`
}

// dashboardQuery is the parsed, normalized form of the request parameters.
// It doubles as the cache key material. start/end bound the period summary;
// from/to belong to the secondary filter, which runs over the full history
// and is unbounded unless the caller says otherwise.
type dashboardQuery struct {
	start core.Date
	end   core.Date

	category      string
	paymentMethod string
	from          core.Date
	to            core.Date
	limit         int
}

func (q dashboardQuery) cacheKey(userID int64) string {
	return fmt.Sprintf("user:%d:%s|%s|%s|%s|%s|%s|%d",
		userID, q.start, q.end, q.category, q.paymentMethod, q.from, q.to, q.limit)
}

func parseQueryDate(params map[string][]string, name string) (core.Date, error) {
	values := params[name]
	if len(values) == 0 {
		return core.Date{}, nil
	}
	v := strings.TrimSpace(values[0])
	if v == "" {
		return core.Date{}, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

// parseDashboardQuery reads the request parameters. The period defaults to
// the current calendar month; the filter dates default to unbounded.
func parseDashboardQuery(r *http.Request) (dashboardQuery, error) {
	now := time.Now().UTC()
	q := dashboardQuery{
		start: core.NewDate(now.Year(), int(now.Month()), 1),
		end:   core.NewDate(now.Year(), int(now.Month())+1, 0),
		limit: core.DefaultRecentLimit,
	}

	params := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *core.Date
	}{
		{"start", &q.start},
		{"end", &q.end},
		{"from", &q.from},
		{"to", &q.to},
	} {
		d, err := parseQueryDate(params, p.name)
		if err != nil {
			return dashboardQuery{}, err
		}
		if !d.IsZero() {
			*p.dst = d
		}
	}

	q.category = sanitizeInput(params.Get("category"))
	q.paymentMethod = sanitizeInput(params.Get("payment_method"))

	if v := strings.TrimSpace(params.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return dashboardQuery{}, fmt.Errorf("limit: must be a non-negative integer")
		}
		q.limit = limit
	}
	if v := params.Get("all"); v == "true" || v == "1" {
		q.limit = 0
	}

	return q, nil
}

// handleDashboard assembles the aggregated view: period balances, category
// totals and the filtered recent list. Source data is fetched concurrently
// and the final response is cached per user and query.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session := sessionFrom(r.Context())

	query, err := parseDashboardQuery(r)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	key := query.cacheKey(session.UserID)
	if cached, ok := s.dashboardCache.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	var (
		activities []core.Activity
		categories []string
		methods    []string
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		activities, err = s.activities.List(ctx, session.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.activities.Categories(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		methods, err = s.activities.PaymentMethods(ctx, session.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		slog.ErrorContext(r.Context(), "dashboard fetch failed", "error", err, "user_id", session.UserID)
		writeError(w, http.StatusInternalServerError, "could not load dashboard")
		return
	}

	response := buildDashboard(activities, categories, methods, query)
	s.dashboardCache.Set(key, response)

	writeJSON(w, http.StatusOK, response)
}

func buildDashboard(activities []core.Activity, categories, methods []string, query dashboardQuery) dashboardResponse {
	summary := core.PeriodSummary(activities, query.start, query.end)

	balances := make(map[string]string, len(methods))
	for method, amount := range core.Balances(activities) {
		balances[method] = formatSignedCents(amount.Cents)
	}

	categoryTotals := core.CategorySummary(summary.Activities)
	categoryViews := make([]categoryAmountView, 0, len(categoryTotals))
	for _, ca := range categoryTotals {
		categoryViews = append(categoryViews, categoryAmountView{
			Category: ca.Category,
			Amount:   formatCents(ca.Amount.Magnitude()),
			Flow:     string(ca.Amount.Flow()),
		})
	}

	filter := core.ActivityFilter{
		Category:      query.category,
		PaymentMethod: query.paymentMethod,
		From:          query.from,
		To:            query.to,
	}
	recent := filter.Apply(activities, query.limit)

	if categories == nil {
		categories = []string{}
	}
	if methods == nil {
		methods = []string{}
	}

	return dashboardResponse{
		From:             query.start.String(),
		To:               query.end.String(),
		BeginningBalance: formatSignedCents(summary.BeginningBalance.Cents),
		EndingBalance:    formatSignedCents(summary.EndingBalance.Cents),
		AccountBalances:  balances,

		Categories: categoryViews,
		Recent:     viewActivities(recent),

		AvailableCategories:     categories,
		AvailablePaymentMethods: methods,
	}
}

// invalidateDashboard drops every cached view for the user after a mutation.
func (s *Server) invalidateDashboard(userID int64) {
	s.dashboardCache.DeletePrefix(fmt.Sprintf("user:%d:", userID))
}

// formatSignedCents renders a signed cent value as a decimal string.
func formatSignedCents(cents int64) string {
	if cents < 0 {
		return "-" + formatCents(-cents)
	}
	return formatCents(cents)
}
