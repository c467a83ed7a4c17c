package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finanzas/internal/cache"
	"finanzas/internal/ledger"
	"finanzas/internal/services"
)

func newTestServer(t *testing.T) (*Server, ledger.Store) {
	t.Helper()
	store := ledger.NewMemoryStore()
	s := NewServer(":0", Deps{
		Debts:        services.NewDebtService(store, nil),
		Goals:        services.NewGoalService(store, nil),
		Budgets:      services.NewBudgetService(store),
		Transactions: services.NewTransactionService(store),
		Reminders:    services.NewReminderService(store),
		Alerts:       services.NewAlertService(store),
		Summaries:    cache.NewMemorySummaryCache(64, time.Minute),
	})
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s, store
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var env apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, rec.Body.String())
	}
	return env
}

func validDebtBody() map[string]any {
	return map[string]any{
		"name":             "Tarjeta Visa",
		"type":             "credit_card",
		"totalAmount":      1000.0,
		"currentBalance":   800.0,
		"interestRate":     24.0,
		"paymentAmount":    100.0,
		"paymentFrequency": "monthly",
		"reminderDays":     3,
		"autoReminder":     true,
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestCreateAndGetDebt(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/debts", validDebtBody())
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/debts = %d, body %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Fatalf("envelope = %+v, want success", env)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/debts/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/debts/1 = %d", rec.Code)
	}
	var got struct {
		Data debtJSON `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Data.Name != "Tarjeta Visa" || got.Data.CurrentBalance != 800 {
		t.Errorf("debt = %+v", got.Data)
	}
}

func TestCreateDebtValidation(t *testing.T) {
	s, _ := newTestServer(t)

	body := validDebtBody()
	body["name"] = ""
	rec := doJSON(t, s, http.MethodPost, "/api/debts", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("POST empty name = %d, want 422", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success || env.Error == "" {
		t.Errorf("envelope = %+v, want failure with message", env)
	}
}

func TestGetDebtNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	rec := doJSON(t, s, http.MethodGet, "/api/debts/99", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET missing = %d, want 404", rec.Code)
	}
}

func TestRegisterPaymentEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := doJSON(t, s, http.MethodPost, "/api/debts", validDebtBody()); rec.Code != http.StatusCreated {
		t.Fatalf("create debt = %d", rec.Code)
	}

	rec := doJSON(t, s, http.MethodPost, "/api/debts/1/payment", map[string]any{
		"amount": 100.0,
		"date":   "2026-08-28",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("payment = %d, body %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Data debtJSON `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Data.CurrentBalance != 700 {
		t.Errorf("balance = %v, want 700", got.Data.CurrentBalance)
	}
	if len(got.Data.PaymentHistory) != 1 {
		t.Errorf("history = %d entries, want 1", len(got.Data.PaymentHistory))
	}

	rec = doJSON(t, s, http.MethodPost, "/api/debts/1/payment", map[string]any{"amount": 0.0})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero payment = %d, want 422", rec.Code)
	}
}

func TestBudgetConflict(t *testing.T) {
	s, _ := newTestServer(t)

	body := map[string]any{"category": "Comida", "limit": 400.0, "month": "2026-08"}
	if rec := doJSON(t, s, http.MethodPost, "/api/budgets", body); rec.Code != http.StatusCreated {
		t.Fatalf("create budget = %d", rec.Code)
	}
	rec := doJSON(t, s, http.MethodPost, "/api/budgets", body)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate budget = %d, want 409", rec.Code)
	}
}

func TestGoalFundsEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/goals", map[string]any{
		"name":          "Vacaciones",
		"targetAmount":  2000.0,
		"currentAmount": 100.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodPost, "/api/goals/1/add-funds", map[string]any{"amount": 50.0})
	if rec.Code != http.StatusOK {
		t.Fatalf("add funds = %d", rec.Code)
	}
	var got struct {
		Data goalJSON `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Data.CurrentAmount != 150 {
		t.Errorf("current = %v, want 150", got.Data.CurrentAmount)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/goals/1/withdraw-funds", map[string]any{"amount": 5000.0})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("overdraw = %d, want 422", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/goals/1/complete", nil)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("premature complete = %d, want 422", rec.Code)
	}
}

func TestAnalyticsEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	tx := map[string]any{
		"type":     "expense",
		"amount":   25.0,
		"category": "Comida",
		"date":     time.Now().UTC().Format("2006-01-02"),
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/transactions", tx); rec.Code != http.StatusCreated {
		t.Fatalf("create transaction = %d", rec.Code)
	}

	for _, path := range []string{
		"/api/analytics/expenses-by-category",
		"/api/analytics/income-vs-expense",
		"/api/analytics/daily-trend",
		"/api/analytics/weekly-totals",
		"/api/debts/summary",
		"/api/goals/summary",
		"/api/alerts",
	} {
		rec := doJSON(t, s, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, body %s", path, rec.Code, rec.Body.String())
			continue
		}
		if env := decodeEnvelope(t, rec); !env.Success {
			t.Errorf("GET %s envelope = %+v", path, env)
		}
	}
}

func TestSummaryCacheInvalidation(t *testing.T) {
	s, _ := newTestServer(t)

	read := func() float64 {
		month := time.Now().UTC().Format("2006-01")
		rec := doJSON(t, s, http.MethodGet, "/api/analytics/expenses-by-category?month="+month, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("analytics = %d", rec.Code)
		}
		var got struct {
			Data struct {
				Total float64 `json:"total"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return got.Data.Total
	}

	if got := read(); got != 0 {
		t.Fatalf("initial total = %v, want 0", got)
	}

	tx := map[string]any{
		"type":     "expense",
		"amount":   25.0,
		"category": "Comida",
		"date":     time.Now().UTC().Format("2006-01-02"),
	}
	if rec := doJSON(t, s, http.MethodPost, "/api/transactions", tx); rec.Code != http.StatusCreated {
		t.Fatalf("create transaction = %d", rec.Code)
	}

	if got := read(); got != 25 {
		t.Errorf("total after write = %v, want 25 (cache not invalidated)", got)
	}
}

func TestUpcomingRemindersEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	due := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	rec := doJSON(t, s, http.MethodPost, "/api/reminders", map[string]any{
		"name":             "Renta",
		"amount":           500.0,
		"frequency":        "monthly",
		"nextDueDate":      due,
		"notifyDaysBefore": 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create reminder = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, s, http.MethodGet, "/api/reminders/upcoming", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upcoming = %d", rec.Code)
	}
	var got struct {
		Data []upcomingJSON `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Data) != 1 || got.Data[0].DaysLeft != 2 {
		t.Errorf("upcoming = %+v, want one entry 2 days out", got.Data)
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	s, _ := newTestServer(t)

	var last int
	for i := 0; i < rateLimitPerMinute+1; i++ {
		rec := doJSON(t, s, http.MethodPost, "/api/transactions", map[string]any{
			"type":     "income",
			"amount":   1.0,
			"category": "Sueldo",
			"date":     "2026-08-28",
		})
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("request %d = %d, want 429", rateLimitPerMinute+1, last)
	}
}
