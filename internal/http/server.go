// Package http exposes the finance records and calculators as a JSON REST
// API with the envelope {success, data, error}.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"finanzas/internal/cache"
	"finanzas/internal/services"
)

// requests per client per minute on mutating methods
const rateLimitPerMinute = 60

type Server struct {
	http.Server

	debts        *services.DebtService
	goals        *services.GoalService
	budgets      *services.BudgetService
	transactions *services.TransactionService
	reminders    *services.ReminderService
	alerts       *services.AlertService

	summaries   cache.SummaryCache
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// Deps bundles the collaborators the server needs.
type Deps struct {
	Debts        *services.DebtService
	Goals        *services.GoalService
	Budgets      *services.BudgetService
	Transactions *services.TransactionService
	Reminders    *services.ReminderService
	Alerts       *services.AlertService
	Summaries    cache.SummaryCache
}

// NewServer configures the routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		debts:        deps.Debts,
		goals:        deps.Goals,
		budgets:      deps.Budgets,
		transactions: deps.Transactions,
		reminders:    deps.Reminders,
		alerts:       deps.Alerts,
		summaries:    deps.Summaries,
		rateLimiter:  newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	wrap := s.withCommon

	mux.HandleFunc("GET /api/debts", wrap(s.handleListDebts))
	mux.HandleFunc("POST /api/debts", wrap(s.handleCreateDebt))
	mux.HandleFunc("GET /api/debts/summary", wrap(s.handleDebtSummary))
	mux.HandleFunc("GET /api/debts/{id}", wrap(s.handleGetDebt))
	mux.HandleFunc("PUT /api/debts/{id}", wrap(s.handleUpdateDebt))
	mux.HandleFunc("DELETE /api/debts/{id}", wrap(s.handleDeleteDebt))
	mux.HandleFunc("POST /api/debts/{id}/payment", wrap(s.handleRegisterPayment))
	mux.HandleFunc("POST /api/debts/{id}/mark-paid", wrap(s.handleMarkDebtPaid))
	mux.HandleFunc("GET /api/debts/{id}/projection", wrap(s.handleDebtProjection))
	mux.HandleFunc("GET /api/debts/{id}/schedule", wrap(s.handleDebtSchedule))

	mux.HandleFunc("GET /api/goals", wrap(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", wrap(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals/summary", wrap(s.handleGoalsSummary))
	mux.HandleFunc("GET /api/goals/{id}", wrap(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goals/{id}", wrap(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", wrap(s.handleDeleteGoal))
	mux.HandleFunc("POST /api/goals/{id}/add-funds", wrap(s.handleAddFunds))
	mux.HandleFunc("POST /api/goals/{id}/withdraw-funds", wrap(s.handleWithdrawFunds))
	mux.HandleFunc("POST /api/goals/{id}/complete", wrap(s.handleCompleteGoal))

	mux.HandleFunc("GET /api/budgets", wrap(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", wrap(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets/overview", wrap(s.handleBudgetOverview))
	mux.HandleFunc("PUT /api/budgets/{id}", wrap(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", wrap(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/transactions", wrap(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", wrap(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", wrap(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/reminders", wrap(s.handleListReminders))
	mux.HandleFunc("POST /api/reminders", wrap(s.handleCreateReminder))
	mux.HandleFunc("GET /api/reminders/upcoming", wrap(s.handleUpcomingReminders))
	mux.HandleFunc("PUT /api/reminders/{id}", wrap(s.handleUpdateReminder))
	mux.HandleFunc("DELETE /api/reminders/{id}", wrap(s.handleDeleteReminder))
	mux.HandleFunc("POST /api/reminders/{id}/mark-paid", wrap(s.handleMarkReminderPaid))

	mux.HandleFunc("GET /api/alerts", wrap(s.handleListAlerts))

	mux.HandleFunc("GET /api/analytics/expenses-by-category", wrap(s.handleExpensesByCategory))
	mux.HandleFunc("GET /api/analytics/income-vs-expense", wrap(s.handleIncomeVsExpense))
	mux.HandleFunc("GET /api/analytics/daily-trend", wrap(s.handleDailyTrend))
	mux.HandleFunc("GET /api/analytics/weekly-totals", wrap(s.handleWeeklyTotals))

	return s
}

// Shutdown stops the rate limiter cleanup and the HTTP listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withCommon adds security headers, rate limiting on mutating methods,
// request-id tracing and request logging.
func (s *Server) withCommon(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Request-ID", requestID)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// Simple in-memory rate limiter keyed by client IP.
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]
	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= rateLimitPerMinute
}
