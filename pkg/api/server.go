package api

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rmax-ai/budgetlord/pkg/engine"
	"github.com/rmax-ai/budgetlord/pkg/reports"
	"github.com/rmax-ai/budgetlord/pkg/store"
)

// Context keys
type contextKey string

const traceIDKey contextKey = "trace_id"

// Interfaces for dependencies to enable mocking

type StoreInterface interface {
	CreateCategory(ctx context.Context, name string) (int64, error)
	ListCategories(ctx context.Context) ([]*store.Category, error)
	LinkCategories(ctx context.Context, parentID, childID int64) error
	SumByCategories(ctx context.Context, categoryIDs []int64) (int64, error)

	AddTransaction(ctx context.Context, tx *store.Transaction) (int64, error)
	ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]*store.Transaction, error)

	CreateGoal(ctx context.Context, name string, targetCents int64) (int64, error)
	ListGoals(ctx context.Context) ([]*store.Goal, error)
	AddGoalDependency(ctx context.Context, goalID, dependsOnID int64) error

	RegisterIdentity(ctx context.Context, identityID, kind, tokenHash string) error
	GetIdentityByTokenHash(ctx context.Context, tokenHash string) (*store.Identity, error)
}

// RollupCacheInterface is satisfied by the Redis rollup cache. A nil cache
// disables caching.
type RollupCacheInterface interface {
	Get(ctx context.Context, rootID int64) (*engine.RollupResult, bool)
	Set(ctx context.Context, res *engine.RollupResult)
	Invalidate(ctx context.Context)
}

// Server encapsulates the HTTP API server
type Server struct {
	store      StoreInterface
	server     *http.Server
	categories *engine.CategoryService
	goals      *engine.GoalService
	cache      RollupCacheInterface
	archive    *reports.Archive
}

// NewServer creates a new API server instance
func NewServer(st StoreInterface, categories *engine.CategoryService, goals *engine.GoalService, addr string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		store:      st,
		categories: categories,
		goals:      goals,
	}

	// Register routes
	mux.HandleFunc("/v1/health", handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/v1/categories", s.handleCategories) // POST requires auth, checked inside
	mux.HandleFunc("/v1/categories/links", s.withAuth(s.handleCategoryLinks))
	mux.HandleFunc("/v1/transactions", s.handleTransactions)
	mux.HandleFunc("/v1/rollup", s.handleRollup)
	mux.HandleFunc("/v1/goals", s.handleGoals)
	mux.HandleFunc("/v1/goals/deps", s.withAuth(s.handleGoalDeps))
	mux.HandleFunc("/v1/goals/cycles", s.handleCycles)
	mux.HandleFunc("/v1/reports", s.handleReports)
	mux.HandleFunc("/v1/identities", s.handleIdentities)

	// Middleware: Logging, Panic Recovery, Security Headers
	handler := withLogging(withRecovery(withSecureHeaders(mux)))

	// Use default port if addr is empty
	if addr == "" {
		addr = ":8091"
	}

	s.server = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	return s
}

// SetRollupCache wires an optional rollup cache.
func (s *Server) SetRollupCache(cache RollupCacheInterface) {
	s.cache = cache
}

// SetReportArchive wires an optional on-disk archive for generated reports.
func (s *Server) SetReportArchive(archive *reports.Archive) {
	s.archive = archive
}

// Start runs the HTTP server (blocking)
func (s *Server) Start() error {
	fmt.Printf(`{"level":"info","msg":"server_starting","addr":"%s"}`+"\n", s.server.Addr)
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	fmt.Println(`{"level":"info","msg":"server_stopping"}`)
	return s.server.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// Middleware: Auth
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, `{"error":"unauthorized","reason":"missing_token"}`, http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, `{"error":"unauthorized","reason":"invalid_token_format"}`, http.StatusUnauthorized)
			return
		}

		identity, err := s.store.GetIdentityByTokenHash(r.Context(), hashToken(parts[1]))
		if err != nil {
			http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			return
		}
		if identity == nil {
			http.Error(w, `{"error":"unauthorized","reason":"invalid_token"}`, http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

// Middleware: Panic Recovery
func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				fmt.Printf(`{"level":"error","msg":"panic_recovered","error":"%v","path":"%s"}`+"\n", err, r.URL.Path)
				http.Error(w, `{"error":"internal_server_error"}`, http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Middleware: Request Logging
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = generateTraceID()
		}

		ctx := context.WithValue(r.Context(), traceIDKey, traceID)
		r = r.WithContext(ctx)

		// Wrap writer to capture status code
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		fmt.Printf(`{"level":"info","msg":"http_request","trace_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`+"\n",
			traceID, r.Method, r.URL.Path, ww.status, duration.Milliseconds())
	})
}

// Middleware: Security Headers
func withSecureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func generateTraceID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// Fallback if random fails (unlikely)
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

func getTraceID(ctx context.Context) string {
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

// statusWriter captures HTTP status code
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano()) // Fallback
	}
	return hex.EncodeToString(b)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
