// Package http serves the web UI: full pages on navigation, htmx
// fragments on form posts and list refreshes.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fincontrol/internal/auth"
	"fincontrol/internal/cache"
	"fincontrol/internal/core"
	applog "fincontrol/internal/log"
	"fincontrol/internal/services"
	appweb "fincontrol/web"
)

const (
	sessionCookie   = "fincontrol_session"
	summaryCacheKey = "summary"
)

type Server struct {
	http.Server
	templates *template.Template
	ledger    *services.Ledger
	auth      auth.Service

	rateLimiter *rateLimiter

	// Dashboard summary, recomputed on demand and purged on writes.
	summaryCache *cache.LRUCache[core.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server.
func NewServer(addr string, ledger *services.Ledger, authService auth.Service) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:       ledger,
		auth:         authService,
		rateLimiter:  newRateLimiter(),
		summaryCache: cache.NewLRUCache[core.Summary](8, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	// Auth pages stay outside the session gate.
	mux.HandleFunc("GET /login", s.withSecurity(s.handleLoginPage))
	mux.HandleFunc("POST /login", s.withSecurity(s.handleLogin))
	mux.HandleFunc("GET /cadastro", s.withSecurity(s.handleSignupPage))
	mux.HandleFunc("POST /cadastro", s.withSecurity(s.handleSignup))
	mux.HandleFunc("POST /logout", s.withSecurity(s.handleLogout))

	gated := func(h http.HandlerFunc) http.HandlerFunc {
		return s.withSecurity(s.requireSession(h))
	}

	mux.HandleFunc("GET /{$}", gated(s.handleDashboard))
	mux.HandleFunc("GET /ui/resumo", gated(s.handleSummaryFragment))

	mux.HandleFunc("GET /despesas", gated(s.handleExpensesPage))
	mux.HandleFunc("POST /despesas", gated(s.handleCreateExpense))
	mux.HandleFunc("DELETE /despesas/{id}", gated(s.handleDeleteExpense))
	mux.HandleFunc("GET /ui/despesas", gated(s.handleExpenseList))

	mux.HandleFunc("GET /investimentos", gated(s.handleInvestmentsPage))
	mux.HandleFunc("POST /investimentos", gated(s.handleCreateInvestment))
	mux.HandleFunc("DELETE /investimentos/{id}", gated(s.handleDeleteInvestment))
	mux.HandleFunc("POST /transacoes", gated(s.handleCreateTransaction))

	mux.HandleFunc("GET /dividas", gated(s.handleDebtsPage))
	mux.HandleFunc("POST /dividas", gated(s.handleCreateDebt))
	mux.HandleFunc("DELETE /dividas/{id}", gated(s.handleDeleteDebt))
	mux.HandleFunc("POST /dividas/{id}/pagamentos", gated(s.handleRegisterPayment))

	mux.HandleFunc("POST /categorias", gated(s.handleAddCategory))
	mux.HandleFunc("DELETE /categorias/{name}", gated(s.handleRemoveCategory))
	mux.HandleFunc("POST /salario", gated(s.handleSetSalary))

	// Request IDs flow through the context so every log line of a
	// request can be correlated.
	s.Server.Handler = applog.Middleware(applog.New(applog.Config{Component: "http"}))(mux)

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateSummary drops cached dashboard figures after any write.
func (s *Server) invalidateSummary() {
	s.summaryCache.Purge()
}

func (s *Server) summary(ctx context.Context) (core.Summary, error) {
	if data, found := s.summaryCache.Get(summaryCacheKey); found {
		return data, nil
	}
	data, err := s.ledger.Summary(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	s.summaryCache.Set(summaryCacheKey, data)
	return data, nil
}

// renderPage executes a named template straight to the response.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded")
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "template", name, "error", err)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
