package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bolao/metrics"
	"bolao/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

// Server wraps an http.Server with the club's route tree.
type Server struct {
	httpServer *http.Server

	users      service.UserService
	ledger     service.LedgerService
	pools      service.PoolService
	alerts     service.AlertService
	appConfig  service.ConfigService
	assistant  service.Assistant
	sessions   service.SessionStore
	metrics    *metrics.Metrics
	sessionTTL time.Duration
}

// Config holds server construction parameters.
type Config struct {
	Addr       string
	SessionTTL time.Duration
}

// Dependencies groups the services the handlers call into.
type Dependencies struct {
	Users     service.UserService
	Ledger    service.LedgerService
	Pools     service.PoolService
	Alerts    service.AlertService
	AppConfig service.ConfigService
	Assistant service.Assistant
	Sessions  service.SessionStore
	Metrics   *metrics.Metrics
}

// New creates the HTTP server with all routes mounted.
func New(cfg Config, deps Dependencies) *Server {
	s := &Server{
		users:      deps.Users,
		ledger:     deps.Ledger,
		pools:      deps.Pools,
		alerts:     deps.Alerts,
		appConfig:  deps.AppConfig,
		assistant:  deps.Assistant,
		sessions:   deps.Sessions,
		metrics:    deps.Metrics,
		sessionTTL: cfg.SessionTTL,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)

		// Everything below requires a session
		r.Group(func(r chi.Router) {
			r.Use(s.requireSession)

			r.Post("/logout", s.handleLogout)
			r.Get("/me", s.handleMe)
			r.Get("/me/bets", s.handleMyBets)
			r.Get("/me/transactions", s.handleMyTransactions)

			r.Get("/config", s.handleGetConfig)

			r.Get("/pools", s.handleListPools)
			r.Post("/pools", s.handleCreatePool)
			r.Get("/pools/{poolID}", s.handleGetPool)
			r.Get("/pools/{poolID}/bets", s.handleListPoolBets)
			r.Post("/pools/{poolID}/bets", s.handlePlaceBet)
			r.Post("/pools/{poolID}/settle", s.handleSettlePool)

			r.Post("/deposits", s.handleRequestDeposit)
			r.Post("/withdrawals", s.handleRequestWithdrawal)

			r.Post("/assistant", s.handleAssistant)

			// Admin-only surface
			r.Group(func(r chi.Router) {
				r.Use(s.requireAdmin)

				r.Get("/admin/users", s.handleListUsers)
				r.Put("/admin/users/{userID}", s.handleUpdateUser)
				r.Put("/admin/users/{userID}/balances", s.handleSetBalances)

				r.Get("/admin/transactions", s.handleListPendingTransactions)
				r.Get("/admin/users/{userID}/transactions", s.handleUserTransactions)
				r.Post("/admin/transactions/{txID}/approve", s.handleApproveTransaction)
				r.Post("/admin/transactions/{txID}/reject", s.handleRejectTransaction)

				r.Get("/admin/alerts", s.handleListAlerts)
				r.Delete("/admin/alerts/{alertID}", s.handleDismissAlert)

				r.Put("/admin/config", s.handleSaveConfig)
			})
		})
	})

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Start begins listening for incoming HTTP requests.
func (s *Server) Start() error {
	log.WithField("addr", s.httpServer.Addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server listen: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
