// Package api wires the HTTP surface: chi router, middleware and handlers.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"invoicematch/internal/api/handlers"
	"invoicematch/internal/api/middleware"
	"invoicematch/internal/infrastructure/storage"
)

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:5173"},
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	repo       storage.Repository
}

// NewServer creates a new API server.
func NewServer(cfg Config, repo storage.Repository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: cfg,
		router: chi.NewRouter(),
		logger: logger,
		repo:   repo,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	corsConfig := middleware.CORSConfig{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-User-ID"},
	}
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	// API routes, owner taken from the X-User-ID header set by the
	// fronting auth proxy
	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Owner())

		transactionsHandler := handlers.NewTransactionsHandler(s.repo)
		r.Get("/transactions", transactionsHandler.List)
		r.Get("/transactions/{id}/invoice-matches", transactionsHandler.InvoiceMatches)
		r.Post("/transactions/{id}/link-invoice", transactionsHandler.LinkInvoice)
		r.Post("/transactions/{id}/hide", transactionsHandler.Hide)
		r.Post("/transactions/{id}/restore", transactionsHandler.Restore)
		r.Post("/transactions/{id}/vendor", transactionsHandler.UpdateVendor)

		invoicesHandler := handlers.NewInvoicesHandler(s.repo)
		r.Get("/invoices", invoicesHandler.List)
		r.Post("/invoices/{id}/remove", invoicesHandler.Remove)
		r.Post("/invoices/{id}/restore", invoicesHandler.Restore)
		r.Post("/invoices/{id}/accounting-date", invoicesHandler.SetAccountingDate)

		statementsHandler := handlers.NewStatementsHandler(s.repo)
		r.Get("/statements/{month}", statementsHandler.Get)

		banksHandler := handlers.NewBanksHandler(s.repo)
		r.Get("/banks", banksHandler.List)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
