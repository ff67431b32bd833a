// Package controller contains the controller-specific logic for the HTTP API.
package controller

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"gridpay/internal/config"
	"gridpay/internal/controller/handlers"
	"gridpay/internal/controller/middleware"
)

// Server is the HTTP server for the controller API.
type Server struct {
	httpServer *http.Server
}

// New creates a new controller server.
func New(addr string, store handlers.StoreFactory, tunnelClient handlers.TunnelProvisioner, cfg *config.Config, logger *slog.Logger, metricsHandler http.Handler) *Server {
	h := handlers.New(store, tunnelClient, logger)
	rateLimitMW := middleware.RateLimit(cfg.SubmitRateLimit, cfg.SubmitRateBurst)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("GET /readyz", h.Readyz)
	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	// Device side: registration and the poll/report loop.
	mux.Handle("POST /heartbeat", rateLimitMW(http.HandlerFunc(h.Heartbeat)))
	mux.HandleFunc("GET /check-for-jobs/{user_id}", h.CheckForJobs)
	mux.HandleFunc("POST /update-job", h.UpdateJob)

	// Requester side.
	mux.HandleFunc("GET /devices", h.ListDevices)
	mux.HandleFunc("GET /jobs/{user_id}", h.ListJobs)
	mux.Handle("POST /submit-job", rateLimitMW(http.HandlerFunc(h.SubmitJob)))
	mux.HandleFunc("GET /get-budget/{user_id}", h.GetBudget)

	mux.HandleFunc("POST /get-ngrok-access", h.TunnelAccess)

	handler := middleware.CORS(cfg.CORSAllowedOrigins)(middleware.RequestID(mux))

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutDownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return s.Shutdown(shutDownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
