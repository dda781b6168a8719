package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"budget-bites/api-gateway/internal/gateway"
	"budget-bites/config"
	"budget-bites/middleware"
)

type Config struct {
	Addr           string  `env:"GATEWAY_ADDR,default=:8080"`
	StateSvcURL    string  `env:"STATE_SVC_URL,default=http://localhost:8084"`
	CatalogSvcURL  string  `env:"CATALOG_SVC_URL,default=http://localhost:8081"`
	TimeoutSeconds int     `env:"GATEWAY_TIMEOUT_SECONDS,default=15"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=40"`

	Logging config.Logging
}

func loadConfig() (Config, error) {
	var cfg Config
	err := config.Load(&cfg)
	return cfg, err
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "api-gateway",
		Short:        "Single entrypoint for the Budget Bites services",
		SilenceUsage: true,
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Proxy /api requests to state-svc and catalog-svc",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides GATEWAY_ADDR)")

	root.AddCommand(serveCmd)
	return root
}

func newHandler(cfg Config, log logrus.FieldLogger, limiter *middleware.RateLimiter) http.Handler {
	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	gw := gateway.NewGateway(gateway.Config{
		StateSvcURL:   cfg.StateSvcURL,
		CatalogSvcURL: cfg.CatalogSvcURL,
	}, client, log)

	metrics := middleware.NewMetrics("budget_bites_gateway")
	r := gw.SetupRoutes()
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
	r.Use(metrics.Instrument, middleware.RequestLogger(log))

	var h http.Handler = r
	if limiter != nil {
		h = limiter.Handler(h)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080", "http://127.0.0.1:8080", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(h)
}

func runServe(ctx context.Context, cfg Config) error {
	log := config.NewLogger(cfg.Logging)
	entry := log.WithField("service", "api-gateway")

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, entry)
	limiter.StartCleanup(time.Minute, ctx.Done())

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(cfg, entry, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		entry.WithFields(logrus.Fields{
			"state_svc":   cfg.StateSvcURL,
			"catalog_svc": cfg.CatalogSvcURL,
		}).Infof("API Gateway starting on %s", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
