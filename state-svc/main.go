package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"budget-bites/config"
	"budget-bites/middleware"
	httpapi "budget-bites/state-svc/internal/api/http"
	"budget-bites/state-svc/internal/service"
	"budget-bites/state-svc/internal/storage"
	"budget-bites/state-svc/internal/store"
)

type Config struct {
	Addr                     string  `env:"STATE_ADDR,default=:8084"`
	PublicBaseURL            string  `env:"PUBLIC_BASE_URL,default=http://localhost:8080"`
	CheckoutMarkerTTLSeconds int     `env:"CHECKOUT_MARKER_TTL_SECONDS,default=86400"`
	RateLimitRPS             float64 `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst           int     `env:"RATE_LIMIT_BURST,default=40"`
	TrustedProxies           string  `env:"TRUSTED_PROXIES,default=127.0.0.1;::1"`
	OrderEventsTopic         string  `env:"ORDER_EVENTS_TOPIC,default=order-events"`
	OrderStatusTopic         string  `env:"ORDER_STATUS_TOPIC,default=order-status"`
	DefaultFirstEntry        bool    `env:"DEFAULT_FIRST_ENTRY,default=true"`
	PromoteOnDefaultDelete   bool    `env:"PROMOTE_ON_DEFAULT_DELETE,default=false"`

	Redis   config.Redis
	Kafka   config.Kafka
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
		Use:          "state-svc",
		Short:        "Per-session application state for Budget Bites",
		SilenceUsage: true,
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the session state HTTP API",
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
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides STATE_ADDR)")

	root.AddCommand(serveCmd)
	return root
}

// splitList accepts comma or semicolon separated values.
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
}

func runServe(ctx context.Context, cfg Config) error {
	log := config.NewLogger(cfg.Logging)
	entry := log.WithField("service", "state-svc")

	storeMetrics := service.NewStoreMetrics("budget_bites_state")
	opts := []service.Option{
		service.WithPolicy(store.Policy{
			DefaultFirstEntry:      cfg.DefaultFirstEntry,
			PromoteOnDefaultDelete: cfg.PromoteOnDefaultDelete,
		}),
		service.WithQRGenerator(service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL}),
		service.WithSessionHook(storeMetrics.Hook),
	}

	if cfg.Redis.Enabled() {
		rdb := config.MustInitRedis(cfg.Redis, entry)
		defer rdb.Close()
		ttl := time.Duration(cfg.CheckoutMarkerTTLSeconds) * time.Second
		opts = append(opts, service.WithCheckoutGuard(storage.NewCheckoutGuard(rdb, ttl)))
	} else {
		entry.Warn("REDIS_HOST not set, checkout idempotency keys are not enforced")
	}

	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka, cfg.OrderEventsTopic)
		defer writer.Close()
		opts = append(opts, service.WithPublisher(storage.NewKafkaPublisher(writer)))
	} else {
		entry.Warn("KAFKA_BROKER not set, order events are not published")
	}

	sessions := service.NewSessionService(entry, opts...)

	if cfg.Kafka.Enabled() {
		reader := config.NewKafkaReader(cfg.Kafka, cfg.OrderStatusTopic, "state-svc")
		defer reader.Close()
		tracking := service.NewTrackingConsumer(reader, sessions, entry)
		go tracking.Start(ctx)
	}

	scheduler, err := service.NewSpendResetScheduler(sessions, entry)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	metrics := middleware.NewMetrics("budget_bites_state")
	metrics.MustRegister(storeMetrics.Collectors()...)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, entry)
	if err := limiter.TrustProxies(splitList(cfg.TrustedProxies)...); err != nil {
		return err
	}
	limiter.StartCleanup(time.Minute, ctx.Done())

	handler := httpapi.NewHandler(sessions, entry)
	router := httpapi.NewRouter(handler, metrics, limiter)

	entry.WithFields(logrus.Fields{
		"redis": cfg.Redis.Enabled(),
		"kafka": cfg.Kafka.Enabled(),
	}).Info("dependencies configured")
	return httpapi.StartServer(ctx, cfg.Addr, router, entry)
}
