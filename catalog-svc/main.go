package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	httpapi "budget-bites/catalog-svc/internal/api/http"
	"budget-bites/catalog-svc/internal/service"
	"budget-bites/catalog-svc/internal/storage"
	"budget-bites/config"
	"budget-bites/middleware"
)

type Config struct {
	Addr            string `env:"CATALOG_ADDR,default=:8081"`
	File            string `env:"CATALOG_FILE,default=data/catalog.yaml"`
	CacheTTLSeconds int    `env:"CATALOG_CACHE_TTL_SECONDS,default=300"`

	Postgres config.Postgres
	Redis    config.Redis
	Logging  config.Logging
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
		Use:          "catalog-svc",
		Short:        "Restaurant, menu and grocery catalog for Budget Bites",
		SilenceUsage: true,
	}

	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog HTTP API",
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
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides CATALOG_ADDR)")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the catalog file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runSeed(cmd.Context(), cfg)
		},
	}

	root.AddCommand(serveCmd, seedCmd)
	return root
}

func runServe(ctx context.Context, cfg Config) error {
	log := config.NewLogger(cfg.Logging)
	entry := log.WithField("service", "catalog-svc")

	var repo service.Repository
	if cfg.Postgres.Enabled() {
		db := config.MustInitPostgres(cfg.Postgres, entry)
		defer db.Close()
		repo = storage.NewPostgresRepository(db)
	} else {
		file, err := storage.LoadFileCatalog(cfg.File)
		if err != nil {
			return fmt.Errorf("load catalog file: %w", err)
		}
		repo = file
	}

	var cache service.Cache
	if cfg.Redis.Enabled() {
		rdb := config.MustInitRedis(cfg.Redis, entry)
		defer rdb.Close()
		cache = storage.NewRedisCache(rdb, time.Duration(cfg.CacheTTLSeconds)*time.Second)
	}

	catalog := service.NewCatalogService(repo, cache, entry)
	handler := httpapi.NewHandler(catalog, entry)
	router := httpapi.NewRouter(handler, middleware.NewMetrics("budget_bites_catalog"))

	entry.WithFields(logrus.Fields{
		"postgres": cfg.Postgres.Enabled(),
		"redis":    cfg.Redis.Enabled(),
	}).Info("catalog source configured")
	return httpapi.StartServer(ctx, cfg.Addr, router, entry)
}

func runSeed(ctx context.Context, cfg Config) error {
	log := config.NewLogger(cfg.Logging)
	entry := log.WithField("service", "catalog-svc")

	if !cfg.Postgres.Enabled() {
		return fmt.Errorf("DB_HOST must be set to seed the catalog")
	}
	file, err := storage.LoadFileCatalog(cfg.File)
	if err != nil {
		return fmt.Errorf("load catalog file: %w", err)
	}

	db := config.MustInitPostgres(cfg.Postgres, entry)
	defer db.Close()
	repo := storage.NewPostgresRepository(db)

	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	catalog := file.Catalog()
	if err := repo.Seed(ctx, catalog); err != nil {
		return err
	}

	if cfg.Redis.Enabled() {
		rdb := config.MustInitRedis(cfg.Redis, entry)
		defer rdb.Close()
		removed, err := storage.NewRedisCache(rdb, 0).Flush(ctx)
		if err != nil {
			entry.WithError(err).Warn("failed to flush catalog cache")
		} else {
			entry.WithField("keys", removed).Info("catalog cache flushed")
		}
	}

	entry.WithFields(logrus.Fields{
		"restaurants":   len(catalog.Restaurants),
		"grocery_shops": len(catalog.GroceryShops),
	}).Info("catalog seeded")
	return nil
}
