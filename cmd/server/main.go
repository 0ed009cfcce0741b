package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/obrafurniture/quote-service/app/health"
	"github.com/obrafurniture/quote-service/app/routes"
	"github.com/obrafurniture/quote-service/internal/catalog"
	"github.com/obrafurniture/quote-service/internal/session"
	"github.com/obrafurniture/quote-service/models"
	"github.com/obrafurniture/quote-service/pkg/config"
	"github.com/obrafurniture/quote-service/pkg/db"
	"github.com/obrafurniture/quote-service/pkg/logger"
	"github.com/obrafurniture/quote-service/pkg/metrics"
	"github.com/obrafurniture/quote-service/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const serviceName = "quote-service"

func main() {
	logg := logger.New(logger.Options{ServiceName: serviceName})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	index, err := loadCatalog(ctx, cfg, logg, models.NewProductsRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler := routes.NewRouter(cfg, logg, index,
		session.NewStore(redisClient, cfg.Session.TTL, logg),
		metrics.NewQuoteMetrics(reg), reg,
		map[string]health.Pinger{"db": dbClient, "redis": redisClient},
	)

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"products": index.Len(),
	})
	logg.Info(srvCtx, "starting quote server")

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "graceful shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(srvCtx, "quote server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "quote server stopped")
}

// loadCatalog migrates and optionally seeds the catalog tables, then builds
// the in-memory search index. Rows with malformed prices are kept and logged.
func loadCatalog(ctx context.Context, cfg *config.Config, logg *logger.Logger, repo *models.ProductsRepository) (*catalog.Index, error) {
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	if cfg.Catalog.SeedOnBoot {
		written, err := repo.Seed(ctx, models.DefaultProducts())
		if err != nil {
			return nil, err
		}
		if written > 0 {
			logg.Info(logg.WithField(ctx, "products", written), "catalog.seeded")
		}
	}

	products, err := repo.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		if !p.PriceValid {
			logg.Warn(logg.WithFields(ctx, map[string]any{
				"product_code": p.Code,
				"raw_price":    p.RawPrice,
			}), "catalog.invalid_price")
		}
	}
	return catalog.NewIndex(products, catalog.WithThreshold(cfg.Catalog.SearchThreshold)), nil
}
