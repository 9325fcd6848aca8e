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
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	"github.com/breckhall/finsight/internal/cache"
	"github.com/breckhall/finsight/internal/config"
	"github.com/breckhall/finsight/internal/ledger"
	"github.com/breckhall/finsight/internal/logger"
	"github.com/breckhall/finsight/internal/metrics"
	"github.com/breckhall/finsight/internal/server"
	"github.com/breckhall/finsight/internal/service"
	"github.com/breckhall/finsight/internal/snapshot"
	"github.com/breckhall/finsight/internal/spending"
	"github.com/breckhall/finsight/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)
	ctx := logger.WithContext(context.Background(), log)

	var source snapshot.Source
	if cfg.SnapshotBucket != "" {
		source = snapshot.NewBucketSource(cfg.SnapshotBucket, cfg.SnapshotPrefix, cfg.SnapshotCredentials)
	} else {
		source = snapshot.NewDirSource(cfg.SnapshotDir)
	}

	svc := service.New(
		store.New(),
		cache.New(cfg.MetricsCacheTTL),
		service.Config{
			Metrics: metrics.Config{
				IlliquidFrictionPct: cfg.IlliquidFrictionPct,
				BaseCreditScore:     cfg.BaseCreditScore,
				UtilizationPenalty:  cfg.UtilizationPenalty,
			},
			Spending: spending.Config{
				SuccessMarginPct:     cfg.SuccessMarginPct,
				DefaultMonthlyBudget: ledger.Cents(cfg.DefaultMonthlyBudgetCents),
			},
			MetricsTTL:  cfg.MetricsCacheTTL,
			SpendingTTL: cfg.SpendingCacheTTL,
		},
		log,
	)

	log.Info().Str("source", source.Describe()).Msg("loading snapshot")
	files, err := source.Fetch(ctx)
	if err != nil {
		log.Fatal().Err(err).Str("source", source.Describe()).Msg("snapshot fetch failed")
	}
	if _, err := svc.ReloadSnapshot(ctx, files); err != nil {
		log.Fatal().Err(err).Msg("initial snapshot load failed")
	}

	mux := http.NewServeMux()
	server.NewHandler(svc, source, log).Register(mux)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
		},
		ExposedHeaders: []string{
			"X-Request-ID",
		},
	})

	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	// RequestID sits outside Logger so access logs carry the id.
	handler := server.Recovery(log)(
		server.RequestID(
			server.Logger(log)(
				c.Handler(
					server.RateLimit(limiter)(mux),
				),
			),
		),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h2c.NewHandler(handler, &http2.Server{}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server stopped")
}
