// File: cmd/app/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"esim-myanmar-api/internal/config"
	payAdapters "esim-myanmar-api/internal/infra/adapters/payment"
	"esim-myanmar-api/internal/infra/api"
	pg "esim-myanmar-api/internal/infra/db/postgres"
	"esim-myanmar-api/internal/infra/logging"
	"esim-myanmar-api/internal/infra/metrics"
	red "esim-myanmar-api/internal/infra/redis"
	"esim-myanmar-api/internal/infra/web"
	"esim-myanmar-api/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no redaction)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	txnRepo := pg.NewTransactionRepo(pool)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	callbackRegistry := red.NewCallbackRegistry(redisClient)

	// ---- Wave gateway ----
	gateway, err := payAdapters.NewWaveGateway(cfg.Wave)
	if err != nil {
		logger.Fatal().Err(err).Msg("wave gateway")
	}
	logger.Info().
		Str("environment", cfg.Wave.Environment).
		Str("merchant_id", logging.Redact(cfg.Wave.MerchantID, cfg.Runtime.Dev)).
		Msg("wave gateway configured")

	paymentUC := usecase.NewPaymentUseCase(txnRepo, callbackRegistry, gateway, cfg.Wave.MerchantName, cfg.Redis.TTL, logger)

	// ---- HTTP ----
	apiServer := api.NewServer(paymentUC, cfg.Server.RequestTimeout, logger)
	router := apiServer.Routes()

	if cfg.Admin.JWTSecret != "" && cfg.Admin.APIKey != "" {
		auth := web.NewAuthManager(cfg.Admin.JWTSecret, !cfg.Runtime.Dev, cfg.Admin.SessionTTL)
		web.NewServer(paymentUC, auth, cfg.Admin.APIKey, logger).RegisterRoutes(router)
	} else {
		logger.Warn().Msg("admin api disabled: admin.jwt_secret or admin.api_key not set")
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
	case <-ctx.Done():
	}
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
