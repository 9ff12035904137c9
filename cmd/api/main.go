package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/TradeTrust/api-storage/internal/bootstrap"
	"github.com/TradeTrust/api-storage/internal/controller"
	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/infrastructure/gcs"
	infraRedis "github.com/TradeTrust/api-storage/internal/infrastructure/redis"
	"github.com/TradeTrust/api-storage/internal/lookup"
	"github.com/TradeTrust/api-storage/internal/nric"
	"github.com/TradeTrust/api-storage/internal/repository/postgres"
	"github.com/TradeTrust/api-storage/internal/service"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, "api-storage", "api_storage")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	// --- Policy lookup chain ---
	var policies policy.Lookup
	switch app.Config.Policy.Source {
	case "remote":
		policies = lookup.NewRemote(app.Config.Policy.Endpoint, app.Config.Policy.RequestTimeout)
	default:
		policies = lookup.NewStatic(app.Config.Policy.StaticPolicies())
	}
	if app.Config.Policy.CacheTTL > 0 {
		policies = lookup.NewCached(policies, app.Redis, app.Config.Policy.CacheTTL).
			WithMetrics(app.Metrics.PolicyLookupsTotal)
	}

	// --- Stores and services ---
	transactionRepo := postgres.NewTransactionRepository(app.Pool)
	quotaEngine := service.NewQuotaEngine(transactionRepo, policies)
	transactionService := service.NewTransactionService(
		transactionRepo,
		policies,
		quotaEngine,
		nric.Validator{},
		&app.Config.Validation,
		service.SystemClock(),
	)

	sessions := infraRedis.NewSessionStore(app.Redis, app.Config.Auth.SessionTTL)

	documents, err := gcs.NewDocumentStore(ctx, app.Config.Storage.Bucket, app.Config.Storage.Prefix)
	if err != nil {
		app.Logger.Fatal().Err(err).Msg("Failed to create document store")
	}
	defer documents.Close()

	// --- Router and HTTP server ---
	router := controller.NewRouter(controller.RouterDeps{
		Pool:               app.Pool,
		RedisClient:        app.Redis,
		TransactionService: transactionService,
		Policies:           policies,
		Sessions:           sessions,
		Documents:          documents,
		Metrics:            app.Metrics,
		Config:             app.Config,
	})

	addr := fmt.Sprintf(":%d", app.Config.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.Logger.Info().Str("addr", addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.Logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		app.Logger.Error().Err(err).Msg("Server exited with error")
		return
	}
	app.Logger.Info().Msg("Server exited")
}
