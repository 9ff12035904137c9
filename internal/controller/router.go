package controller

import (
	"context"
	"time"

	"github.com/TradeTrust/api-storage/internal/domain/policy"
	"github.com/TradeTrust/api-storage/internal/infrastructure/config"
	"github.com/TradeTrust/api-storage/internal/infrastructure/observability"
	customMW "github.com/TradeTrust/api-storage/internal/middleware"
	"github.com/TradeTrust/api-storage/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

// SessionManager both issues and validates session tokens.
type SessionManager interface {
	Create(ctx context.Context, user string) (string, error)
	Validate(ctx context.Context, token string) (string, error)
}

type RouterDeps struct {
	Pool               *pgxpool.Pool
	RedisClient        *goredis.Client
	TransactionService *service.TransactionService
	Policies           policy.Lookup
	Sessions           SessionManager
	Documents          DocumentStore
	Metrics            *observability.Metrics
	Config             *config.Config
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(customMW.Tracing())
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: deps.Config.Server.CORS.AllowCredentials,
		MaxAge:           300,
	}))
	r.Use(customMW.Metrics(deps.Metrics))
	if deps.Config.Server.RequestsPerMinute > 0 {
		r.Use(customMW.RateLimit(deps.Config.Server.RequestsPerMinute))
	}

	healthH := NewHealthController(deps.Pool, deps.RedisClient)
	transactionH := NewTransactionController(deps.TransactionService, deps.Metrics)
	sessionH := NewSessionController(deps.Sessions, deps.Config.Auth.AccessKey, deps.Metrics)
	documentH := NewDocumentController(deps.Documents, deps.Metrics)
	infoH := NewInfoController(deps.Config.Version, deps.Config.Features, deps.Policies)

	r.Get("/health", healthH.Health)
	r.Get("/health/live", healthH.Liveness)
	r.Get("/health/ready", healthH.Readiness)

	r.Handle("/metrics", promhttp.Handler())

	r.Post("/auth/sessions", sessionH.Create)

	// Everything below requires a valid session token.
	r.Group(func(r chi.Router) {
		r.Use(customMW.RequireSession(deps.Sessions))

		r.Get("/version", infoH.Version)

		r.Get("/transactions/{customerId}", transactionH.Get)
		r.Post("/transactions/{customerId}", transactionH.Create)

		r.Put("/documents/{id}", documentH.Put)
		r.Get("/documents/{id}", documentH.Get)
		r.Delete("/documents/{id}", documentH.Delete)
	})

	return r
}
