package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/groomly/platform-api/internal/api/handler"
	"github.com/groomly/platform-api/internal/api/metrics"
	"github.com/groomly/platform-api/internal/api/middleware"
	"github.com/groomly/platform-api/internal/core/service"
	"github.com/groomly/platform-api/internal/infrastructure/config"
	mongodb "github.com/groomly/platform-api/internal/infrastructure/db/mongo"
	redisdb "github.com/groomly/platform-api/internal/infrastructure/db/redis"
	"github.com/groomly/platform-api/internal/infrastructure/identity"
	"github.com/groomly/platform-api/internal/infrastructure/queue"
)

// NewRouter builds the Echo instance with all routes registered and returns
// it together with the identity event dispatcher (started by the caller).
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, *queue.Dispatcher) {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("groomly"))
	e.Use(middleware.Session())

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Stores ---
	sessions := redisdb.NewSessionStore(rdb, cfg.Auth.SessionTTL)
	tokens := redisdb.NewTokenStore(rdb)
	routes := redisdb.NewRouteMemory(rdb)
	profiles := mongodb.NewProfileRepository(db)
	businesses := mongodb.NewBusinessRepository(db)

	// --- Services ---
	provider := identity.NewJWTProvider(cfg.JWTSecret, sessions)
	authState := service.NewAuthState(provider, profiles, businesses, sessions, cfg.Auth.FetchTimeout, log)
	authState.OnStaleDiscard(metrics.StaleHydrationsTotal.Inc)
	guard := service.NewGuard(routes, log)
	impersonation := service.NewImpersonation(tokens, businesses, sessions, cfg.Auth.ImpersonationTokenTTL, log)
	dispatcher := queue.NewDispatcher(cfg.Auth.EventWorkers, authState, log)

	// --- Handlers ---
	sessionHandler := handler.NewSessionHandler(authState, provider, sessions, guard, dispatcher)
	impersonationHandler := handler.NewImpersonationHandler(impersonation, cfg.Auth.RedeemRedirectWait)
	tenantHandler := handler.NewTenantHandler(businesses, impersonation, sessions)

	guarded := middleware.Guard(authState, guard, false)
	adminOnly := middleware.Guard(authState, guard, true)

	// --- Session surface ---
	e.GET("/session", sessionHandler.Get)
	e.POST("/session/events", sessionHandler.PostEvent)
	e.DELETE("/session", sessionHandler.SignOut)
	e.GET("/session/route", sessionHandler.LastRoute)
	e.PUT("/session/language", sessionHandler.SetLanguage)
	e.PUT("/session/demo", sessionHandler.SetDemoMode)

	// --- Public demo tenant ---
	e.GET("/demo", handler.Demo, guarded)

	// --- Impersonation flow ---
	e.POST("/impersonate/:token", impersonationHandler.Redeem, guarded)
	e.GET("/impersonation", impersonationHandler.Record, guarded)
	e.DELETE("/impersonation", impersonationHandler.Exit, guarded)

	// --- Administrator dashboard ---
	admin := e.Group("/admin", adminOnly)
	admin.GET("/dashboard", handler.AdminDashboard)
	admin.POST("/impersonation/tokens", impersonationHandler.IssueToken)

	// --- Tenant-scoped application routes ---
	tenant := e.Group("/:slug", guarded)
	tenant.GET("/dashboard", tenantHandler.Dashboard)
	tenant.PUT("/settings", tenantHandler.UpdateSettings)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, dispatcher
}
