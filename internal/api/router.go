package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/citegraph/internal/graphql"
	"github.com/persistorai/citegraph/internal/middleware"
	"github.com/persistorai/citegraph/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	DB          HealthChecker // nil when persistence is disabled
	Circuit     CircuitStater
	Citations   CitationService
	References  ReferenceService
	Runs        RunService
	Hub         *ws.Hub                // nil disables the event stream
	Keys        middleware.KeyVerifier // nil disables auth
	CORSOrigins []string
	Version     string
	RateLimit   float64
	RateBurst   int
}

// Router-level limits.
const (
	maxBodySize      = 10 << 20 // 10 MB
	defaultRateLimit = 20       // requests per second per IP
	defaultRateBurst = 40
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID())
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))

	limit, burst := deps.RateLimit, deps.RateBurst
	if limit <= 0 {
		limit = defaultRateLimit
	}

	if burst <= 0 {
		burst = defaultRateBurst
	}

	r.Use(middleware.NewRateLimiter(ctx, limit, burst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.DB, deps.Circuit, log, deps.Version)
	citations := NewCitationHandler(deps.Citations, log)
	refs := NewReferenceHandler(deps.References, log)
	runs := NewRunHandler(deps.Runs, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	if deps.Keys != nil {
		api.Use(middleware.AuthMiddleware(deps.Keys, log, middleware.NewFailureGuard(ctx, log)))
	}

	// Citations.
	api.GET("/citations/:id", citations.Get)
	api.POST("/citations/expand", citations.Expand)
	api.POST("/citations/collect", citations.Collect)

	// Scoring.
	api.POST("/stats/score", citations.Score)
	api.POST("/stats/sweep", citations.Sweep)

	// Graph post-processing.
	api.POST("/graph/filter", citations.Filter)

	// Reference sets.
	api.GET("/reference-sets", refs.List)
	api.GET("/reference-sets/:name", refs.Get)
	api.PUT("/reference-sets/:name", refs.Put)

	// Runs.
	api.GET("/runs/:id", runs.Get)
	api.GET("/runs/:id/export", runs.Export)

	// GraphQL.
	registerGraphQL(api, deps)

	// Event stream.
	if deps.Hub != nil {
		api.GET("/events", eventsHandler(ctx, log, deps.Hub, deps.CORSOrigins))
	}
}

// registerGraphQL sets up the GraphQL endpoint over the same services.
func registerGraphQL(api *gin.RouterGroup, deps *RouterDeps) {
	gql := graphql.NewExecutor(&graphql.Resolver{
		Citations:  deps.Citations,
		References: deps.References,
		Runs:       deps.Runs,
	}, deps.Log)

	api.POST("/graphql", gql.Handle)
	api.GET("/graphql", gql.Handle)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
