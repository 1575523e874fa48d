package api

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/exampleapp/example-api/docs"
	"github.com/exampleapp/example-api/internal/api/handler"
	"github.com/exampleapp/example-api/internal/api/middleware"
	"github.com/exampleapp/example-api/internal/core/domain"
	"github.com/exampleapp/example-api/internal/core/ports"
	"github.com/exampleapp/example-api/pkg/logger"
)

const publicPrefix = "/api/public"

// Dependencies groups everything the router wires into handlers.
type Dependencies struct {
	Logger zerolog.Logger

	Items     ports.ItemService
	ItemStore handler.Pinger
	Cache     ports.CacheStore

	Keyfunc     jwt.Keyfunc
	Issuer      string
	Audience    string
	GroupsClaim string

	App      handler.AppInfo
	PodName  string
	CacheTTL time.Duration

	// Registry receives the HTTP request metrics. Nil means the default
	// Prometheus registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(logger.RequestLogger(deps.Logger))
	e.Use(echomiddleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.SecurityHeaders())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "example_api",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(map[string]handler.Pinger{
		"store": deps.ItemStore,
		"redis": deps.Cache,
	})

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Public API ---
	publicHandler := handler.NewPublicHandler(deps.App)
	public := e.Group(publicPrefix)
	public.GET("/health", publicHandler.Health)
	public.GET("/info", publicHandler.Info)
	public.GET("/time", publicHandler.Time)

	// --- Authenticated API ---
	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Keyfunc:     deps.Keyfunc,
		Issuer:      deps.Issuer,
		Audience:    deps.Audience,
		GroupsClaim: deps.GroupsClaim,
		Leeway:      30 * time.Second,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, publicPrefix+"/")
		},
	})
	secured := e.Group("/api", authMiddleware)

	privateHandler := handler.NewPrivateHandler()
	secured.GET("/me", privateHandler.Me)
	secured.GET("/protected", privateHandler.Protected)

	itemHandler := handler.NewItemHandler(deps.Items)
	items := secured.Group("/items")
	items.GET("", itemHandler.List)
	items.POST("", itemHandler.Create)
	items.GET("/:id", itemHandler.Get)
	items.PUT("/:id", itemHandler.Update)
	items.DELETE("/:id", itemHandler.Delete)

	cacheHandler := handler.NewCacheHandler(deps.Cache, deps.PodName, deps.CacheTTL, deps.Logger)
	cache := secured.Group("/cache-test")
	cache.GET("/pod", cacheHandler.Pod)
	cache.POST("/set", cacheHandler.Set)
	cache.GET("/get/:key", cacheHandler.Get)
	cache.DELETE("/delete/:key", cacheHandler.Delete)
	cache.GET("/keys", cacheHandler.Keys)

	adminHandler := handler.NewAdminHandler()
	admin := secured.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/stats", adminHandler.Stats)

	return e
}
