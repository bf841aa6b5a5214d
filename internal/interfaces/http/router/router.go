package router

import (
	"net/http"

	"github.com/erp/catalog/internal/infrastructure/logger"
	"github.com/erp/catalog/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a RouteRegistrar to be registered by Setup
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/<version>
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// EngineConfig holds the middleware settings of the HTTP engine
type EngineConfig struct {
	Logger         *zap.Logger
	CORS           middleware.CORSConfig
	Tracing        middleware.TracingConfig
	Metrics        gin.HandlerFunc
	Tenant         middleware.TenantConfig
	MaxBodyBytes   int64
	TrustedProxies []string
	// Ready reports whether dependencies are reachable for /ready
	Ready func() error
}

// NewEngine builds a gin engine with the catalog middleware chain:
// recovery, tracing, request id, logging, CORS, metrics, body limit and
// tenant resolution, plus /health and /ready
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.Recovery(cfg.Logger),
		middleware.Tracing(cfg.Tracing),
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger),
		middleware.SpanEnricher(),
		middleware.CORSWithConfig(cfg.CORS),
	)
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics)
	}
	if cfg.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	}
	engine.Use(middleware.Tenant(cfg.Tenant))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/ready", func(c *gin.Context) {
		if cfg.Ready != nil {
			if err := cfg.Ready(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	return engine, nil
}
