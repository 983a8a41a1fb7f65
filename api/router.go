package api

import (
	"net/http"

	"servicedesk/api/health"
	"servicedesk/api/machine"
	"servicedesk/api/middleware"
	"servicedesk/api/organization"
	"servicedesk/api/ticket"
	"servicedesk/api/user"
	"servicedesk/config"

	"github.com/gin-gonic/gin"
)

// Controllers 全部控制器
type Controllers struct {
	Health       *health.Controller
	Organization *organization.Controller
	Machine      *machine.Controller
	Ticket       *ticket.Controller
	User         *user.Controller
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers Controllers
	metrics     http.Handler
}

// NewRouter Create route configuration；metrics 为 nil 时不暴露指标
func NewRouter(cfg *config.Config, controllers Controllers, metrics http.Handler) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// 顺序很重要
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. Rate limiting
	engine.Use(middleware.ActorMiddleware())                          // 6. Actor headers

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
		metrics:     metrics,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	if r.controllers.Health != nil {
		r.controllers.Health.RegisterRoutes(r.engine)
	}

	if r.metrics != nil && r.config.Metrics.Enabled {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(r.metrics))
	}

	apiGroup := r.engine.Group("/api/v1")
	{
		r.controllers.Organization.RegisterRoutes(apiGroup)
		r.controllers.Machine.RegisterRoutes(apiGroup)
		r.controllers.Ticket.RegisterRoutes(apiGroup)
		r.controllers.User.RegisterRoutes(apiGroup)
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
