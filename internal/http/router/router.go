package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"basegraph.app/hooks/internal/http/dto"
	"basegraph.app/hooks/internal/http/handler"
	"basegraph.app/hooks/internal/http/middleware"
	"basegraph.app/hooks/internal/service"
)

const greeting = "hooks OK"

type RouterConfig struct {
	APIKey       string
	MaxBodyBytes int64
	// Empty disables the otelgin middleware.
	OTelServiceName string
}

// New builds the engine with the standard middleware chain and all routes.
func New(services *service.Services, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Logger logs with trace context → Recovery catches panics inside Logger
	if cfg.OTelServiceName != "" {
		router.Use(otelgin.Middleware(cfg.OTelServiceName))
	}
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	SetupRoutes(router, services, cfg)
	return router
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, greeting)
	})

	healthHandler := handler.NewHealthHandler(services.Health())
	router.GET("/health", healthHandler.Health)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	webhookHandler := handler.NewWebhookHandler(services.Webhooks(), cfg.MaxBodyBytes)
	WebhookRouter(router.Group("/webhook", middleware.RequireAPIKey(cfg.APIKey)), webhookHandler)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.Error("not found"))
	})
}
