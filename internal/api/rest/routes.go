package rest

import (
	"github.com/Dhoini/Checkout-gateway/config"
	"github.com/Dhoini/Checkout-gateway/internal/api/rest/handlers"
	"github.com/Dhoini/Checkout-gateway/internal/api/rest/middleware"
	"github.com/Dhoini/Checkout-gateway/internal/metrics"
	"github.com/Dhoini/Checkout-gateway/internal/render"
	"github.com/Dhoini/Checkout-gateway/internal/repository"
	"github.com/Dhoini/Checkout-gateway/internal/service"
	"github.com/Dhoini/Checkout-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps зависимости маршрутизатора
type Deps struct {
	Checkout *service.CheckoutService
	Capture  *service.CaptureService
	Cards    repository.CardRepository
	Session  repository.SessionStore
	Renderer *render.FormRenderer
	Metrics  metrics.PaymentMetrics
	Registry *prometheus.Registry
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(deps Deps, cfg *config.Config, log *logger.Logger) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", handlers.NewHealthCheck(cfg))

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))

	// Инициализация обработчиков
	checkoutHandler := handlers.NewCheckoutHandler(deps.Checkout, deps.Cards, deps.Renderer, cfg, log)
	validationHandler := handlers.NewValidationHandler(deps.Session, deps.Metrics, log)
	webhookHandler := handlers.NewWebhookHandler(deps.Capture, log)

	identifier := middleware.NewShopperIdentifier(cfg.Auth.JWTSecret, log)

	// API оформления заказа
	v1 := r.Group("/api/v1")
	v1.Use(identifier.Identify())
	{
		checkout := v1.Group("/checkout")
		{
			checkout.GET("/config", checkoutHandler.GetConfig)
			checkout.GET("/form", checkoutHandler.GetForm)
			checkout.POST("/:order_id/pay", checkoutHandler.Pay)
			checkout.POST("/validation-errors", validationHandler.RelayErrors)
		}
	}

	// Вебхуки магазина на корневом уровне роутера
	webhooks := r.Group("/webhooks")
	{
		webhooks.POST("/order-status", webhookHandler.HandleOrderStatusChanged)
	}

	return r
}
