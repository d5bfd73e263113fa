package router

import (
	"time"

	"decora/config"
	"decora/internal/handler"
	"decora/internal/middleware"
	"decora/internal/repository"
	"decora/internal/service"
	"decora/pkg/gateway"
	"decora/pkg/queue"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, gw gateway.Client, pub *queue.Publisher) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	paymentRepo := repository.NewPaymentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	cartRepo := repository.NewCartRepository(db)

	// Services
	notifSvc := service.NewNotificationService(pub)
	orderSvc := service.NewOrderService(db, orderRepo, productRepo, addressRepo)
	paymentSvc := service.NewPaymentService(db, paymentRepo, orderRepo, cartRepo, orderSvc, gw, notifSvc, &cfg.Gateway)

	// Handlers
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	webhookHandler := handler.NewWebhookHandler(paymentSvc, &cfg.Gateway)
	orderHandler := handler.NewOrderHandler(orderSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		payments := api.Group("/payments")
		payments.Use(authMw)
		{
			payments.POST("/create-order", paymentHandler.CreateOrder)
			payments.POST("/verify", paymentHandler.Verify)
		}

		orders := api.Group("/orders")
		orders.Use(authMw)
		{
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)
	}

	return r
}
