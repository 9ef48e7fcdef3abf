package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Aviraj0403/grocery-checkout/internal/api/handlers"
	"github.com/Aviraj0403/grocery-checkout/internal/api/middleware"
	"github.com/Aviraj0403/grocery-checkout/internal/config"
	"github.com/Aviraj0403/grocery-checkout/internal/repository"
	"github.com/Aviraj0403/grocery-checkout/internal/service"
	"github.com/Aviraj0403/grocery-checkout/pkg/metrics"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, gateway service.GatewayClient, m *metrics.ServerMetrics, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))
	if m != nil {
		router.Use(m.Middleware())
	}

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Grocery Checkout API",
			"endpoints": []string{
				"GET /health",
				"GET /metrics",
				"GET /api/user/addresses",
				"POST /api/user/addresses",
				"POST /api/order/create",
				"POST /api/order/razorpay",
				"POST /api/order/verify",
				"GET /api/order",
				"GET /api/order/:id",
				"PUT /api/admin/orders/:id/status",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API routes (require authentication)
	apiRoutes := router.Group("/api")
	apiRoutes.Use(middleware.AuthMiddleware(repos, logger))
	{
		apiRoutes.GET("/user/addresses", handlers.HandleGetAddresses(repos, logger))
		apiRoutes.POST("/user/addresses", handlers.HandleAddAddress(repos, logger))

		apiRoutes.POST("/order/create", trackCheckout(m, "COD", handlers.HandleCreateOrder(repos, gateway, logger)))
		apiRoutes.POST("/order/razorpay", handlers.HandleCreateGatewayOrder(repos, gateway, logger))
		apiRoutes.POST("/order/verify", trackCheckout(m, "ONLINE", handlers.HandleVerifyPayment(repos, gateway, logger)))
		apiRoutes.GET("/order", handlers.HandleListBuyerOrders(repos, gateway, logger))
		apiRoutes.GET("/order/:id", handlers.HandleGetOrder(repos, gateway, logger))

		adminRoutes := apiRoutes.Group("/admin")
		{
			adminRoutes.PUT("/orders/:id/status", handlers.HandleUpdateOrderStatus(repos, gateway, logger))
		}
	}

	return router
}

// trackCheckout counts checkout attempts per payment method and outcome
func trackCheckout(m *metrics.ServerMetrics, method string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		next(c)
		if m == nil {
			return
		}
		outcome := "succeeded"
		if c.Writer.Status() >= 400 {
			outcome = "failed"
		}
		m.Checkouts.WithLabelValues(method, outcome).Inc()
	}
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
