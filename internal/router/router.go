package router

import (
	"github.com/aokimoto/orderdesk-backend/config"
	"github.com/aokimoto/orderdesk-backend/internal/app/controller"
	"github.com/aokimoto/orderdesk-backend/internal/app/model"
	"github.com/aokimoto/orderdesk-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController    *controller.AuthController
	orderController   *controller.OrderController
	managerController *controller.ManagerController
	authMiddleware    *middleware.AuthMiddleware
	config            *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	orderController *controller.OrderController,
	managerController *controller.ManagerController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:    authController,
		orderController:   orderController,
		managerController: managerController,
		authMiddleware:    authMiddleware,
		config:            cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "ORDERDESK API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authController.Logout)
			auth.POST("/forgot-password", r.authController.ForgotPassword)
			auth.POST("/reset-password", r.authController.ResetPassword)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		// Customer workspace: a customer only ever sees their own orders.
		orders := v1.Group("/orders")
		orders.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleCustomer),
		)
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.GetOrders)
			orders.GET("/:id", r.orderController.GetOrderByID)
		}

		// Manager workspace: the full queue plus user administration. The
		// role is re-resolved from the users table on every request here.
		manager := v1.Group("/manager")
		manager.Use(
			r.authMiddleware.Authenticate(),
			r.authMiddleware.RequireRole(model.RoleManager),
		)
		{
			manager.GET("/orders", r.managerController.ListOrders)
			manager.GET("/orders/export", r.managerController.ExportOrders)
			manager.GET("/orders/:id", r.managerController.GetOrder)
			manager.PUT("/orders/:id/status", r.managerController.UpdateOrderStatus)
			manager.PUT("/orders/:id", r.managerController.EditOrder)
			manager.DELETE("/orders/:id", r.managerController.DeleteOrder)

			manager.GET("/users", r.managerController.ListUsers)
			manager.PUT("/users/:id", r.managerController.UpdateUser)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
