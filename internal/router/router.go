package router

import (
	"github.com/gin-gonic/gin"
	"github.com/tiendago/tienda-backend/config"
	"github.com/tiendago/tienda-backend/internal/app/controller"
	"github.com/tiendago/tienda-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	userController     *controller.UserController
	productController  *controller.ProductController
	cartController     *controller.CartController
	orderController    *controller.OrderController
	favoriteController *controller.FavoriteController
	reviewController   *controller.ReviewController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	userController *controller.UserController,
	productController *controller.ProductController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	favoriteController *controller.FavoriteController,
	reviewController *controller.ReviewController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		userController:     userController,
		productController:  productController,
		cartController:     cartController,
		orderController:    orderController,
		favoriteController: favoriteController,
		reviewController:   reviewController,
		authMiddleware:     authMiddleware,
		config:             cfg,
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
			"message": "TiendaGo API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		users := v1.Group("/users")
		users.Use(r.authMiddleware.Authenticate())
		{
			users.GET("", r.authMiddleware.RequireRole("admin"), r.userController.ListUsers)
			users.GET("/:id", r.userController.GetUser)
			users.PUT("/:id", r.userController.UpdateUser)
			users.DELETE("/:id", r.userController.DeleteUser)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/reviews", r.reviewController.GetProductReviews)

			products.POST("/:id/reviews",
				r.authMiddleware.Authenticate(),
				r.reviewController.CreateReview,
			)

			products.GET("/export",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.ExportProducts,
			)
			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DeleteProduct,
			)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("", r.cartController.AddToCart)
			cart.PUT("/:id", r.cartController.UpdateCartItem)
			cart.DELETE("/:id", r.cartController.RemoveFromCart)
			cart.DELETE("", r.cartController.ClearCart)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.POST("", r.orderController.CreateOrder)
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)

			orders.GET("/admin",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.GetAllOrders,
			)
			orders.PUT("/:id/status",
				r.authMiddleware.RequireRole("admin"),
				r.orderController.UpdateOrderStatus,
			)
		}

		favorites := v1.Group("/favorites")
		favorites.Use(r.authMiddleware.Authenticate())
		{
			favorites.GET("", r.favoriteController.GetFavorites)
			favorites.POST("", r.favoriteController.AddFavorite)
			favorites.DELETE("/:productId", r.favoriteController.RemoveFavorite)
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
