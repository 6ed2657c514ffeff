package http

import (
	"net/http"

	"github.com/ridewave/ridewave_rental_service/internal/config"
	"github.com/ridewave/ridewave_rental_service/internal/core/ports"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Router struct {
	router *gin.Engine
}

func NewRouter(
	cfg *config.HTTP,
	tokenService ports.TokenService,
	authHandler *AuthHandler,
	bikeHandler *BikeHandler,
	accessoryHandler *AccessoryHandler,
	bookingHandler *BookingHandler,
	loyaltyHandler *LoyaltyHandler,
	adminHandler *AdminHandler,
) (*Router, error) {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.AllowedOrigins},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Auth routes
	auth := router.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Catalog routes, no auth required
	router.GET("/bikes", bikeHandler.ListBikes)
	router.GET("/bikes/:id", bikeHandler.GetBike)
	router.GET("/accessories", accessoryHandler.ListAccessories)
	router.GET("/accessories/:id", accessoryHandler.GetAccessory)

	// Rides routes
	rides := router.Group("/rides")
	rides.Use(AuthMiddleware(tokenService))
	{
		rides.POST("", bookingHandler.CreateRide)
		rides.POST("/quote", bookingHandler.QuoteRide)
		rides.GET("/my", bookingHandler.GetMyRides)
		rides.GET("/:id", bookingHandler.GetRide)
		rides.POST("/:id/cancel", bookingHandler.CancelRide)
	}

	// Loyalty routes
	loyalty := router.Group("/loyalty")
	loyalty.Use(AuthMiddleware(tokenService))
	{
		loyalty.GET("/me", loyaltyHandler.GetMyLoyalty)
	}

	// Driver routes
	driver := router.Group("/driver")
	driver.Use(AuthMiddleware(tokenService), DriverMiddleware())
	{
		driver.GET("/rides/pending", bookingHandler.GetPendingRides)
		driver.POST("/rides/:id/accept", bookingHandler.AcceptRide)
	}

	// Admin routes
	admin := router.Group("/admin")
	admin.Use(AuthMiddleware(tokenService), AdminMiddleware())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)

		admin.POST("/bikes", bikeHandler.CreateBike)
		admin.PUT("/bikes/:id", bikeHandler.UpdateBike)
		admin.DELETE("/bikes/:id", bikeHandler.DeleteBike)

		admin.POST("/accessories", accessoryHandler.CreateAccessory)

		admin.GET("/rides", adminHandler.ListRides)
		admin.POST("/rides/:id/cancel", bookingHandler.CancelRide)
		admin.POST("/rides/:id/complete", adminHandler.CompleteRide)

		admin.GET("/users", adminHandler.ListUsers)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/settings", adminHandler.ListSettings)
		admin.PUT("/settings/:key", adminHandler.UpdateSetting)

		admin.GET("/export/bookings", adminHandler.ExportBookings)
		admin.GET("/export/users", adminHandler.ExportUsers)
		admin.GET("/export/revenue", adminHandler.ExportRevenue)
	}

	return &Router{router: router}, nil
}

func (r *Router) Serve(addr string) error {
	return r.router.Run(addr)
}

func (r *Router) Engine() *gin.Engine {
	return r.router
}
