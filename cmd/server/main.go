package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/transitbook/booking-backend/internal/config"
	"github.com/transitbook/booking-backend/internal/database"
	"github.com/transitbook/booking-backend/internal/handlers"
	"github.com/transitbook/booking-backend/internal/middleware"
	"github.com/transitbook/booking-backend/internal/queue"
	"github.com/transitbook/booking-backend/internal/services"
	"github.com/transitbook/booking-backend/pkg/jwt"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting TransitBook Booking Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Run schema migrations
	if err := database.RunMigrations(db); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations applied")

	// Initialize repositories
	tripRepo := database.NewTripRepository(db)
	bookingRepo := database.NewBookingRepository(db)
	fareRepo := database.NewTripFareRepository(db)
	userRepo := database.NewUserRepository(db)
	routeRepo := database.NewRouteRepository(db)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	var publisher services.EventPublisher
	if cfg.Queue.Enabled {
		publisher = queue.NewPublisher(cfg.Queue.URL, logger)
		logger.Info("Event publishing enabled")
	} else {
		logger.Info("Event publishing disabled")
	}

	ledgerService := services.NewSeatLedgerService(tripRepo, logger)
	fareService := services.NewFareService(fareRepo, logger)
	tripService := services.NewTripService(tripRepo, routeRepo, logger)
	routeService := services.NewRouteService(routeRepo, logger)
	lifecycleService := services.NewTripLifecycleService(tripRepo, bookingRepo, publisher, logger)
	bookingService := services.NewBookingService(bookingRepo, userRepo, ledgerService, fareService, publisher, cfg.Booking, logger)
	ticketService := services.NewTicketService(bookingRepo, tripRepo, userRepo, logger)
	logger.Info("Services initialized")

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, ticketService)
	tripHandler := handlers.NewTripHandler(tripService, lifecycleService, bookingService, fareService)
	routeHandler := handlers.NewRouteHandler(routeService)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public trip catalog and reference data
		v1.GET("/trips", tripHandler.ListTrips)
		v1.GET("/trips/:id", tripHandler.GetTrip)
		v1.GET("/trips/:id/fares", tripHandler.ListTripFares)
		v1.GET("/fare-categories", tripHandler.ListFareCategories)
		v1.GET("/booking-options", tripHandler.ListBookingOptions)
		v1.GET("/routes/:id", routeHandler.GetRoute)
		v1.GET("/cities/:id/stations", routeHandler.ListCityStations)

		// Booking routes (protected)
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.AuthMiddleware(jwtService))
		{
			bookings.POST("", bookingHandler.CreateBooking)
			bookings.GET("", bookingHandler.ListMyBookings)
			bookings.GET("/:id", bookingHandler.GetBooking)
			bookings.POST("/:id/cancel", bookingHandler.CancelBooking)
			bookings.GET("/:id/ticket", bookingHandler.GetETicket)
		}

		// Admin routes (protected, admin role required)
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtService))
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/trips", tripHandler.CreateTrip)
			admin.POST("/trips/:id/complete", tripHandler.CompleteTrip)
			admin.POST("/trips/:id/cancel", tripHandler.CancelTrip)
			admin.DELETE("/trips/:id", tripHandler.TrashTrip)
			admin.POST("/trips/:id/restore", tripHandler.RestoreTrip)
			admin.DELETE("/trips/:id/permanent", tripHandler.PermanentDeleteTrip)

			admin.PATCH("/bookings/:id/status", bookingHandler.UpdateBookingStatus)
			admin.DELETE("/bookings/:id", bookingHandler.DeleteBooking)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, exists := middleware.GetUserContext(c); exists {
			fields["user_id"] = userCtx.UserID.String()
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			if status >= 500 {
				entry.Error("Request completed with server error")
			} else if status >= 400 {
				entry.Warn("Request completed with client error")
			} else {
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
