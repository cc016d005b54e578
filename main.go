package main

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/campus-eats-api/config"
	"github.com/kendall-kelly/campus-eats-api/middleware"
	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/kendall-kelly/campus-eats-api/routes"
	"github.com/kendall-kelly/campus-eats-api/services"
	"github.com/kendall-kelly/campus-eats-api/templates"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetConfig(cfg)
	config.SetupLogger(cfg)

	logrus.Info("Starting Campus Eats server...")

	// Connect to database
	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	if err := models.AutoMigrate(config.GetDB()); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}
	logrus.Info("Database migration completed successfully")

	// Sessions live in Redis
	if err := config.ConnectRedis(cfg.RedisURL); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}
	services.InitSessionStore(config.GetRedis(), cfg.SessionTTL)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	logrus.Infof("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the application router with every page and status endpoint
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger())

	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.SetHTMLTemplate(template.Must(templates.Load()))

	router.GET("/health", healthCheck)
	router.GET("/database/status", databaseStatus)

	routes.SetupRoutes(router, cfg)

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Campus Eats API is running",
	})
}

// databaseStatus checks database and session store connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if rdb := config.GetRedis(); rdb == nil || rdb.Ping(ctx).Err() != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SESSION_STORE_CONNECTION_ERROR",
				"message": "Session store connection failed",
			},
		})
		return
	}

	// Get list of tables
	tables, err := db.Migrator().GetTables()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
