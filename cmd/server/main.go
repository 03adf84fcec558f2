package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/database"
	"gym_crm_backend/internal/events"
	"gym_crm_backend/internal/middleware"
	"gym_crm_backend/internal/monitoring"
	"gym_crm_backend/internal/router"
	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize Logger
	utils.InitLogger()

	if err := utils.InitSentry(); err != nil {
		utils.LogError(err, "Sentry initialization failed, continuing without it")
	}
	defer utils.FlushSentry()

	// Load database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "gym_crm_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "gym_crm_password")
	dbName := utils.Getenv("DB_NAME", "gym_crm_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "")

	// Initialize Database
	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"host": dbHost, "db": dbName})

	// Redis and Kafka are optional: the service degrades to uncached reads
	// and no event feed when they are unreachable.
	redisCache, err := cache.NewRedisCache()
	if err != nil {
		utils.LogError(err, "Redis unavailable, running without cache")
		redisCache = nil
	} else {
		defer redisCache.Close()
	}

	publisher, err := events.NewKafkaPublisher()
	if err != nil {
		utils.LogError(err, "Kafka unavailable, running without event feed")
		publisher = nil
	} else {
		defer publisher.Close()
	}

	monitoring.Init()

	engine := gin.Default()

	engine.Use(utils.GinLogger())
	engine.Use(middleware.PrometheusMetrics())
	engine.Use(middleware.SentryMiddleware())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.GET("/metrics", gin.WrapH(monitoring.Handler()))

	// Setup all application routes
	router.Setup(engine, database.GetDB(), redisCache, publisher, services.NewSystemClock())

	// Server port configuration
	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
