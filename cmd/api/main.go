package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"line-item-service/internal/config"
	"line-item-service/internal/database"
	"line-item-service/internal/handlers"
	"line-item-service/internal/maintenance"
	"line-item-service/internal/ratelimit"
	"line-item-service/internal/search"
)

func main() {
	// Load configuration
	configPath := getEnv("CONFIG_PATH", "/app/config/line_item_config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database based on configuration. Startup is sequential and
	// blocking: no connection, no server.
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	var db *database.GormDB
	if dbType == "postgres" {
		log.Println("Using PostgreSQL")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		host := getEnvOrConfig(pgCfg.Host, "DB_HOST", "")
		dbname := getEnvOrConfig(pgCfg.Database, "DB_NAME", "lineitems_db")
		if host == "" {
			log.Fatal("No usable PostgreSQL connection configured: set database.postgres.host or DB_HOST")
		}

		db, err = database.NewPostgresDB(
			host,
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "lineitems_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "lineitems_pass"),
			dbname,
			pgCfg.SSLMode,
		)
	} else {
		log.Println("Using MySQL")
		mysqlCfg := appConfig.Database.MySQL

		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		host := getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "")
		if host == "" {
			log.Fatal("No usable MySQL connection configured: set database.mysql.host or DB_HOST")
		}

		db, err = database.NewMySQLDB(
			host,
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "lineitems_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "lineitems_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "lineitems_db"),
		)
	}
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	// Initialize Meilisearch using config. The search index is optional:
	// without a configured host the service runs database-only.
	var searchClient *search.SearchClient
	meilisearchHost := getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "")
	if meilisearchHost != "" {
		meilisearchKey := getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "")
		searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)

		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Search is not configured, text search will fall back to the database")
	}

	// Initialize and start the expiry archiver
	maintService := maintenance.NewService(db, searchClient, appConfig)
	if err := maintService.Start(); err != nil {
		log.Printf("Warning: Failed to start maintenance scheduler: %v", err)
	}
	defer maintService.Stop()

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error."})
	}))

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// Initialize write limiter
	writeLimiter := ratelimit.NewWriteLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)

	lineItemHandler := handlers.NewLineItemHandler(db, searchClient, appConfig.Validation.StrictAttributes)
	adminHandler := handlers.NewAdminHandler(db, searchClient, maintService)

	// Routes
	r.GET("/", rootHandler)
	r.GET("/health", healthCheck)

	r.GET("/line-items/search", lineItemHandler.SearchLineItems)
	r.GET("/line-items/:id", lineItemHandler.GetLineItem)
	r.GET("/line-items", lineItemHandler.ListLineItems)
	r.POST("/line-items", rateLimitMiddleware(writeLimiter), lineItemHandler.CreateLineItems)
	r.PUT("/line-items/:id", rateLimitMiddleware(writeLimiter), lineItemHandler.UpdateLineItem)

	// Admin API routes (requires authentication in production)
	admin := r.Group("/admin")
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/ratelimit/stats", func(c *gin.Context) {
			c.JSON(http.StatusOK, writeLimiter.GetStats())
		})
		admin.POST("/maintenance/run", adminHandler.RunMaintenance)
		admin.POST("/search/reindex", adminHandler.ReindexAll)
	}

	port := getEnv("PORT", "")
	if port == "" {
		port = fmt.Sprintf("%d", appConfig.Server.Port)
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// rateLimitMiddleware returns a Gin middleware that enforces the write limit
func rateLimitMiddleware(limiter *ratelimit.WriteLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.AllowRequest() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
				"stats":   limiter.GetStats(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func rootHandler(c *gin.Context) {
	c.String(http.StatusOK, "LineItem Microservice is running.")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
