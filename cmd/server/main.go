package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/api"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/bot"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/catalog"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/ledger"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/llm"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/session"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/speech"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	log.SetOutput(os.Stdout)
	log.Println("FurnitureOrderAI bot starting...")

	// Required configuration; the process cannot run without it
	for _, name := range []string{"TELEGRAM_BOT_TOKEN", "GIGACHAT_TOKEN"} {
		if os.Getenv(name) == "" {
			log.Fatalf("Missing required environment variable: %s", name)
		}
	}

	catalogStore := catalog.NewStore(getEnv("DATA_DIR", "./data"))
	refresher := catalog.NewRefresher(catalogStore, refreshInterval())
	refresher.Start()
	defer refresher.Stop()

	sessions, err := session.NewStore(getEnv("REDIS_URL", "redis://localhost:6379"))
	if err != nil {
		log.Fatalf("Failed to connect to session store: %v", err)
	}
	defer sessions.Close()

	ledgerWriter, err := ledger.NewWriter(getEnv("ORDERS_DIR", "./orders"))
	if err != nil {
		log.Fatalf("Failed to initialize ledger: %v", err)
	}

	// Optional S3 mirror for ledger backups
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mirror, err := storage.NewS3Mirror(ctx)
	cancel()
	if err != nil {
		log.Printf("[WARN] S3 mirror initialization failed: %v", err)
	} else if mirror.Enabled() {
		ledgerWriter.SetBackupMirror(mirror)
		log.Printf("Ledger backups mirrored to s3://%s", mirror.Bucket)
	}

	speechClient := speech.NewClient(os.Getenv("SALUTE_SPEECH_TOKEN"))
	if !speechClient.Enabled() {
		log.Println("[WARN] Speech recognition not configured, voice orders get a placeholder transcript")
	}

	orderBot, err := bot.New(bot.Config{
		Token:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		TempDir:   getEnv("TEMP_DIR", "./temp"),
		Catalog:   catalogStore,
		Sessions:  sessions,
		Extractor: llm.NewClient(os.Getenv("GIGACHAT_TOKEN")),
		Speech:    speechClient,
		Ledger:    ledgerWriter,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	go orderBot.Start()

	// Admin and health HTTP surface
	handler := api.NewHandler(catalogStore, sessions, ledgerWriter)
	router := setupRouter(handler)
	port := getEnv("ADMIN_PORT", "8085")

	go func() {
		log.Printf("Starting admin API on port %s", port)
		if err := router.Run(":" + port); err != nil {
			log.Fatalf("Failed to start admin API: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down bot...")
	orderBot.Stop()
}

func setupRouter(handler *api.Handler) *gin.Engine {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(logging.JSONLogger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Health and readiness endpoints
	router.GET("/live", func(c *gin.Context) { c.Status(200) })
	router.GET("/ready", handler.Health)
	router.GET("/health", func(c *gin.Context) { c.Status(200) })

	router.POST("/api/admin/login", handler.AdminLogin)

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(api.AuthMiddleware())
	adminGroup.Use(api.AdminMiddleware())
	{
		adminGroup.GET("/statistics", handler.GetStatistics)
		adminGroup.GET("/catalog", handler.GetCatalog)
		adminGroup.POST("/catalog/reload", handler.ReloadCatalog)
	}

	// Root endpoint for basic info
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"service": "order-bot",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	return router
}

// corsMiddleware adds CORS headers to allow cross-origin requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func refreshInterval() time.Duration {
	seconds := 30
	if v := os.Getenv("CATALOG_REFRESH_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			seconds = n
		} else {
			log.Printf("Invalid CATALOG_REFRESH_SECONDS value: %s, using default 30", v)
		}
	}
	return time.Duration(seconds) * time.Second
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
