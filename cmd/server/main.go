package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	designapp "github.com/invoicestudio/backend/internal/application/design"
	invoiceapp "github.com/invoicestudio/backend/internal/application/invoice"
	studioapp "github.com/invoicestudio/backend/internal/application/studio"
	"github.com/invoicestudio/backend/internal/infrastructure/cache"
	"github.com/invoicestudio/backend/internal/infrastructure/config"
	"github.com/invoicestudio/backend/internal/infrastructure/logger"
	"github.com/invoicestudio/backend/internal/infrastructure/persistence"
	"github.com/invoicestudio/backend/internal/infrastructure/render"
	"github.com/invoicestudio/backend/internal/infrastructure/studiostore"
	"github.com/invoicestudio/backend/internal/interfaces/http/handler"
	"github.com/invoicestudio/backend/internal/interfaces/http/middleware"
	"github.com/invoicestudio/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/invoicestudio/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Invoice Studio API
//	@version		1.0
//	@description	Invoice design and rendering backend: design tokens, template resolution, live editing sessions, HTML preview and PDF export.

//	@contact.name	API Support
//	@contact.url	https://github.com/invoicestudio/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Invoice Studio Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	templateRepo := persistence.NewGormDesignTemplateRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)

	// Resolved-design cache (Redis with in-memory fallback)
	resolvedCache := cache.NewResolvedCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.Cache.ResolvedTTL, log)

	// Rendering stack: HTML preview, browser-print capture, and the
	// native PDF writer share one currency formatter so all three
	// outputs agree on number formatting
	currency := render.NewCurrencyFormatter(cfg.Render.Locale)
	htmlRenderer := render.NewHTMLRenderer(currency)

	capturer, err := render.NewChromeCapturer(&render.CaptureConfig{
		DefaultTimeout: cfg.Render.CaptureTimeout,
		RemoteURL:      cfg.Render.ChromeRemoteURL,
		DisableGPU:     cfg.Render.DisableGPU,
		NoSandbox:      cfg.Render.NoSandbox,
		Scale:          cfg.Render.Scale,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize browser capture renderer", zap.Error(err))
	}
	defer func() {
		if err := capturer.Close(); err != nil {
			log.Error("Error closing browser capture renderer", zap.Error(err))
		}
	}()

	pdfRenderer := render.NewDocumentRenderer(currency, cfg.Render.FontDir, log)

	// Standalone editing store (SQLite)
	studioStore, err := studiostore.Open(cfg.Studio.DBPath, log)
	if err != nil {
		log.Fatal("Failed to open studio store", zap.Error(err))
	}
	defer func() {
		if err := studioStore.Close(); err != nil {
			log.Error("Error closing studio store", zap.Error(err))
		}
	}()

	// Initialize application services
	designService := designapp.NewService(templateRepo, resolvedCache, log)
	invoiceService := invoiceapp.NewService(invoiceRepo, designService, htmlRenderer, capturer, pdfRenderer, log)
	studioService := studioapp.NewService(studioStore, htmlRenderer, capturer, pdfRenderer, cfg.Studio.AutosaveDelay, log)

	// Initialize HTTP handlers
	designHandler := handler.NewDesignTemplateHandler(designService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	studioHandler := handler.NewStudioHandler(studioService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	// 8. Org - Resolve the organization for the request
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Organization context from X-Org-ID, with a default org for
	// single-workspace deployments
	orgConfig := middleware.DefaultOrgConfig()
	orgConfig.Logger = log
	engine.Use(middleware.OrgMiddlewareWithConfig(orgConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Swagger documentation endpoint, gated by config
	swaggerConfig := middleware.SwaggerConfig{
		Enabled:     cfg.Swagger.Enabled,
		RequireAuth: cfg.Swagger.RequireAuth,
		AllowedIPs:  cfg.Swagger.AllowedIPs,
	}
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(swaggerConfig, nil),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Register domain route groups
	r.Register(handler.DesignRoutes(designHandler)).
		Register(handler.InvoiceRoutes(invoiceHandler)).
		Register(handler.StudioRoutes(studioHandler)).
		Register(handler.SystemRoutes(systemHandler))

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Flush any open editing sessions so pending edits are persisted
	if err := studioService.Shutdown(ctx); err != nil {
		log.Error("Error flushing editing sessions", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
