package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/auth"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/handler"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/middleware"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/model"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/scope"
	"github.com/onurhanbolatt/FrameCraft-sub000/internal/store"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/config"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/database"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/jwtutil"
	"github.com/onurhanbolatt/FrameCraft-sub000/pkg/logger"
	"github.com/onurhanbolatt/FrameCraft-sub000/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load("framecraft")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	log.Info("Starting framecraft service...", cfg.LogConfig()...)

	// Initialize database
	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.Tenant{},
		&model.Account{},
		&model.Role{},
		&model.RoleAssignment{},
		&model.RefreshCredential{},
		&model.Customer{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Token issuing
	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.Config{
		SigningKey: cfg.JWT.SigningKey,
		TTL:        cfg.Token.AccessTokenTTL,
	})
	issuer := auth.NewIssuer(jwtUtil, cfg.Token.RefreshTokenTTL)

	// Stores
	tenants := store.NewTenantStore(db)
	accounts := store.NewAccountStore(db)
	credentials := store.NewCredentialStore(db)
	customers := store.NewCustomerStore(db)

	// Session authority and per-request scope resolution
	sessions := auth.NewSessionService(accounts, tenants, credentials, issuer, log)
	resolver := scope.NewResolver(tenants)

	// Handlers
	authHandler := handler.NewAuthHandler(sessions)
	tenantHandler := handler.NewTenantHandler(tenants)
	accountHandler := handler.NewAccountHandler(accounts)
	customerHandler := handler.NewCustomerHandler(customers)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Session endpoints - these don't belong under /api since they're for
	// getting access to the API
	authGroup := e.Group("/auth")
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/logout", authHandler.Logout)

	// API routes - authenticated, with the tenant scope resolved before any
	// handler runs
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwtUtil))
	api.Use(middleware.TenantScopeMiddleware(resolver))

	// Tenant provisioning - privileged only
	tenantGroup := api.Group("/tenants")
	tenantGroup.Use(middleware.RequireSuperuser)
	tenantGroup.POST("", tenantHandler.Create)
	tenantGroup.GET("/:id", tenantHandler.Get)
	tenantGroup.PUT("/:id", tenantHandler.Update)
	tenantGroup.DELETE("/:id", tenantHandler.Delete)

	// Account provisioning - privileged only
	accountGroup := api.Group("/accounts")
	accountGroup.Use(middleware.RequireSuperuser)
	accountGroup.POST("", accountHandler.Create)
	accountGroup.GET("", accountHandler.List)
	accountGroup.POST("/:id/roles", accountHandler.AssignRole)

	// Tenant-scoped business entities
	customerGroup := api.Group("/customers")
	customerGroup.GET("", customerHandler.List)
	customerGroup.POST("", customerHandler.Create)
	customerGroup.GET("/:id", customerHandler.Get)
	customerGroup.PUT("/:id", customerHandler.Update)
	customerGroup.DELETE("/:id", customerHandler.Delete)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
