package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comercia/bootstrap"
	"comercia/common"
	"comercia/config"
	"comercia/database"
	"comercia/middleware"
	roleAPI "comercia/modules/role/delivery/api"
	roleRepository "comercia/modules/role/repository"
	roleUC "comercia/modules/role/usecase"
	userAPI "comercia/modules/user/delivery/api"
	userRepository "comercia/modules/user/repository"
	userUC "comercia/modules/user/usecase"
	"comercia/pkg/cache"
	"comercia/pkg/log"
	"comercia/validator"

	"github.com/gin-gonic/gin"
)

func main() {
	// Parse command line flags
	envPath := flag.String("env-file", "", "ENV config file path")
	yamlPath := flag.String("config", "./config/config.yml", "YAML config file path")
	flag.Parse()

	configPaths := []string{*yamlPath}
	if *envPath == "" {
		fmt.Printf("App is starting with config path is '%s' and no load env file\n", *yamlPath)
	} else {
		fmt.Printf("App is starting with config path is '%s' and env path is '%s'...\n", *yamlPath, *envPath)
		configPaths = append(configPaths, *envPath)
	}

	cfg, err := config.Load(configPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load config: %w", err))
	}

	if err = config.Validate(cfg); err != nil {
		panic(fmt.Errorf("invalid config: %w", err))
	}

	// Initialize logger
	var logger log.Logger
	if cfg.App().IsProduction() {
		logger = log.MustNewProductionLogger(cfg.App().Name(), cfg.App().Version())
	} else {
		logger = log.MustNewDevelopmentLogger()
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			fmt.Printf("Failed to sync logger: %v\n", err)
		}
	}()

	common.SetLogger(logger)
	log.SetDefaultLogger(logger)

	logger.Info("Application starting",
		log.String("name", cfg.App().Name()),
		log.String("version", cfg.App().Version()),
		log.String("environment", cfg.App().Environment()),
		log.String("config_path", *yamlPath),
	)

	// Register custom validation tags (role_code, resource, action, ...)
	// with Gin's binding validator before any handler binds a request.
	validator.RegisterValidatorWithGin()

	db, err := database.Connect(cfg.Database(), logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", log.Error(err))
	}

	if err = database.MigrateDB(db); err != nil {
		logger.Fatal("Failed to migrate database", log.Error(err))
	}

	logger.Info("Database connected and migrated successfully")

	// Initialize cache. An empty Redis host selects the in-memory
	// implementation, which is enough for single-node deployments.
	cacheClient, err := cache.New(&cache.Config{
		Host:       cfg.Redis().Host(),
		Port:       cfg.Redis().Port(),
		Password:   cfg.Redis().Password(),
		DB:         cfg.Redis().DB(),
		DefaultTTL: cfg.Cache().DefaultTTL(),
	}, logger)
	if err != nil {
		logger.Fatal("Failed to create cache client", log.Error(err))
	}
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := userRepository.NewUserRepository(db)
	roleRepo := roleRepository.NewRoleRepository(db)
	roleCache := roleRepository.NewRoleCache(cacheClient, logger)
	roleResolver := roleRepository.NewRoleResolver(roleRepo, roleCache)

	// Initialize usecases. The user repository doubles as the assignment
	// counter that guards role deletion, and the role usecase is the role
	// finder the user usecase consults when assigning roles.
	templates := bootstrap.NewRegistry()
	roleUsecase := roleUC.NewRoleUsecase(roleRepo, roleCache, userRepo, templates, logger)

	bcryptHasher := common.NewBcryptHasher()
	userUsecase := userUC.NewUserUsecase(userRepo, roleUsecase, bcryptHasher)

	// Seed the default tenant with the system roles when configured. Safe
	// to repeat across restarts, the upsert refreshes roles in place.
	if cfg.App().ProvisionOnStartup() {
		tenantID := cfg.App().DefaultTenantID()
		if _, err := roleUsecase.ProvisionTenant(context.Background(), tenantID); err != nil {
			logger.Fatal("Failed to provision default tenant",
				log.TenantID(tenantID),
				log.Error(err),
			)
		}
		logger.Info("Default tenant provisioned", log.TenantID(tenantID))
	}

	jwtProvider := common.NewJWTProvider(cfg.App())

	// Initialize dependencies for middlewares
	middlewares := middleware.NewMiddlewares(middleware.Dependencies{
		Cache:        cacheClient,
		Logger:       logger,
		JwtProvider:  jwtProvider,
		RoleResolver: roleResolver,
	})

	// Initialize handlers
	roleHandler := roleAPI.NewRoleHandler(roleUsecase, templates, middlewares)
	authzHandler := roleAPI.NewAuthzHandler(middlewares)
	userHandler := userAPI.NewUserHandler(userUsecase, middlewares)

	// Disable Gin's default logger and recovery
	gin.DisableConsoleColor()
	gin.SetMode(gin.ReleaseMode)

	// Create Gin server without default middleware
	r := gin.New()

	// Add custom middleware in order
	r.Use(middlewares.CORS(middleware.CORSConfig{
		AllowOrigins:     cfg.Server().AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	r.Use(middlewares.RequestIDMiddleware())

	if cfg.RateLimit().Enabled() {
		r.Use(middlewares.RateLimitWithLogger(middleware.RateLimitConfig{
			WindowSize:  time.Minute,
			MaxRequests: int64(cfg.RateLimit().RequestsPerMinute()),
			KeyPrefix:   "global:",
			SkipPaths:   []string{"/health"},
		}))
	}

	r.Use(middlewares.LoggingMiddleware(middleware.LoggerConfig{
		SkipPaths: []string{"/health"},
	}))
	r.Use(gin.Recovery())

	// Register routes
	apiGroup := r.Group("/api/v1")
	roleHandler.RegisterRoutes(apiGroup)
	authzHandler.RegisterRoutes(apiGroup)
	userHandler.RegisterRoutes(apiGroup)

	// Add health check endpoint
	r.GET("/health", func(c *gin.Context) {
		status := "ok"
		httpStatus := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		if err := cacheClient.Ping(c.Request.Context()); err != nil {
			status = "degraded"
		}

		c.JSON(httpStatus, gin.H{"status": status, "timestamp": time.Now().Unix()})
	})

	// Graceful shutdown setup
	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server().Port()),
		Handler:        r,
		ReadTimeout:    cfg.Server().ReadTimeout(),
		WriteTimeout:   cfg.Server().WriteTimeout(),
		IdleTimeout:    cfg.Server().IdleTimeout(),
		MaxHeaderBytes: cfg.Server().MaxHeaderBytes(),
	}

	// Run server in goroutine
	go func() {
		logger.Info("Starting HTTP server",
			log.Int("port", cfg.Server().Port()),
			log.String("host", cfg.Server().Host()),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", log.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", log.Error(err))
	} else {
		logger.Info("Server exited gracefully")
	}
}
