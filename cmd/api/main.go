package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hyperskill-app/hyperskill-api/api/swagger"
	"github.com/hyperskill-app/hyperskill-api/internal/handler"
	"github.com/hyperskill-app/hyperskill-api/internal/middleware"
	"github.com/hyperskill-app/hyperskill-api/internal/models"
	"github.com/hyperskill-app/hyperskill-api/internal/repository"
	"github.com/hyperskill-app/hyperskill-api/internal/service"
	"github.com/hyperskill-app/hyperskill-api/pkg/cache"
	"github.com/hyperskill-app/hyperskill-api/pkg/config"
	"github.com/hyperskill-app/hyperskill-api/pkg/database"
	"github.com/hyperskill-app/hyperskill-api/pkg/logger"
	corsmiddleware "github.com/hyperskill-app/hyperskill-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hyperskill-app/hyperskill-api/pkg/middleware/requestid"
)

// @title HyperSkill API
// @version 1.0.0
// @description Marketplace API connecting learners with verified teachers
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	userRepo := repository.NewUserRepository(db)
	learnerRepo := repository.NewLearnerRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, logr, cfg.Verification.CacheEnabled)
	}

	notifications := service.NewNotificationService(cfg.Notifications, logr)
	notifications.Start(context.Background())
	defer notifications.Stop()

	authService := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	profileService := service.NewProfileService(userRepo, learnerRepo, validate, logr)
	teacherService := service.NewTeacherService(teacherRepo, cacheService, validate, logr)
	verificationService := service.NewVerificationService(teacherRepo, cacheService, notifications, validate, logr, service.VerificationConfig{
		PageSize:      cfg.Verification.PageSize,
		MaxPageSize:   cfg.Verification.MaxPageSize,
		StatsCacheTTL: cfg.Verification.StatsCacheTTL,
	})
	bookingService := service.NewBookingService(bookingRepo, teacherRepo, validate, logr)
	catalogService := service.NewCatalogService(catalogRepo, logr)

	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	teacherHandler := handler.NewTeacherHandler(teacherService)
	adminHandler := handler.NewAdminHandler(verificationService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
	}

	profile := api.Group("/profile", middleware.JWT(authService))
	{
		profile.POST("/role", profileHandler.SelectRole)
		profile.GET("/me", profileHandler.Me)
	}

	teachers := api.Group("/teachers", middleware.JWT(authService))
	{
		teachers.POST("", middleware.RequireRoles(models.RoleTeacher), teacherHandler.Register)
		teachers.GET("/me", middleware.RequireRoles(models.RoleTeacher), teacherHandler.Me)
		teachers.GET("", teacherHandler.Browse)
		teachers.GET("/:id", teacherHandler.Detail)
	}

	admin := api.Group("/admin", middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/teachers", adminHandler.ListTeachers)
		admin.GET("/teachers/stats", adminHandler.Stats)
		if cfg.Exports.Enabled {
			admin.GET("/teachers/export", adminHandler.Export)
		}
		admin.GET("/teachers/:id", adminHandler.GetTeacher)
		admin.PATCH("/teachers/:id/status", adminHandler.Decide)
	}

	bookings := api.Group("/bookings", middleware.JWT(authService))
	{
		bookings.POST("", middleware.RequireRoles(models.RoleLearner), bookingHandler.Book)
		bookings.GET("/incoming", middleware.RequireRoles(models.RoleTeacher), bookingHandler.Incoming)
		bookings.GET("/mine", middleware.RequireRoles(models.RoleLearner), bookingHandler.Mine)
	}

	catalog := api.Group("/catalog", middleware.JWT(authService))
	{
		catalog.GET("/categories", catalogHandler.Categories)
		catalog.GET("/fields", catalogHandler.Fields)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
