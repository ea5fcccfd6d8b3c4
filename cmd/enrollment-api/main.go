package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/cursos-tv/enrollment-api/api/swagger"
	"github.com/cursos-tv/enrollment-api/internal/handler"
	"github.com/cursos-tv/enrollment-api/internal/middleware"
	"github.com/cursos-tv/enrollment-api/internal/repository"
	"github.com/cursos-tv/enrollment-api/internal/service"
	"github.com/cursos-tv/enrollment-api/internal/upstream"
	"github.com/cursos-tv/enrollment-api/pkg/cache"
	"github.com/cursos-tv/enrollment-api/pkg/config"
	"github.com/cursos-tv/enrollment-api/pkg/logger"
	corsmiddleware "github.com/cursos-tv/enrollment-api/pkg/middleware/cors"
	reqidmiddleware "github.com/cursos-tv/enrollment-api/pkg/middleware/requestid"
)

// @title Cursos TV Enrollment API
// @version 1.0.0
// @description Enrollment front service for the TV Tec course platform
// @BasePath /api/v1
// @schemes http

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis backs the course cache and the last-submission receipt. The
	// service stays up without it; caching and receipts degrade gracefully.
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching and receipts disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()

	client := upstream.New(cfg.Upstream, logr, metricsSvc)
	courseCache := repository.NewCacheRepository(redisClient)
	receipts := repository.NewReceiptRepository(redisClient)

	courseSvc := service.NewCourseService(client, courseCache, cfg.Courses, metricsSvc, nil, logr)
	enrollmentSvc := service.NewEnrollmentService(client, courseSvc, receipts, logr)
	reportSvc := service.NewReportService(client, courseSvc, logr)
	authSvc := service.NewAuthService(cfg.Session, nil, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc)
	recordHandler := handler.NewRecordHandler(reportSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.GET("/auth/session", middleware.Session(authSvc), authHandler.Session)

		api.GET("/courses", courseHandler.List)
		api.GET("/courses/:id", courseHandler.Get)

		api.POST("/enrollments", middleware.SubmitRateLimit(cfg.Submit), enrollmentHandler.Submit)
		api.GET("/enrollments/receipt", enrollmentHandler.Receipt)

		admin := api.Group("", middleware.Session(authSvc))
		{
			admin.POST("/courses", courseHandler.Create)
			admin.DELETE("/courses/:id", courseHandler.Delete)

			admin.GET("/records", recordHandler.List)
			admin.GET("/records/export", recordHandler.Export)
			admin.POST("/records/report", recordHandler.Report)
			admin.POST("/records/minors-term", recordHandler.MinorsTerm)
			admin.GET("/records/:cpf/certificate", recordHandler.Certificate)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
