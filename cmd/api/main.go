package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/Zensha07/Edvance/api/swagger"
	"github.com/Zensha07/Edvance/internal/handler"
	"github.com/Zensha07/Edvance/internal/middleware"
	"github.com/Zensha07/Edvance/internal/models"
	"github.com/Zensha07/Edvance/internal/repository"
	"github.com/Zensha07/Edvance/internal/service"
	"github.com/Zensha07/Edvance/pkg/cache"
	"github.com/Zensha07/Edvance/pkg/config"
	"github.com/Zensha07/Edvance/pkg/database"
	"github.com/Zensha07/Edvance/pkg/jobs"
	"github.com/Zensha07/Edvance/pkg/logger"
	corsmiddleware "github.com/Zensha07/Edvance/pkg/middleware/cors"
	reqidmiddleware "github.com/Zensha07/Edvance/pkg/middleware/requestid"
	"github.com/Zensha07/Edvance/pkg/storage"
)

// @title Edvance API
// @version 1.0.0
// @description Education platform backend with scholarship eligibility and application workflow
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog caching disabled", "error", err)
		redisClient = nil
	}

	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	exportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}

	uploadSigner := storage.NewSignedURLSigner(cfg.Uploads.SignedURLSecret, cfg.Uploads.SignedURLTTL)
	exportSigner := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherProfileRepository(db)
	studentRepo := repository.NewStudentProfileRepository(db)
	sponsorRepo := repository.NewSponsorRepository(db)
	scholarshipRepo := repository.NewScholarshipRepository(db)
	applicationRepo := repository.NewApplicationRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()

	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	profileSvc := service.NewProfileService(teacherRepo, studentRepo, nil, logr)
	sponsorSvc := service.NewSponsorService(sponsorRepo, uploadStore, nil, logr, service.SponsorServiceConfig{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
	})
	scholarshipSvc := service.NewScholarshipService(scholarshipRepo, sponsorRepo, cacheRepo, metricsSvc, nil, logr, service.ScholarshipServiceConfig{
		Match:    service.MatchOptions{CorrectedComparisons: cfg.Scholarships.CorrectedComparisons},
		CacheTTL: cfg.Scholarships.CacheTTL,
	})
	applicationSvc := service.NewApplicationService(applicationRepo, scholarshipRepo, sponsorRepo, nil, logr)
	materialSvc := service.NewMaterialService(materialRepo, uploadStore, uploadSigner, nil, logr, service.MaterialServiceConfig{
		MaxFileSizeBytes: cfg.Uploads.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Uploads.AllowedMIMEs,
	})

	exportSvc := service.NewExportService(applicationRepo, scholarshipRepo, exportStore, exportSigner, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil, nil)
	reportWorker := service.NewReportWorker(reportRepo, exportSvc, cfg.Reports.WorkerRetries, logr)
	reportQueue := jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportSvc := service.NewReportService(reportRepo, sponsorRepo, reportQueue, exportSvc, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.Reports.Enabled {
		reportQueue.Start(ctx)
		defer reportQueue.Stop()
		reportSvc.RecoverPendingJobs(ctx)
		reportSvc.StartCleanup(ctx)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	profileHandler := handler.NewProfileHandler(profileSvc)
	sponsorHandler := handler.NewSponsorHandler(sponsorSvc)
	scholarshipHandler := handler.NewScholarshipHandler(scholarshipSvc, profileSvc)
	applicationHandler := handler.NewApplicationHandler(applicationSvc, metricsSvc)
	materialHandler := handler.NewMaterialHandler(materialSvc)
	reportHandler := handler.NewReportHandler(reportSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc, db)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
	auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
	auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)

	profiles := api.Group("/profiles", middleware.JWT(authSvc))
	profiles.PUT("/teacher", middleware.RequireRoles(models.RoleTeacher), profileHandler.UpsertTeacher)
	profiles.GET("/teacher", middleware.RequireRoles(models.RoleTeacher), profileHandler.GetTeacher)
	profiles.PUT("/student", middleware.RequireRoles(models.RoleStudent), profileHandler.UpsertStudent)
	profiles.GET("/student", middleware.RequireRoles(models.RoleStudent), profileHandler.GetStudent)
	profiles.PUT("/sponsor", middleware.RequireRoles(models.RoleSponsor), sponsorHandler.Upsert)
	profiles.GET("/sponsor", middleware.RequireRoles(models.RoleSponsor), sponsorHandler.Get)

	scholarships := api.Group("/scholarships", middleware.JWT(authSvc))
	scholarships.GET("", scholarshipHandler.List)
	scholarships.POST("", middleware.RequireRoles(models.RoleSponsor), scholarshipHandler.Create)
	scholarships.GET("/eligible", middleware.RequireRoles(models.RoleStudent), scholarshipHandler.ListEligible)
	scholarships.GET("/mine", middleware.RequireRoles(models.RoleSponsor), scholarshipHandler.ListMine)
	scholarships.DELETE("/:id", middleware.RequireRoles(models.RoleSponsor, models.RoleAdmin), scholarshipHandler.Deactivate)

	applications := api.Group("/applications", middleware.JWT(authSvc))
	applications.POST("", middleware.RequireRoles(models.RoleStudent), applicationHandler.Apply)
	applications.GET("", middleware.RequireRoles(models.RoleSponsor, models.RoleAdmin), applicationHandler.List)
	applications.PATCH("/:id/status", middleware.RequireRoles(models.RoleSponsor, models.RoleAdmin), applicationHandler.UpdateStatus)

	materials := api.Group("/materials")
	materials.GET("/download/:token", materialHandler.Download)
	materials.Use(middleware.JWT(authSvc))
	materials.POST("", middleware.RequireRoles(models.RoleTeacher), materialHandler.Upload)
	materials.GET("", materialHandler.List)
	materials.GET("/:id/download-link", materialHandler.DownloadLink)
	materials.DELETE("/:id", middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin), materialHandler.Delete)

	if cfg.Reports.Enabled {
		reports := api.Group("/reports")
		reports.GET("/download/:token", reportHandler.DownloadReport)
		reports.Use(middleware.JWT(authSvc))
		reports.POST("/generate", middleware.RequireRoles(models.RoleSponsor, models.RoleAdmin), reportHandler.GenerateReport)
		reports.GET("/status/:id", reportHandler.ReportStatus)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
