package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/iomp-platform/iomp-api/api/swagger"
	"github.com/iomp-platform/iomp-api/internal/handler"
	"github.com/iomp-platform/iomp-api/internal/middleware"
	"github.com/iomp-platform/iomp-api/internal/models"
	"github.com/iomp-platform/iomp-api/internal/repository"
	"github.com/iomp-platform/iomp-api/internal/service"
	"github.com/iomp-platform/iomp-api/pkg/cache"
	"github.com/iomp-platform/iomp-api/pkg/config"
	"github.com/iomp-platform/iomp-api/pkg/database"
	"github.com/iomp-platform/iomp-api/pkg/llm"
	"github.com/iomp-platform/iomp-api/pkg/logger"
	corsmiddleware "github.com/iomp-platform/iomp-api/pkg/middleware/cors"
	reqidmiddleware "github.com/iomp-platform/iomp-api/pkg/middleware/requestid"
	"github.com/iomp-platform/iomp-api/pkg/storage"
)

// @title IOMP API
// @version 1.0.0
// @description Institutional backend: auth, academic entities, messaging and an AI assistant
// @BasePath /api
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
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}

	var llmClient llm.Client
	if client := llm.NewOpenAIClient(cfg.Chatbot); client != nil {
		llmClient = client
	} else {
		logr.Info("no language-model API key configured, chatbot runs in offline mode")
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	orgRepo := repository.NewOrganizationRepository(db)
	eventRepo := repository.NewEventRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	classroomRepo := repository.NewClassroomRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	postRepo := repository.NewPostRepository(db)
	chatRepo := repository.NewChatRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, logr, service.AuthConfig{
		TokenSecret: cfg.JWT.Secret,
		TokenExpiry: cfg.JWT.Expiration,
	})
	userSvc := service.NewUserService(userRepo, orgRepo, authSvc, validate, logr)
	orgSvc := service.NewOrganizationService(orgRepo, validate, logr)
	eventSvc := service.NewEventService(eventRepo, cacheRepo, validate, logr)
	announcementSvc := service.NewAnnouncementService(announcementRepo, cacheRepo, validate, logr)
	classroomSvc := service.NewClassroomService(classroomRepo, userRepo, store, cfg.Uploads.PublicPrefix, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, validate, logr)
	messageSvc := service.NewMessageService(messageRepo, validate, logr)
	postSvc := service.NewPostService(postRepo, validate, logr)
	accountSvc := service.NewAccountService(userRepo, service.NewMemorySettingsStore(), logr)
	chatSvc := service.NewChatService(chatRepo, userRepo, attendanceRepo, classroomRepo,
		eventRepo, announcementRepo, cacheRepo, llmClient, cfg.Chatbot.ContextTTL, metricsSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc, userSvc)
	accountHandler := handler.NewAccountHandler(accountSvc)
	userHandler := handler.NewUserHandler(userSvc)
	orgHandler := handler.NewOrganizationHandler(orgSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	announcementHandler := handler.NewAnnouncementHandler(announcementSvc)
	classroomHandler := handler.NewClassroomHandler(classroomSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	messageHandler := handler.NewMessageHandler(messageSvc)
	postHandler := handler.NewPostHandler(postSvc)
	chatHandler := handler.NewChatHandler(chatSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = cfg.Uploads.MaxFileSizeBytes
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.JWT(authSvc)
	staffOnly := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/signup", authHandler.Signup)
		api.GET("/auth/me", requireAuth, authHandler.Me)
		api.GET("/auth/notifications", requireAuth, accountHandler.Notifications)
		api.GET("/auth/settings", requireAuth, accountHandler.GetSettings)
		api.PUT("/auth/settings", requireAuth, accountHandler.UpdateSettings)

		api.GET("/users", requireAuth, userHandler.List)
		api.POST("/organizations", orgHandler.Create)

		api.GET("/posts", postHandler.List)
		api.POST("/posts", requireAuth, postHandler.Create)

		api.GET("/events", eventHandler.List)
		api.GET("/events/:id", eventHandler.Get)
		api.POST("/events", requireAuth, staffOnly, eventHandler.Create)
		api.POST("/events/:id/register", requireAuth, eventHandler.Register)

		api.GET("/announcements", announcementHandler.List)
		api.POST("/announcements", requireAuth, staffOnly, announcementHandler.Create)

		api.GET("/classrooms", requireAuth, classroomHandler.List)
		api.POST("/classrooms", requireAuth, middleware.RequireRoles(models.RoleTeacher), classroomHandler.Create)
		api.DELETE("/classrooms/:id", requireAuth, classroomHandler.Delete)
		api.GET("/classrooms/:id/details", requireAuth, classroomHandler.Details)
		api.POST("/classrooms/:id/materials", requireAuth, classroomHandler.UploadMaterial)
		api.POST("/classrooms/:id/assignments", requireAuth, classroomHandler.CreateAssignment)
		api.POST("/classrooms/:id/enroll", requireAuth, classroomHandler.Enroll)

		api.POST("/attendance/mark", requireAuth, staffOnly, attendanceHandler.Mark)
		api.GET("/attendance/report", requireAuth, staffOnly, attendanceHandler.Report)
		api.GET("/attendance/report/export", requireAuth, staffOnly, attendanceHandler.ExportReport)

		api.GET("/messages", requireAuth, messageHandler.List)
		api.POST("/messages", requireAuth, messageHandler.Send)

		api.POST("/chat", requireAuth, chatHandler.Ask)
		api.GET("/chat/history", requireAuth, chatHandler.History)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
