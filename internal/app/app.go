package app

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	_ "github.com/lib/pq"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/dong279/mumu-express/docs"
	"github.com/dong279/mumu-express/internal/config"
	"github.com/dong279/mumu-express/internal/handlers"
	"github.com/dong279/mumu-express/internal/push"
	"github.com/dong279/mumu-express/internal/repositories"
	"github.com/dong279/mumu-express/internal/routes"
	"github.com/dong279/mumu-express/internal/services"
	"github.com/dong279/mumu-express/internal/utils"
)

const (
	maxBodyBytes   = 1 << 20  // 1 MB для JSON
	maxUploadBytes = 25 << 20 // 25 MB для медиа
)

func Run() {
	cfg := config.LoadConfig()
	handlers.SetDevMode(!cfg.IsProduction())

	// === DB ===
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Failed to close database: %v", err)
		}
	}()

	// === Repos ===
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	phoneVerificationRepo := repositories.NewPhoneVerificationRepository(db)
	passwordResetRepo := repositories.NewPasswordResetRepository(db)
	followRepo := repositories.NewFollowRepository(db)
	communityRepo := repositories.NewCommunityRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	engagementRepo := repositories.NewEngagementRepository(db)
	petRepo := repositories.NewPetRepository(db)
	hospitalRepo := repositories.NewHospitalRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)
	healthReportRepo := repositories.NewHealthReportRepository(db)

	// === Clients ===
	smsClient := utils.NewSMSClient(cfg.SMS.APIKey, cfg.SMS.SenderID, cfg.SMS.DryRun, cfg.IsProduction())
	kakaoClient := utils.NewKakaoClient(cfg.Kakao.RESTAPIKey, cfg.Kakao.BaseURL)
	pushSender := push.NewSender(cfg.FCM.ServerKey)
	fileStore := utils.NewFileStore(cfg.Files.RootDir)

	var bot *tgbotapi.BotAPI
	if cfg.Telegram.BotToken != "" {
		bot, err = tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
		if err != nil {
			log.Printf("[app] telegram bot init failed, moderation alerts disabled: %v", err)
			bot = nil
		}
	}

	// === Services ===
	authService := services.NewAuthService()
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.FromEmail,
	)
	tokenService := services.NewTokenService(refreshTokenRepo, cfg.JWT)
	userService := services.NewUserService(userRepo, authService, tokenService)
	phoneService := services.NewPhoneVerificationService(phoneVerificationRepo, userRepo, smsClient, cfg.IsProduction())
	passwordResetService := services.NewPasswordResetService(userRepo, passwordResetRepo, tokenService, authService, smsClient, emailService)
	followService := services.NewFollowService(followRepo)
	notificationService := services.NewNotificationService(notificationRepo, pushSender)
	communityService := services.NewCommunityService(communityRepo, commentRepo, engagementRepo, notificationService)
	petService := services.NewPetService(petRepo)
	hospitalService := services.NewHospitalService(hospitalRepo, petRepo)
	reportService := services.NewReportService(reportRepo, userRepo, communityRepo, bot, cfg.Telegram.OpsChatID)
	analysisService := services.NewAnalysisService(analysisRepo, petRepo, notificationService)
	healthReportService := services.NewHealthReportService(healthReportRepo, petRepo)

	// === Handlers ===
	h := routes.Handlers{
		User:         handlers.NewUserHandler(userService),
		Auth:         handlers.NewAuthHandler(tokenService, userService),
		Phone:        handlers.NewPhoneHandler(phoneService),
		Password:     handlers.NewPasswordResetHandler(passwordResetService),
		Follow:       handlers.NewFollowHandler(followService),
		Community:    handlers.NewCommunityHandler(communityService),
		Engagement:   handlers.NewEngagementHandler(communityService),
		Pet:          handlers.NewPetHandler(petService),
		Hospital:     handlers.NewHospitalHandler(hospitalService),
		Notification: handlers.NewNotificationHandler(notificationService),
		Report:       handlers.NewReportHandler(reportService),
		Analysis:     handlers.NewAnalysisHandler(analysisService, cfg.AIWebhookSecret),
		HealthReport: handlers.NewHealthReportHandler(healthReportService),
		Map:          handlers.NewMapHandler(kakaoClient),
		Upload:       handlers.NewUploadHandler(fileStore),
	}

	// === Gin ===
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(bodyLimit())

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Раздача загруженных файлов
	router.Static("/uploads", cfg.Files.RootDir)

	// Пробник подключения к БД
	router.GET("/api/test-db", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Database unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Database connection OK"})
	})

	rateLimit := 500
	if cfg.IsProduction() {
		rateLimit = 100
	}
	routes.SetupRoutes(router, h, tokenService, rateLimit)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server listening on %s (%s)", listenAddr, cfg.Environment)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-AI-Webhook-Secret")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func bodyLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := int64(maxBodyBytes)
		if strings.HasPrefix(c.Request.URL.Path, "/api/uploads") {
			limit = maxUploadBytes
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
