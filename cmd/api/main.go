package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/satprep-api/internal/config"
	"github.com/yourusername/satprep-api/internal/handler"
	"github.com/yourusername/satprep-api/internal/middleware"
	pgRepo "github.com/yourusername/satprep-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/satprep-api/internal/repository/redis"
	"github.com/yourusername/satprep-api/internal/service"
	"github.com/yourusername/satprep-api/internal/service/generation"
	ws "github.com/yourusername/satprep-api/internal/websocket"
	"github.com/yourusername/satprep-api/pkg/auth"
	"github.com/yourusername/satprep-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Подключение к PostgreSQL и миграции
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	// Сервис JWT
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to init JWT service: %v", err)
		os.Exit(1)
	}

	// Репозитории
	userRepo := pgRepo.NewUserRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	reviewRepo := pgRepo.NewQuestionReviewRepo(db)
	resultRepo := pgRepo.NewTestResultRepo(db)
	topicRepo := pgRepo.NewTopicRepo(db)
	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Fatalf("Не удалось инициализировать кеш-репозиторий: %v", err)
	}

	// Хаб ленты ревью
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Close()

	// Email-уведомления
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to init Resend email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Сервисы
	authService := service.NewAuthService(userRepo, jwtService)
	questionService := service.NewQuestionService(questionRepo, reviewRepo, cacheRepo, hub, db)
	reviewService := service.NewReviewService(reviewRepo, questionRepo)
	resultService := service.NewResultService(resultRepo, db)

	llmClient := generation.NewHTTPLLMClient(
		cfg.Generation.Endpoint,
		cfg.Generation.APIKey,
		time.Duration(cfg.Generation.TimeoutSec)*time.Second,
	)
	pipeline := generation.NewPipeline(llmClient, questionRepo, topicRepo, emailService, hub, db, cfg.Admin.Emails)

	// Обработчики
	authHandler := handler.NewAuthHandler(authService, cfg)
	questionHandler := handler.NewQuestionHandler(questionService)
	publicHandler := handler.NewPublicHandler(questionService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	resultHandler := handler.NewResultHandler(resultService)
	generationHandler := handler.NewGenerationHandler(pipeline, topicRepo)
	imageHandler := handler.NewImageHandler(questionService)
	wsHandler := handler.NewWSHandler(hub)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, cfg)

	// Роутер
	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		log.Printf("Warning: failed to set trusted proxies: %v", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
		}

		api.GET("/users/me", authMiddleware.RequireAuth(), authHandler.Me)

		// Публичный поток ревью: сессия опциональна
		public := api.Group("/public")
		public.Use(authMiddleware.OptionalAuth())
		{
			public.GET("/questions", publicHandler.ListPending)
			public.PATCH("/questions", publicHandler.Review)
		}

		// Оценки и изображения конкретного вопроса
		questions := api.Group("/questions/:id")
		questions.Use(middleware.ExtractUUIDParam("id", "questionID"))
		{
			questions.GET("/image", imageHandler.GetImage)
			questions.GET("/reviews", reviewHandler.GetQuestionReviews)
			questions.POST("/reviews", authMiddleware.RequireAuth(), reviewHandler.SubmitReview)
		}

		// Результаты тестов
		results := api.Group("/test-results")
		results.Use(authMiddleware.RequireAuth())
		{
			results.POST("", resultHandler.SubmitResult)
			results.GET("", resultHandler.ListMyResults)
			results.GET("/:id", middleware.ExtractUUIDParam("id", "resultID"), resultHandler.GetResult)
		}

		// Админка
		admin := api.Group("/admin")
		{
			adminOnly := admin.Group("/")
			adminOnly.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
			{
				adminOnly.GET("/questions", questionHandler.ListQuestions)
				adminOnly.PATCH("/questions", questionHandler.ReviewQuestion)
				adminOnly.GET("/questions/export", questionHandler.ExportQuestions)
				adminOnly.GET("/reviews", reviewHandler.ListReviews)
			}

			// Генерацию дергают и админка, и batch-скрипты с API-ключом
			generate := admin.Group("/")
			generate.Use(authMiddleware.AdminOrAPIKey())
			{
				generate.GET("/topics", generationHandler.ListTopics)
				generate.POST("/generate", generationHandler.Generate)
			}
		}
	}

	router.GET("/ws/review-feed", wsHandler.ReviewFeed)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
			os.Exit(1)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing redis client: %v", err)
	}

	log.Println("Server exited properly")
}
