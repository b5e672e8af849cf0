package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"karya-backend/config"
	v1 "karya-backend/internal/delivery/http/v1"
	"karya-backend/internal/delivery/ws"
	"karya-backend/internal/notifier"
	"karya-backend/internal/repository/postgres"
	"karya-backend/internal/sweeper"
	"karya-backend/internal/usecase"
	"karya-backend/pkg/calendar"
	"karya-backend/pkg/database"
	"karya-backend/pkg/email"
	"karya-backend/pkg/logger"
	"karya-backend/pkg/payment"
	"karya-backend/pkg/redis"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting karya backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Redis backs distributed rate limiting; the app degrades to an
	// in-memory limiter without it
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}

	// 4. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	interviewRepo := postgres.NewInterviewRepository(dbPool)
	projectRepo := postgres.NewProjectRepository(dbPool)
	paymentRepo := postgres.NewPaymentRepository(dbPool)
	reviewRepo := postgres.NewReviewRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)

	// 5. Setup outbound adapters
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - notification emails will fail")
	}
	calendarScheduler := calendar.NewGoogleScheduler(cfg)
	cardGateway := payment.NewStripeGateway(cfg)
	walletGateway := payment.NewKhaltiGateway(cfg)

	// 6. Realtime hub and the notification dispatcher
	hub := ws.NewHub()
	go hub.Run()
	dispatcher := notifier.NewDispatcher(notificationRepo, hub, emailService)

	// 7. Setup UseCases
	badgeUC := usecase.NewBadgeUsecase(userRepo, projectRepo, paymentRepo, reviewRepo)
	jobUC := usecase.NewJobUsecase(jobRepo)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, interviewRepo, userRepo, dispatcher)
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, applicationRepo, userRepo, calendarScheduler, dispatcher, cfg.MeetingDuration, cfg.ProviderTimeout)
	projectUC := usecase.NewProjectUsecase(projectRepo, interviewRepo, applicationRepo, userRepo, dispatcher)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, projectRepo, userRepo, cardGateway, walletGateway, dispatcher, cfg.PublicBaseURL, cfg.FrontendURL, cfg.ProviderTimeout)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, projectRepo, paymentRepo, badgeUC, dispatcher)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)
	userUC := usecase.NewUserUsecase(userRepo, reviewRepo, badgeUC)
	healthUC := usecase.NewHealthUsecase(dbPool)

	// 8. Background reconciliation of stale interviews
	sweep := sweeper.New(interviewRepo, applicationRepo, dispatcher, cfg.SweepInterval, cfg.MeetingDuration)
	if err := sweep.Start(); err != nil {
		logger.Log.Error("Failed to start interview sweeper", "error", err)
		os.Exit(1)
	}
	defer sweep.Stop()

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		JobUC:          jobUC,
		ApplicationUC:  applicationUC,
		InterviewUC:    interviewUC,
		ProjectUC:      projectUC,
		PaymentUC:      paymentUC,
		ReviewUC:       reviewUC,
		NotificationUC: notificationUC,
		UserUC:         userUC,
		HealthUC:       healthUC,
		UserRepo:       userRepo,
		Hub:            hub,
		Config:         cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
