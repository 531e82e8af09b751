package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillforge/lms-api/internal/config"
	"github.com/skillforge/lms-api/internal/database"
	"github.com/skillforge/lms-api/internal/handler"
	"github.com/skillforge/lms-api/internal/middleware"
	"github.com/skillforge/lms-api/internal/models"
	"github.com/skillforge/lms-api/internal/realtime"
	"github.com/skillforge/lms-api/internal/repository"
	"github.com/skillforge/lms-api/internal/router"
	"github.com/skillforge/lms-api/internal/service"
	cloud "github.com/skillforge/lms-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Contact{},
		&models.Batch{},
		&models.Material{},
		&models.LeaveRequest{},
		&models.Notification{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	defer natsConn.Close()

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()

	hub := realtime.NewHub(redisClient, cfg.RealtimeChannelBase, cfg.PresenceTTL, natsConn, logger)
	hub.Start(hubCtx)

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	contactRepo := repository.NewContactRepository(db)
	batchRepo := repository.NewBatchRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	resolver := service.NewRecipientResolver(userRepo)
	activityService := service.NewActivityService(activityRepo, hub, validate, logger)
	notificationService := service.NewNotificationService(notificationRepo, contactRepo, resolver, hub, validate, logger)
	rosterService := service.NewRosterService(userRepo, contactRepo, batchRepo, activityService, validate, logger)
	leaveService := service.NewLeaveService(leaveRepo, userRepo, batchRepo, notificationService, activityService, validate, logger)
	materialService := service.NewMaterialService(uploader, materialRepo, batchRepo, notificationService, activityService, cfg.UploadMaxMB, logger)

	notificationHandler := handler.NewNotificationHandler(notificationService, logger)
	realtimeHandler := handler.NewRealtimeHandler(hub, logger)
	activityHandler := handler.NewActivityHandler(activityService, logger)
	rosterHandler := handler.NewRosterHandler(rosterService, logger)
	leaveHandler := handler.NewLeaveHandler(leaveService, logger)
	materialHandler := handler.NewMaterialHandler(materialService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.UploadMaxMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		NotificationHandler: notificationHandler,
		RealtimeHandler:     realtimeHandler,
		ActivityHandler:     activityHandler,
		RosterHandler:       rosterHandler,
		LeaveHandler:        leaveHandler,
		MaterialHandler:     materialHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopHub)
}

func waitForShutdown(app *fiber.App, stopHub context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopHub()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
