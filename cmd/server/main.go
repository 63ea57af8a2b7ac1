package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/alirezakafim/pardis/internal/application/service"
	"github.com/alirezakafim/pardis/internal/auth"
	"github.com/alirezakafim/pardis/internal/config"
	"github.com/alirezakafim/pardis/internal/infrastructure/persistence/repository"
	"github.com/alirezakafim/pardis/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/alirezakafim/pardis/internal/interfaces/http"
	"github.com/alirezakafim/pardis/internal/sequence"
	"github.com/alirezakafim/pardis/migrations"
	"github.com/alirezakafim/pardis/pkg/database"
	"github.com/alirezakafim/pardis/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Pardis Workflow System",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(migrations.FS); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize repositories
	sdb := sqlite.NewDB(db.DB, logger)
	goodsRepo := repository.NewGoodsRequestRepository(sdb, logger)
	proposalRepo := repository.NewProjectProposalRepository(sdb, logger)
	paymentRepo := repository.NewPaymentRequestRepository(sdb, logger)
	historyRepo := repository.NewHistoryRepository(sdb, logger)
	notificationRepo := repository.NewNotificationRepository(sdb, logger)
	userRepo := repository.NewUserRepository(sdb, logger)
	counterRepo := repository.NewCounterRepository(sdb, logger)
	costCenterRepo := repository.NewCostCenterRepository(sdb, logger)

	// Initialize collaborators
	sequences := sequence.NewGenerator(counterRepo, cfg.Sequence.Year)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Initialize services
	goodsService := service.NewGoodsService(goodsRepo, historyRepo, notificationRepo, userRepo, sdb, sequences, logger)
	userService := service.NewUserService(userRepo, tokens, logger)
	costCenterService := service.NewCostCenterService(costCenterRepo, logger)
	services := httpserver.Services{
		Goods:         goodsService,
		Proposals:     service.NewProposalService(proposalRepo, historyRepo, notificationRepo, userRepo, sdb, sequences, logger),
		Payments:      service.NewPaymentService(paymentRepo, historyRepo, notificationRepo, userRepo, sdb, sequences, logger),
		Users:         userService,
		Notifications: service.NewNotificationService(notificationRepo, logger),
		CostCenters:   costCenterService,
		Reports:       service.NewReportService(goodsService, logger),
	}

	// Bootstrap the admin account and default cost centers
	ctx := context.Background()
	if err := userService.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword, cfg.Auth.AdminFullName); err != nil {
		logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
	}
	if err := costCenterService.Seed(ctx); err != nil {
		logger.Fatal("Failed to seed cost centers", zap.Error(err))
	}

	// Initialize HTTP server
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, services, tokens, logger)

	// Run until interrupted
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(runCtx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
