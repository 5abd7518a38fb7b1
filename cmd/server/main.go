package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"aeps-agent.backend/internal/config"
	"aeps-agent.backend/internal/infrastructure/cache"
	"aeps-agent.backend/internal/infrastructure/datasources/postgres"
	"aeps-agent.backend/internal/infrastructure/jobs"
	"aeps-agent.backend/internal/infrastructure/metrics"
	"aeps-agent.backend/internal/infrastructure/models"
	"aeps-agent.backend/internal/infrastructure/partner"
	"aeps-agent.backend/internal/infrastructure/repositories"
	"aeps-agent.backend/internal/interfaces/http/handlers"
	"aeps-agent.backend/internal/interfaces/http/middleware"
	"aeps-agent.backend/internal/usecases"
	"aeps-agent.backend/pkg/crypto"
	"aeps-agent.backend/pkg/jwt"
	"aeps-agent.backend/pkg/logger"
	"aeps-agent.backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openSQL    = postgres.NewConnection
	openGorm   = postgres.NewGormDB
	migrate    = func(db *gorm.DB) error { return db.AutoMigrate(&models.TransactionLog{}) }
	runServer  = func(srv *http.Server) error { return srv.ListenAndServe() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	ctx := context.Background()
	logger.Info(ctx, "Logger initialized", zap.String("env", cfg.Server.Env))

	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(ctx, "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(ctx, "Redis initialized")

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sqlDB, db, err := connectDatabase(cfg.Database)
	if err != nil {
		logger.Error(ctx, "Failed to connect to database", zap.Error(err))
		return err
	}
	defer sqlDB.Close()
	logger.Info(ctx, "Connected to PostgreSQL")

	r, sweeper, err := buildRouter(cfg, db)
	if err != nil {
		return err
	}

	jobCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go sweeper.Start(jobCtx)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info(ctx, "Shutting down server")
		sweeper.Stop()
		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(ctx, "Graceful shutdown failed", zap.Error(err))
		}
	}()

	logger.Info(ctx, "AEPS agent backend starting", zap.String("port", cfg.Server.Port))
	if err := runServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func connectDatabase(cfg config.DatabaseConfig) (*sql.DB, *gorm.DB, error) {
	sqlDB, err := openSQL(cfg)
	if err != nil {
		return nil, nil, err
	}
	db, err := openGorm(sqlDB)
	if err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to migrate transaction log: %w", err)
	}
	return sqlDB, db, nil
}

// buildRouter wires the AEPS stack on top of an open database
func buildRouter(cfg *config.Config, db *gorm.DB) (*gin.Engine, *jobs.BiometricCaptureExpiryJob, error) {
	collector := metrics.NewCollector()

	partnerClient, err := partner.NewClient(cfg.Partner.BaseURL, cfg.Partner.Timeout, cfg.Partner.BankID, cfg.Partner.EncryptionKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize partner client: %w", err)
	}
	partnerClient.SetObserver(collector)

	receiptStore, err := cache.NewEncryptedReceiptStore(cfg.Security.ReceiptEncryptionKey, cfg.Aeps.ReceiptTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize receipt store: %w", err)
	}

	fingerprinter, err := crypto.NewFingerprinter(cfg.Security.AadhaarHashKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize aadhaar fingerprinter: %w", err)
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	logRepo := repositories.NewTransactionLogRepository(db)
	forms := usecases.NewFormRegistry()

	bankUsecase := usecases.NewBankUsecase(partnerClient, cache.NewRedisBankCache(), cfg.Aeps.BankListTTL)
	workflowUsecase := usecases.NewWorkflowUsecase(
		partnerClient,
		bankUsecase,
		forms,
		usecases.NewTransactionRequestBuilder(cfg.Aeps.WithdrawalCeiling, cfg.IPResolver.Fallback),
		partner.NewPublicIPResolver(cfg.IPResolver.URL, cfg.IPResolver.Timeout),
		logRepo,
		receiptStore,
		fingerprinter,
	)
	workflowUsecase.SetMetrics(collector)

	aepsHandler := handlers.NewAepsHandler(workflowUsecase, bankUsecase)
	sweeper := jobs.NewBiometricCaptureExpiryJob(forms, cfg.Aeps.BiometricCaptureTTL, cfg.Aeps.SweepInterval)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r, collector.Handler())
	registerAPIV1Routes(r, routeDeps{
		aepsHandler:    aepsHandler,
		authMiddleware: middleware.AuthMiddleware(jwtService),
	})

	return r, sweeper, nil
}
