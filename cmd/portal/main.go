package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/api/swagger"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/handler"
	internalmiddleware "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/middleware"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/repository"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/internal/service"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/config"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/jobs"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/kvstore"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/logger"
	corsmiddleware "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/middleware/cors"
	reqidmiddleware "github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/middleware/requestid"
	"github.com/maitrya143/Pravah-Flow-Of-Change-Soch-Badlav-Ki-Updated/pkg/storage"
)

// @title Pravah Volunteer Portal API
// @version 1.0.0
// @description Records, attendance analytics and exports for Pravah tutoring centers
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()

	kv, err := kvstore.Open(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to open durable store", zap.Error(err))
	}
	defer kv.Close() //nolint:errcheck

	store := repository.NewRecordsStore(ctx, kv, cfg.Storage.KeyPrefix,
		repository.WithStoreLogger(logr),
		repository.WithStoreObserver(metrics),
	)

	validate := validator.New()
	centers := service.NewCenterService(cfg.Centers)

	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exporter := service.NewExportService(store, centers, files, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil)

	exportJobs := repository.NewReportRepository()
	worker := service.NewReportWorker(exportJobs, exporter, metrics, logr)
	queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
		Workers:     cfg.Reports.WorkerConcurrency,
		BufferSize:  64,
		MaxRetries:  cfg.Reports.WorkerRetries,
		RetryDelay:  2 * time.Second,
		Logger:      logr,
		OnExhausted: worker.Exhausted,
	})
	queue.Start(ctx)
	defer queue.Stop()

	reports := service.NewReportService(exportJobs, queue, exporter, validate, logr, service.ReportServiceConfig{
		Enabled:         cfg.Reports.Enabled,
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	reports.StartCleanup(ctx)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics))
	r.Use(internalmiddleware.Audit(logr))

	handler.Handlers{
		Auth:        handler.NewAuthHandler(service.NewUserService(store, centers, validate, logr)),
		Feedback:    handler.NewFeedbackHandler(service.NewFeedbackService(store, validate, logr)),
		Centers:     handler.NewCenterHandler(centers),
		Students:    handler.NewStudentHandler(service.NewStudentService(store, centers, validate, logr)),
		Attendance:  handler.NewAttendanceHandler(service.NewAttendanceService(store, validate, logr)),
		Diaries:     handler.NewDiaryHandler(service.NewDiaryService(store, validate, logr)),
		Performance: handler.NewPerformanceHandler(service.NewPerformanceService(store, validate, logr)),
		Syllabus:    handler.NewSyllabusHandler(service.NewSyllabusService(store, validate, logr)),
		Analytics:   handler.NewAnalyticsHandler(service.NewAnalyticsService(store, logr)),
		Reports:     handler.NewReportHandler(reports, logr),
		Metrics:     handler.NewMetricsHandler(metrics, store),
	}.Register(r, cfg.APIPrefix)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "storage", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
	if failures, lastErr := store.PersistFailures(); failures > 0 {
		logr.Warn("records store had write failures", zap.Int64("failures", failures), zap.Error(lastErr))
	}
}
