package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/eduhubvn/moderation-api/api/swagger"
	"github.com/eduhubvn/moderation-api/internal/handler"
	"github.com/eduhubvn/moderation-api/internal/middleware"
	"github.com/eduhubvn/moderation-api/internal/repository"
	"github.com/eduhubvn/moderation-api/internal/service"
	"github.com/eduhubvn/moderation-api/internal/store"
	"github.com/eduhubvn/moderation-api/internal/upstream"
	"github.com/eduhubvn/moderation-api/pkg/cache"
	"github.com/eduhubvn/moderation-api/pkg/config"
	"github.com/eduhubvn/moderation-api/pkg/database"
	"github.com/eduhubvn/moderation-api/pkg/logger"
	corsmiddleware "github.com/eduhubvn/moderation-api/pkg/middleware/cors"
	reqidmiddleware "github.com/eduhubvn/moderation-api/pkg/middleware/requestid"
	"github.com/eduhubvn/moderation-api/pkg/storage"
)

// @title EduHub Moderation API
// @version 0.1.0
// @description Moderation gateway for instructor and partner revision requests
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	auditRepo := repository.NewAuditRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	upstreamClient := upstream.New(cfg.Upstream, logr)
	queueStore := store.New()

	queueSvc := service.NewQueueService(upstreamClient, queueStore, metrics, logr,
		service.WithSnapshotMirror(cacheRepo))
	auditSvc := service.NewAuditService(auditRepo, cacheRepo, cfg.Moderation.AuditCacheTTL, logr)
	approvalSvc := service.NewApprovalService(upstreamClient, queueSvc, queueStore, auditSvc, metrics, logr)
	tokenSvc := service.NewTokenService(cfg.JWT)
	exportSvc := service.NewExportService(auditSvc,
		storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL))

	listener := service.NewNotificationListener(redisClient, queueSvc, cfg.Moderation.EventsChannel,
		cfg.Moderation.RefreshTimeout, logr)
	go func() {
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logr.Warn("notification listener stopped", zap.Error(err))
		}
	}()

	revisionHandler := handler.NewRevisionHandler(queueSvc, approvalSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	systemHandler := handler.NewSystemHandler(metrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", systemHandler.Health)
	r.GET("/metrics", systemHandler.Metrics)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(tokenSvc))
	{
		revisions := api.Group("/revisions")
		revisions.GET("/:entityType", revisionHandler.List)
		revisions.GET("/:entityType/:id", revisionHandler.Detail)
		revisions.POST("/:entityType/refresh", revisionHandler.Refresh)

		decisions := revisions.Group("")
		decisions.Use(middleware.RequireApprover())
		decisions.POST("/:entityType/:id/approve", revisionHandler.Approve)
		decisions.POST("/:entityType/:id/reject", revisionHandler.Reject)

		api.GET("/audit", auditHandler.List)
		api.POST("/exports/decisions", exportHandler.IssueLink)
	}
	// Downloads authenticate via the signed token instead of a bearer token,
	// so browsers can follow the link directly.
	r.GET(cfg.APIPrefix+"/exports/decisions/download", exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
