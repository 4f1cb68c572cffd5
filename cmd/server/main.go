package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/sodiqltd/stockboard/internal/config"
	"github.com/sodiqltd/stockboard/internal/repository/mongodb"
	"github.com/sodiqltd/stockboard/internal/repository/sheets"
	"github.com/sodiqltd/stockboard/internal/scheduler"
	"github.com/sodiqltd/stockboard/internal/server/handlers"
	"github.com/sodiqltd/stockboard/internal/server/router"
	"github.com/sodiqltd/stockboard/internal/service/mutation"
	reportingsvc "github.com/sodiqltd/stockboard/internal/service/reporting"
	"github.com/sodiqltd/stockboard/internal/service/table"
	authclient "github.com/sodiqltd/stockboard/pkg/clients/auth"
	stockclient "github.com/sodiqltd/stockboard/pkg/clients/stock"
	"github.com/sodiqltd/stockboard/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	stockAPI := stockclient.NewClient(cfg.StockAPI)
	tokenProvider := authclient.NewProvider(cfg.Auth)

	var auditSink mutation.AuditSink
	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		auditSink = mongoRepo
		baseLogger.Info("mutation audit trail enabled")
	} else {
		baseLogger.Warn("mongodb uri missing, mutation audit trail disabled")
	}

	coordinator := mutation.NewCoordinator(stockAPI, tokenProvider, auditSink, baseLogger.Named("svc.mutation"))
	sessions := table.NewManager(coordinator, cfg.Table.DefaultPageSize, baseLogger.Named("svc.table"))

	var reportingSvc *reportingsvc.Service
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		reportingSvc = reportingsvc.NewService(coordinator, sheetsRepo, baseLogger.Named("svc.reporting"))
		baseLogger.Info("daily snapshot job enabled")
	}

	tableHandler := handlers.NewTableHandler(sessions, baseLogger.Named("handlers.table"))
	engine := router.New(tableHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(*cfg, sessions, reportingSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
