package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arabshield/portal/internal/bootstrap"
	"github.com/arabshield/portal/internal/config"
	"github.com/arabshield/portal/internal/infra/cache"
	"github.com/arabshield/portal/internal/infra/db"
	"github.com/arabshield/portal/internal/modules/handler"
	"github.com/arabshield/portal/internal/modules/service"
	"github.com/arabshield/portal/internal/realtime"
	"github.com/arabshield/portal/internal/router"
	"github.com/arabshield/portal/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//	@title			ArabShield Portal API
//	@version		0.1
//	@description	Bilingual client portal backend: projects, tasks, tickets, documents, chat, ratings and live dashboard streams.
//	@BasePath		/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token, e.g. "Bearer as_sess_..."
func main() {
	inj := bootstrap.BuildContainer()

	cfg := do.MustInvoke[*config.Config](inj)
	log := do.MustInvoke[*zap.Logger](inj)
	defer func() { _ = log.Sync() }()

	tp, err := telemetry.SetupTracing(cfg)
	if err != nil {
		log.Fatal("failed to set up tracing", zap.Error(err))
	}
	if tp != nil {
		gormDB := do.MustInvoke[*gorm.DB](inj)
		if err := db.RegisterOpenTelemetryPlugin(gormDB); err != nil {
			log.Warn("failed to register gorm tracing plugin", zap.Error(err))
		}
		rdb := do.MustInvoke[*redis.Client](inj)
		if err := cache.RegisterOpenTelemetryPlugin(rdb); err != nil {
			log.Warn("failed to register redis tracing hook", zap.Error(err))
		}
	}

	hub := do.MustInvoke[*realtime.Hub](inj)
	hubCtx, hubCancel := context.WithCancel(context.Background())
	go hub.Run(hubCtx)

	r := router.NewRouter(router.RouterDeps{
		Config:              cfg,
		Log:                 log,
		AuthService:         do.MustInvoke[service.AuthService](inj),
		SettingsService:     do.MustInvoke[service.SettingsService](inj),
		AuthHandler:         do.MustInvoke[*handler.AuthHandler](inj),
		UserHandler:         do.MustInvoke[*handler.UserHandler](inj),
		ProjectHandler:      do.MustInvoke[*handler.ProjectHandler](inj),
		TaskHandler:         do.MustInvoke[*handler.TaskHandler](inj),
		TicketHandler:       do.MustInvoke[*handler.TicketHandler](inj),
		DocumentHandler:     do.MustInvoke[*handler.DocumentHandler](inj),
		ChatHandler:         do.MustInvoke[*handler.ChatHandler](inj),
		RatingHandler:       do.MustInvoke[*handler.RatingHandler](inj),
		NotificationHandler: do.MustInvoke[*handler.NotificationHandler](inj),
		SettingsHandler:     do.MustInvoke[*handler.SettingsHandler](inj),
		SubscribeHandler:    do.MustInvoke[*handler.SubscribeHandler](inj),
	})

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: r,
	}

	go func() {
		log.Info("server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	hubCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := telemetry.Shutdown(ctx); err != nil {
		log.Error("tracing shutdown failed", zap.Error(err))
	}
}
