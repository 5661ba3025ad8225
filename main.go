package main

import (
	"bitwise74/newsletter-api/app"
	"bitwise74/newsletter-api/config"
	"bitwise74/newsletter-api/db"
	"bitwise74/newsletter-api/internal"
	"bitwise74/newsletter-api/internal/mail"
	"bitwise74/newsletter-api/internal/metrics"
	"bitwise74/newsletter-api/internal/service"
	"bitwise74/newsletter-api/pkg/logger"
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	s, err := config.Setup()
	if err != nil {
		panic(err)
	}

	if s.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	log, err := logger.New(s.Application.LogLevel, s.Environment != "production")
	if err != nil {
		panic(err)
	}
	defer logger.Install(log)()
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gdb, err := db.New(s.Database)
	if err != nil {
		panic(err)
	}

	sender, err := mail.NewSender(s.EmailClient)
	if err != nil {
		panic(err)
	}

	m := metrics.New()

	subs, err := service.NewSubscriptions(gdb, sender, s.Application.BaseURL, log, m)
	if err != nil {
		panic(err)
	}

	d := &internal.Deps{
		Settings:      s,
		DB:            gdb,
		Log:           log,
		Metrics:       m,
		Subscriptions: subs,
	}

	// Surfaces subscribers whose confirmation email never made it out
	go service.PendingReport(ctx, s.Application.PendingReportInterval, gdb, m, log)

	server := &http.Server{
		Addr:              s.Application.Addr(),
		Handler:           app.NewRouter(ctx, d),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", server.Addr), zap.String("environment", s.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			log.Error("Server stopped unexpectedly", zap.Error(err))
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}

	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server stopped")
}
