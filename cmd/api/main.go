package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/toolbox/toolbox-go/internal/config"
	"github.com/toolbox/toolbox-go/internal/handler"
	"github.com/toolbox/toolbox-go/internal/logger"
	"github.com/toolbox/toolbox-go/internal/metrics"
	"github.com/toolbox/toolbox-go/internal/middleware"
	"github.com/toolbox/toolbox-go/internal/passgen"
	"github.com/toolbox/toolbox-go/internal/repository"
	"github.com/toolbox/toolbox-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	src, err := passgen.NewSource(cfg.RandomSource)
	if err != nil {
		log.Error("invalid random source", "error", err)
		os.Exit(1)
	}
	engine := passgen.NewEngine(src)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	defer limiter.Stop()

	deps := handler.RouterDeps{
		Logger:         log,
		Metrics:        collector,
		MetricsHandler: metrics.Handler(reg),
		RateLimiter:    limiter,
		JWTSecret:      cfg.JWTSecret,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	// The activity log and its admin routes need the database; the tools work without it.
	var recorder service.ActivityRecorder
	db, err := repository.NewDB(context.Background(), cfg.DatabaseDSN)
	if err != nil {
		log.Warn("database connection failed, activity log disabled", "error", err)
	} else {
		defer db.Close()
		activityRepo := repository.NewActivityRepository(db)
		recorder = activityRepo
		deps.Activity = service.NewActivityService(activityRepo)
	}

	deps.Generator = service.NewGeneratorService(engine, collector, recorder)
	if err := deps.Generator.SetHashParams(cfg.HashParams); err != nil {
		log.Error("invalid hash parameters", "error", err)
		os.Exit(1)
	}
	deps.QR = service.NewQRService(collector, recorder)
	deps.Convert = service.NewConvertService(collector, recorder)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "config", cfg.String(), "secure_random", engine.Secure())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
