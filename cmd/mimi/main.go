package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mimi/internal/config"
	"mimi/internal/repository"
	"mimi/internal/server"
	"mimi/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	addrFlag := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	dbFlag := flag.String("db", cfg.DatabaseURL, "SQLite database DSN")
	staticFlag := flag.String("static", cfg.StaticDir, "Directory with mimi.html, admin.html and assets")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	db, err := repository.NewDB(*dbFlag, logger)
	if err != nil {
		logger.Error("unable to open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := repository.Close(db); err != nil {
			logger.Error("close database", slog.String("error", err.Error()))
		}
	}()

	store := repository.NewStore(db)
	opts := service.Options{Location: time.Local}
	templateSvc := service.NewTemplateService(store, opts)
	taskSvc := service.NewTaskService(store, opts)

	if cfg.SnapshotAt != "" {
		scheduler := service.NewSchedulerService(time.Local, logger)
		if _, err := scheduler.ScheduleSnapshot(cfg.SnapshotAt, taskSvc); err != nil {
			logger.Error("schedule snapshot", slog.String("error", err.Error()))
			os.Exit(1)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("daily snapshot scheduled", slog.String("at", cfg.SnapshotAt))
	}

	srv := server.New(templateSvc, taskSvc, logger, server.Options{
		AppName:        cfg.AppName,
		StaticDir:      *staticFlag,
		HistoryMaxDays: cfg.HistoryMaxDays,
	})

	httpServer := &http.Server{
		Addr:              *addrFlag,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server", slog.String("app", cfg.AppName), slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped unexpectedly", slog.String("error", err.Error()))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}
