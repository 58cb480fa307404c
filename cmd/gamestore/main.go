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

	"gamestore/internal/config"
	"gamestore/internal/logger"
	"gamestore/internal/routes"
	"gamestore/internal/services"
	"gamestore/internal/storage/mariadb"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.MustLoad()

	log := logger.Setup(cfg.Env)

	log.Info("starting server", slog.String("env", cfg.Env))

	storage, err := mariadb.New(cfg.Database, log)
	if err != nil {
		log.Error("failed to create database", slog.String("error", err.Error()))
		return 1
	}

	defer func() {
		if err := storage.Close(); err != nil {
			log.Error("failed to close database", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storageErrors := make(chan error, 1)
	go func() {
		storageErrors <- storage.Run(ctx)
	}()

	log.Info("storage init")

	r := routes.SetupRouter(
		log,
		services.NewGameService(storage, log),
		services.NewCategoryService(storage, log),
		storage,
		cfg.HTTPServer,
	)

	log.Info("routes init")

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address(),
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("listening", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	exitCode := 0

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			exitCode = 1
		}

	case err := <-storageErrors:
		if err != nil {
			log.Error("database failure", slog.String("error", err.Error()))
			exitCode = 1
		}

	case sig := <-shutdown:
		log.Info("shutting down", slog.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown error", slog.String("error", err.Error()))
		if err := server.Close(); err != nil {
			log.Error("force shutdown error", slog.String("error", err.Error()))
		}
	}

	cancel()

	log.Info("server stopped")

	return exitCode
}
