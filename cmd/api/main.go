package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpadapter "github.com/hillslab/lawcounsel/internal/adapters/http"
	"github.com/hillslab/lawcounsel/internal/bootstrap"
	"github.com/hillslab/lawcounsel/internal/config"
	"github.com/hillslab/lawcounsel/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewJSONLogger("api", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}

	router := httpadapter.NewRouter(app.Questions, app.Corpus, app.Metrics).Handler()
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("api_server_error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("api_shutdown_error", "error", err)
	}
}
