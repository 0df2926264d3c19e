// The indexer fetches the corpus live, embeds it, and writes the
// snapshot the api process loads at startup.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hillslab/lawcounsel/internal/bootstrap"
	"github.com/hillslab/lawcounsel/internal/config"
	"github.com/hillslab/lawcounsel/internal/observability/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := logging.NewJSONLogger("indexer", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	indexer, err := bootstrap.NewIndexer(cfg, logger)
	if err != nil {
		logger.Error("indexer_bootstrap_failed", "error", err)
		os.Exit(1)
	}

	corpus, err := indexer.Builder.Load(ctx)
	if err != nil {
		logger.Error("corpus_load_failed", "error", err)
		os.Exit(1)
	}
	if err := indexer.Builder.Embed(ctx, corpus); err != nil {
		logger.Error("corpus_embed_failed", "error", err)
		os.Exit(1)
	}
	if err := indexer.Snapshot.Save(corpus.Records()); err != nil {
		logger.Error("snapshot_save_failed", "error", err)
		os.Exit(1)
	}

	logger.Info("snapshot_written", "path", cfg.SnapshotPath, "documents", corpus.Len())
}
