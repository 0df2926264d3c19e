package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/core/ports"
)

type BuildConfig struct {
	EmbedCharCap   int // runes of full text sent to the encoder
	IndexBatchSize int
}

func DefaultBuildConfig() BuildConfig {
	return BuildConfig{EmbedCharCap: 2000, IndexBatchSize: 100}
}

func (c BuildConfig) normalize() BuildConfig {
	def := DefaultBuildConfig()
	out := c
	if out.EmbedCharCap <= 0 {
		out.EmbedCharCap = def.EmbedCharCap
	}
	if out.IndexBatchSize <= 0 {
		out.IndexBatchSize = def.IndexBatchSize
	}
	return out
}

// BuildCorpusUseCase assembles the immutable corpus at process start
// and populates the vector index from it. snapshot and index may be nil
// when the caller does not use that path (the offline indexer builds a
// snapshot without a vector index).
type BuildCorpusUseCase struct {
	sources  []ports.CorpusSource
	snapshot ports.SnapshotStore
	embedder ports.Embedder
	index    ports.VectorIndex
	cfg      BuildConfig
	logger   *slog.Logger
}

func NewBuildCorpusUseCase(
	sources []ports.CorpusSource,
	snapshot ports.SnapshotStore,
	embedder ports.Embedder,
	index ports.VectorIndex,
	cfg BuildConfig,
	logger *slog.Logger,
) *BuildCorpusUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildCorpusUseCase{
		sources:  sources,
		snapshot: snapshot,
		embedder: embedder,
		index:    index,
		cfg:      cfg.normalize(),
		logger:   logger,
	}
}

// Load prefers the snapshot when one is configured and readable, then
// falls back to live fetch. A failing source is skipped; the build
// fails only when nothing contributed.
func (uc *BuildCorpusUseCase) Load(ctx context.Context) (*domain.Corpus, error) {
	if uc.snapshot != nil {
		records, err := uc.snapshot.Load()
		if err == nil && len(records) > 0 {
			uc.logger.Info("corpus_loaded_from_snapshot", "records", len(records))
			return domain.NewCorpus(records), nil
		}
		if err != nil {
			uc.logger.Warn("snapshot_load_failed", "error", err)
		}
	}
	return uc.loadLive(ctx)
}

func (uc *BuildCorpusUseCase) loadLive(ctx context.Context) (*domain.Corpus, error) {
	var collected []domain.DocumentRecord
	failed := 0
	for _, source := range uc.sources {
		records, err := source.Fetch(ctx)
		if err != nil {
			failed++
			uc.logger.Warn("corpus_source_failed", "source", source.Name(), "error", err)
			continue
		}
		uc.logger.Info("corpus_source_loaded", "source", source.Name(), "records", len(records))
		collected = append(collected, records...)
	}

	if len(collected) == 0 {
		return nil, domain.WrapError(domain.ErrCorpusUnavailable, "load corpus",
			fmt.Errorf("no records from %d sources (%d failed)", len(uc.sources), failed))
	}

	normalized := make([]domain.DocumentRecord, 0, len(collected))
	seen := make(map[string]struct{}, len(collected))
	for _, record := range collected {
		if err := record.Validate(); err != nil {
			uc.logger.Warn("corpus_record_rejected", "source", record.SourceName, "number", record.Number, "error", err)
			continue
		}
		record.FullText = composeFullText(record)
		key := recordKey(record)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, record)
	}

	if len(normalized) == 0 {
		return nil, domain.WrapError(domain.ErrCorpusUnavailable, "load corpus",
			errors.New("every fetched record was rejected"))
	}
	return domain.NewCorpus(normalized), nil
}

// Embed fills missing embeddings batch by batch so a transient encoder
// failure surfaces at batch granularity, and logs progress for the UI
// collaborator.
func (uc *BuildCorpusUseCase) Embed(ctx context.Context, corpus *domain.Corpus) error {
	records := corpus.Records()
	for start := 0; start < len(records); start += uc.cfg.IndexBatchSize {
		end := min(start+uc.cfg.IndexBatchSize, len(records))
		if err := uc.embedBatch(ctx, records[start:end]); err != nil {
			return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		uc.logger.Info("embed_progress", "done", end, "total", len(records))
	}
	return nil
}

// Index rebuilds the named index from scratch and upserts the corpus in
// bounded batches, embedding any record the snapshot did not cover.
func (uc *BuildCorpusUseCase) Index(ctx context.Context, corpus *domain.Corpus) error {
	if uc.index == nil {
		return errors.New("no vector index configured")
	}
	if err := uc.index.Rebuild(ctx); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	records := corpus.Records()
	for start := 0; start < len(records); start += uc.cfg.IndexBatchSize {
		end := min(start+uc.cfg.IndexBatchSize, len(records))
		batch := records[start:end]
		if err := uc.embedBatch(ctx, batch); err != nil {
			return fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if err := uc.index.IndexBatch(ctx, batch); err != nil {
			return fmt.Errorf("index batch %d-%d: %w", start, end, err)
		}
		uc.logger.Info("index_progress", "done", end, "total", len(records))
	}
	return nil
}

func (uc *BuildCorpusUseCase) embedBatch(ctx context.Context, batch []domain.DocumentRecord) error {
	texts := make([]string, 0, len(batch))
	missing := make([]int, 0, len(batch))
	for i := range batch {
		if len(batch[i].Embedding) > 0 {
			continue
		}
		capped, _, _ := capRunes(batch[i].FullText, uc.cfg.EmbedCharCap)
		texts = append(texts, capped)
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return nil
	}

	vectors, err := uc.embedder.Embed(ctx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(texts) {
		return domain.WrapError(domain.ErrInvalidInput, "embed records",
			fmt.Errorf("vectors/texts mismatch: %d/%d", len(vectors), len(texts)))
	}
	for i, idx := range missing {
		batch[idx].Embedding = vectors[i]
	}
	return nil
}

// composeFullText prefixes the body with the record's locator so every
// retrieved passage is self-citing.
func composeFullText(record domain.DocumentRecord) string {
	body := strings.TrimSpace(record.FullText)
	if record.Kind == domain.KindTable {
		return fmt.Sprintf("[%s] [%s] %s\n%s", record.SourceName, record.Number, record.Title, body)
	}
	heading := record.Number
	if record.Title != "" {
		heading = fmt.Sprintf("%s(%s)", record.Number, record.Title)
	}
	return fmt.Sprintf("[%s] %s\n%s", record.SourceName, heading, body)
}

func recordKey(record domain.DocumentRecord) string {
	return fmt.Sprintf("%s|%s|%s", record.Kind, record.SourceName, record.Number)
}
