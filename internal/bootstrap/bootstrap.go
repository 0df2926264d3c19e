// Package bootstrap wires collaborators explicitly: initialization
// produces an immutable corpus/index pair passed by handle into every
// retrieval call, with no process-wide cache semantics.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hillslab/lawcounsel/internal/config"
	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/core/ports"
	"github.com/hillslab/lawcounsel/internal/core/usecase"
	"github.com/hillslab/lawcounsel/internal/infrastructure/appendix"
	"github.com/hillslab/lawcounsel/internal/infrastructure/lawapi"
	"github.com/hillslab/lawcounsel/internal/infrastructure/llm/anthropic"
	"github.com/hillslab/lawcounsel/internal/infrastructure/llm/ollama"
	"github.com/hillslab/lawcounsel/internal/infrastructure/resilience"
	"github.com/hillslab/lawcounsel/internal/infrastructure/ruleset"
	"github.com/hillslab/lawcounsel/internal/infrastructure/snapshot"
	"github.com/hillslab/lawcounsel/internal/infrastructure/vector/qdrant"
	"github.com/hillslab/lawcounsel/internal/observability/metrics"
)

// App is the fully initialized serving process: corpus loaded, index
// built, question service ready.
type App struct {
	Config    config.Config
	Corpus    *domain.Corpus
	Questions ports.QuestionService
	Metrics   *metrics.Metrics
}

// New runs the blocking startup phase. A corpus or index build failure
// here is fatal by design: without a corpus no question can be served.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	rules, err := ruleset.Load(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	embedder := newEmbedder(cfg)
	generator := anthropic.New(cfg.AnthropicAPIKey, cfg.AnthropicModel, anthropic.Options{
		BaseURL:  cfg.AnthropicBaseURL,
		Executor: resilience.NewExecutor("anthropic", resilience.DefaultConfig(), resilience.ClassifyTransport),
	})
	vectorIndex := qdrant.New(cfg.QdrantURL, cfg.QdrantCollection)

	builder := usecase.NewBuildCorpusUseCase(
		newSources(cfg, logger),
		newSnapshotStore(cfg),
		embedder,
		vectorIndex,
		buildConfig(cfg),
		logger,
	)

	buildStart := time.Now()
	corpus, err := builder.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	if err := builder.Index(ctx, corpus); err != nil {
		return nil, fmt.Errorf("build index: %w", err)
	}
	logger.Info("corpus_ready",
		"documents", corpus.Len(),
		"articles", corpus.CountByKind(domain.KindArticle),
		"tables", corpus.CountByKind(domain.KindTable),
		"build_duration", time.Since(buildStart).String(),
	)

	m := metrics.New("api")
	m.SetCorpus(corpus, time.Since(buildStart))

	retriever := usecase.NewHybridRetriever(corpus, rules, embedder, vectorIndex, usecase.RetrievalConfig{
		TopK:           cfg.RetrievalTopK,
		MaxEntries:     cfg.BundleMaxEntries,
		RuleCharCap:    cfg.RuleCharCap,
		ArticleCharCap: cfg.ArticleCharCap,
		TableCharCap:   cfg.TableCharCap,
	}, logger)

	return &App{
		Config:    cfg,
		Corpus:    corpus,
		Questions: usecase.NewAnswerUseCase(retriever, generator, cfg.MaxAnswerTokens),
		Metrics:   m,
	}, nil
}

// Indexer is the offline snapshot builder: live fetch, embed, save.
type Indexer struct {
	Builder  ports.CorpusBuilder
	Snapshot ports.SnapshotStore
}

func NewIndexer(cfg config.Config, logger *slog.Logger) (*Indexer, error) {
	if cfg.SnapshotPath == "" {
		return nil, errors.New("SNAPSHOT_PATH is required for the indexer")
	}

	// The snapshot store is deliberately not handed to the builder:
	// the indexer always fetches live.
	builder := usecase.NewBuildCorpusUseCase(
		newSources(cfg, logger),
		nil,
		newEmbedder(cfg),
		nil,
		buildConfig(cfg),
		logger,
	)
	return &Indexer{
		Builder:  builder,
		Snapshot: snapshot.New(cfg.SnapshotPath),
	}, nil
}

func newSources(cfg config.Config, logger *slog.Logger) []ports.CorpusSource {
	executor := resilience.NewExecutor("lawapi", resilience.DefaultConfig(), resilience.ClassifyTransport)

	sources := make([]ports.CorpusSource, 0, len(cfg.Sources)+1)
	for _, ref := range cfg.Sources {
		sources = append(sources, lawapi.New(cfg.LawAPIURL, cfg.LawAPIOC, ref.Target, ref.MST, lawapi.Options{
			Executor: executor,
		}))
	}
	if cfg.AppendixDir != "" {
		sources = append(sources, appendix.NewLoader(cfg.AppendixDir, logger))
	}
	return sources
}

func newEmbedder(cfg config.Config) ports.Embedder {
	return ollama.NewEmbedder(cfg.OllamaURL, cfg.OllamaEmbedModel, ollama.Options{
		Executor: resilience.NewExecutor("ollama", resilience.DefaultConfig(), resilience.ClassifyTransport),
	})
}

func newSnapshotStore(cfg config.Config) ports.SnapshotStore {
	if cfg.SnapshotPath == "" {
		return nil
	}
	return snapshot.New(cfg.SnapshotPath)
}

func buildConfig(cfg config.Config) usecase.BuildConfig {
	return usecase.BuildConfig{
		EmbedCharCap:   cfg.EmbedCharCap,
		IndexBatchSize: cfg.IndexBatchSize,
	}
}
