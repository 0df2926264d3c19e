package ports

import (
	"context"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

// CorpusSource contributes normalized records to the corpus build. An
// error or an empty result means "zero records contributed"; the build
// fails only when every source contributes nothing.
type CorpusSource interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.DocumentRecord, error)
}

// Embedder encodes text into fixed-dimension vectors. The same encoder
// is used at index-build time and query time.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorIndex is the nearest-neighbor index over record embeddings.
type VectorIndex interface {
	// Rebuild drops any previously built index of the same identity so
	// a restart never accumulates stale points.
	Rebuild(ctx context.Context) error
	// IndexBatch upserts one batch of records keyed by position. Every
	// record must carry its embedding.
	IndexBatch(ctx context.Context, records []domain.DocumentRecord) error
	// Search returns up to k neighbors by cosine similarity, highest
	// first.
	Search(ctx context.Context, queryVector []float32, k int) ([]domain.Neighbor, error)
}

// AnswerGenerator is the external generation capability. maxTokens is
// an upper bound on answer length.
type AnswerGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// SnapshotStore persists the corpus, embeddings included, so startup
// can skip live fetch and live encoding.
type SnapshotStore interface {
	Save(records []domain.DocumentRecord) error
	Load() ([]domain.DocumentRecord, error)
}
