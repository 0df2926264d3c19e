package ports

import (
	"context"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

// QuestionService answers one question grounded in retrieved passages.
type QuestionService interface {
	Ask(ctx context.Context, question string) (*domain.Answer, error)
}

// CorpusBuilder is the blocking startup phase: assemble the corpus,
// then embed and index it.
type CorpusBuilder interface {
	Load(ctx context.Context) (*domain.Corpus, error)
	Embed(ctx context.Context, corpus *domain.Corpus) error
	Index(ctx context.Context, corpus *domain.Corpus) error
}
