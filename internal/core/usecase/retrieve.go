package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/core/ports"
)

// RetrievalConfig carries the merge and truncation knobs. The defaults
// are starting points, not contracts; tune them against a held-out
// question set.
type RetrievalConfig struct {
	TopK           int // vector neighbors requested per question
	MaxEntries     int // hard cap on bundle size
	RuleCharCap    int // generous: rule targets are whole appendices
	ArticleCharCap int
	TableCharCap   int
}

func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		TopK:           10,
		MaxEntries:     6,
		RuleCharCap:    10000,
		ArticleCharCap: 2000,
		TableCharCap:   6000,
	}
}

func (c RetrievalConfig) normalize() RetrievalConfig {
	def := DefaultRetrievalConfig()
	out := c
	if out.TopK <= 0 {
		out.TopK = def.TopK
	}
	if out.MaxEntries <= 0 {
		out.MaxEntries = def.MaxEntries
	}
	if out.RuleCharCap <= 0 {
		out.RuleCharCap = def.RuleCharCap
	}
	if out.ArticleCharCap <= 0 {
		out.ArticleCharCap = def.ArticleCharCap
	}
	if out.TableCharCap <= 0 {
		out.TableCharCap = def.TableCharCap
	}
	return out
}

// HybridRetriever merges rule-based exact lookups with semantic
// nearest-neighbor search into one deduplicated, length-bounded bundle.
// Rule matches come first: for their narrow targets they are both
// higher precision and higher recall than similarity ranking.
type HybridRetriever struct {
	corpus   *domain.Corpus
	rules    domain.RuleSet
	embedder ports.Embedder
	index    ports.VectorIndex
	cfg      RetrievalConfig
	logger   *slog.Logger
}

func NewHybridRetriever(
	corpus *domain.Corpus,
	rules domain.RuleSet,
	embedder ports.Embedder,
	index ports.VectorIndex,
	cfg RetrievalConfig,
	logger *slog.Logger,
) *HybridRetriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &HybridRetriever{
		corpus:   corpus,
		rules:    rules,
		embedder: embedder,
		index:    index,
		cfg:      cfg.normalize(),
		logger:   logger,
	}
}

// Retrieve never fails: a dead encoder or index only costs the semantic
// leg, and an empty corpus yields an empty bundle.
func (r *HybridRetriever) Retrieve(ctx context.Context, question string) domain.ContextBundle {
	bundle := domain.ContextBundle{}

	for _, match := range MatchRules(question, r.rules, r.corpus) {
		if len(bundle.Entries) >= r.cfg.MaxEntries {
			return bundle
		}
		if bundle.Contains(match.Position) {
			continue
		}
		r.appendRecord(&bundle, match.Record, match.Label, r.cfg.RuleCharCap)
	}

	for _, neighbor := range r.semanticNeighbors(ctx, question) {
		if len(bundle.Entries) >= r.cfg.MaxEntries {
			break
		}
		if bundle.Contains(neighbor.Position) {
			continue
		}
		record, err := r.corpus.Record(neighbor.Position)
		if err != nil {
			r.logger.Warn("retrieve_stale_neighbor", "position", neighbor.Position, "error", err)
			continue
		}
		charCap := r.cfg.ArticleCharCap
		if record.Kind == domain.KindTable {
			charCap = r.cfg.TableCharCap
		}
		r.appendRecord(&bundle, record, domain.OriginSemantic, charCap)
	}

	return bundle
}

func (r *HybridRetriever) semanticNeighbors(ctx context.Context, question string) []domain.Neighbor {
	if r.corpus.Len() == 0 {
		return nil
	}

	queryVector, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		r.logger.Warn("retrieve_embed_failed", "error", err)
		return nil
	}

	neighbors, err := r.index.Search(ctx, queryVector, r.cfg.TopK)
	if err != nil {
		r.logger.Warn("retrieve_search_failed", "error", err)
		return nil
	}
	return neighbors
}

func (r *HybridRetriever) appendRecord(bundle *domain.ContextBundle, record domain.DocumentRecord, origin string, charCap int) {
	text, truncated, total := capRunes(record.FullText, charCap)
	if truncated {
		text += truncationMarker(charCap, total)
	}
	bundle.Append(domain.ContextEntry{
		Text: text,
		Provenance: domain.Provenance{
			Kind:       record.Kind,
			SourceName: record.SourceName,
			Number:     record.Number,
			Title:      record.Title,
			Position:   record.Position,
			Origin:     origin,
			Truncated:  truncated,
		},
	})
}

// capRunes bounds text to max runes. Byte truncation would split UTF-8
// sequences mid-character in Korean text.
func capRunes(s string, max int) (capped string, truncated bool, total int) {
	runes := []rune(s)
	total = len(runes)
	if max <= 0 || total <= max {
		return s, false, total
	}
	return string(runes[:max]), true, total
}

// truncationMarker makes silent data loss visible to both the model
// and the user.
func truncationMarker(shown, total int) string {
	return fmt.Sprintf("\n...(이하 생략: 전체 %d자 중 %d자 표시)", total, shown)
}
