package config

import (
	"os"
	"strconv"
	"strings"
)

// SourceRef identifies one statute or administrative rule on the legal
// data API, e.g. {Target: "law", MST: "276853"}.
type SourceRef struct {
	Target string
	MST    string
}

type Config struct {
	APIPort  string
	LogLevel string

	LawAPIURL string
	LawAPIOC  string
	Sources   []SourceRef

	AppendixDir  string
	SnapshotPath string
	RulesPath    string

	QdrantURL        string
	QdrantCollection string

	OllamaURL        string
	OllamaEmbedModel string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
	MaxAnswerTokens  int

	EmbedCharCap   int
	IndexBatchSize int

	RetrievalTopK    int
	BundleMaxEntries int
	ArticleCharCap   int
	TableCharCap     int
	RuleCharCap      int
}

func Load() Config {
	return Config{
		APIPort:  mustEnv("API_PORT", "8080"),
		LogLevel: mustEnv("LOG_LEVEL", "info"),

		LawAPIURL: mustEnv("LAW_API_URL", "http://www.law.go.kr/DRF/lawService.do"),
		LawAPIOC:  mustEnv("LAW_API_OC", ""),
		Sources:   parseSources(mustEnv("LAW_SOURCES", "law:276853")),

		AppendixDir:  mustEnv("APPENDIX_DIR", ""),
		SnapshotPath: mustEnv("SNAPSHOT_PATH", ""),
		RulesPath:    mustEnv("RULES_PATH", ""),

		QdrantURL:        mustEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: mustEnv("QDRANT_COLLECTION", "law_articles"),

		OllamaURL:        mustEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaEmbedModel: mustEnv("OLLAMA_EMBED_MODEL", "bge-m3"),

		AnthropicAPIKey:  mustEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   mustEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		AnthropicBaseURL: mustEnv("ANTHROPIC_BASE_URL", ""),
		MaxAnswerTokens:  mustEnvInt("MAX_ANSWER_TOKENS", 1024),

		EmbedCharCap:   mustEnvInt("EMBED_CHAR_CAP", 2000),
		IndexBatchSize: mustEnvInt("INDEX_BATCH_SIZE", 100),

		RetrievalTopK:    mustEnvInt("RETRIEVAL_TOP_K", 10),
		BundleMaxEntries: mustEnvInt("BUNDLE_MAX_ENTRIES", 6),
		ArticleCharCap:   mustEnvInt("ARTICLE_CHAR_CAP", 2000),
		TableCharCap:     mustEnvInt("TABLE_CHAR_CAP", 6000),
		RuleCharCap:      mustEnvInt("RULE_CHAR_CAP", 10000),
	}
}

// parseSources reads a comma list of target:MST refs, e.g.
// "law:276853,admrul:2100000199922". Malformed entries are dropped.
func parseSources(raw string) []SourceRef {
	parts := strings.Split(raw, ",")
	out := make([]SourceRef, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		target, mst, ok := strings.Cut(part, ":")
		if !ok || target == "" || mst == "" {
			continue
		}
		out = append(out, SourceRef{Target: target, MST: mst})
	}
	return out
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
