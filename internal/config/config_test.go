package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"API_PORT", "LAW_SOURCES", "QDRANT_COLLECTION", "OLLAMA_EMBED_MODEL", "RETRIEVAL_TOP_K", "BUNDLE_MAX_ENTRIES", "ARTICLE_CHAR_CAP", "TABLE_CHAR_CAP", "RULE_CHAR_CAP"} {
		t.Setenv(key, "")
	}
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Fatalf("unexpected default port %q", cfg.APIPort)
	}
	if cfg.QdrantCollection != "law_articles" {
		t.Fatalf("unexpected default collection %q", cfg.QdrantCollection)
	}
	if cfg.OllamaEmbedModel != "bge-m3" {
		t.Fatalf("unexpected default embed model %q", cfg.OllamaEmbedModel)
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].Target != "law" || cfg.Sources[0].MST != "276853" {
		t.Fatalf("unexpected default sources %v", cfg.Sources)
	}
	if cfg.RetrievalTopK != 10 || cfg.BundleMaxEntries != 6 {
		t.Fatalf("unexpected retrieval defaults %d/%d", cfg.RetrievalTopK, cfg.BundleMaxEntries)
	}
	if cfg.ArticleCharCap != 2000 || cfg.TableCharCap != 6000 || cfg.RuleCharCap != 10000 {
		t.Fatalf("unexpected cap defaults %d/%d/%d", cfg.ArticleCharCap, cfg.TableCharCap, cfg.RuleCharCap)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("LAW_SOURCES", "law:276853,admrul:2100000199922")
	t.Setenv("MAX_ANSWER_TOKENS", "2048")
	t.Setenv("INDEX_BATCH_SIZE", "50")

	cfg := Load()
	if cfg.APIPort != "9090" {
		t.Fatalf("port override ignored, got %q", cfg.APIPort)
	}
	if len(cfg.Sources) != 2 || cfg.Sources[1].Target != "admrul" {
		t.Fatalf("sources override ignored: %v", cfg.Sources)
	}
	if cfg.MaxAnswerTokens != 2048 || cfg.IndexBatchSize != 50 {
		t.Fatalf("int overrides ignored: %d/%d", cfg.MaxAnswerTokens, cfg.IndexBatchSize)
	}
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("RETRIEVAL_TOP_K", "ten")

	cfg := Load()
	if cfg.RetrievalTopK != 10 {
		t.Fatalf("expected fallback 10, got %d", cfg.RetrievalTopK)
	}
}

func TestParseSources(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"single", "law:276853", 1},
		{"multiple", "law:276853, admrul:2100000199922", 2},
		{"malformed dropped", "law:276853,broken,admrul:", 1},
		{"empty", "", 0},
		{"only separators", " , , ", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseSources(tc.raw); len(got) != tc.want {
				t.Fatalf("parseSources(%q) = %v, want %d refs", tc.raw, got, tc.want)
			}
		})
	}
}
