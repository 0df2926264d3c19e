package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus", "snapshot.json.gz")
	store := New(path)

	records := []domain.DocumentRecord{
		{Kind: domain.KindArticle, SourceName: "산업안전보건법", Number: "제1조", FullText: "목적", Embedding: []float32{0.1, 0.2, 0.3}, Position: 0},
		{Kind: domain.KindTable, SourceName: "산업안전보건법 시행규칙", Number: "별표 21", Title: "작업환경측정 대상 유해인자", FullText: "유기화합물", Position: 1},
	}
	if err := store.Save(records); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 records, got %d", len(loaded))
	}
	if loaded[0].FullText != "목적" || len(loaded[0].Embedding) != 3 {
		t.Fatalf("record 0 lost data: %+v", loaded[0])
	}
	if loaded[1].Title != "작업환경측정 대상 유해인자" || loaded[1].Position != 1 {
		t.Fatalf("record 1 lost data: %+v", loaded[1])
	}
}

func TestSaveOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json.gz")
	store := New(path)

	first := []domain.DocumentRecord{{Kind: domain.KindArticle, SourceName: "법", Number: "제1조", FullText: "구버전"}}
	second := []domain.DocumentRecord{
		{Kind: domain.KindArticle, SourceName: "법", Number: "제1조", FullText: "신버전"},
		{Kind: domain.KindArticle, SourceName: "법", Number: "제2조", FullText: "추가"},
	}
	if err := store.Save(first); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(second); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 || loaded[0].FullText != "신버전" {
		t.Fatalf("overwrite did not take: %+v", loaded)
	}
}

func TestLoadMissingSnapshot(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent.json.gz"))
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected error for missing snapshot")
	}
}
