package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/observability/metrics"
)

type questionServiceFake struct {
	answer       *domain.Answer
	err          error
	lastQuestion string
}

func (f *questionServiceFake) Ask(_ context.Context, question string) (*domain.Answer, error) {
	f.lastQuestion = question
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func newTestRouter(service *questionServiceFake) http.Handler {
	corpus := domain.NewCorpus([]domain.DocumentRecord{
		{Kind: domain.KindArticle, SourceName: "산업안전보건법", Number: "제1조", FullText: "목적"},
		{Kind: domain.KindTable, SourceName: "산업안전보건법 시행규칙", Number: "별표 21", Title: "작업환경측정 대상 유해인자", FullText: "유기화합물"},
	})
	return NewRouter(service, corpus, metrics.New("test")).Handler()
}

func TestAskHappyPath(t *testing.T) {
	service := &questionServiceFake{answer: &domain.Answer{
		Text: "제29조에 따르면 교육 의무가 있습니다.",
		Sources: []domain.Provenance{
			{Kind: domain.KindArticle, SourceName: "산업안전보건법", Number: "제29조", Position: 0, Origin: domain.OriginSemantic},
		},
	}}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"안전보건교육 의무가 있나요?"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if service.lastQuestion != "안전보건교육 의무가 있나요?" {
		t.Fatalf("question not forwarded: %q", service.lastQuestion)
	}

	var answer domain.Answer
	if err := json.Unmarshal(rec.Body.Bytes(), &answer); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if answer.Text == "" || len(answer.Sources) != 1 {
		t.Fatalf("unexpected answer payload: %+v", answer)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	router := newTestRouter(&questionServiceFake{})

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"   "}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAskInvalidJSON(t *testing.T) {
	router := newTestRouter(&questionServiceFake{})

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAskMethodNotAllowed(t *testing.T) {
	router := newTestRouter(&questionServiceFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/ask", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestAskServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", domain.WrapError(domain.ErrInvalidInput, "ask", errors.New("empty")), http.StatusBadRequest},
		{"temporary", domain.WrapError(domain.ErrTemporary, "ask", errors.New("busy")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newTestRouter(&questionServiceFake{err: tc.err})

			req := httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question":"질문"}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestCorpusStats(t *testing.T) {
	router := newTestRouter(&questionServiceFake{})

	req := httptest.NewRequest(http.MethodGet, "/v1/corpus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var stats struct {
		Documents int            `json:"documents"`
		Articles  int            `json:"articles"`
		Tables    int            `json:"tables"`
		Sources   map[string]int `json:"sources"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Documents != 2 || stats.Articles != 1 || stats.Tables != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Sources["산업안전보건법"] != 1 || stats.Sources["산업안전보건법 시행규칙"] != 1 {
		t.Fatalf("unexpected source counts %v", stats.Sources)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&questionServiceFake{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	router := newTestRouter(&questionServiceFake{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-123" {
		t.Fatalf("caller request id not preserved, got %q", got)
	}
}
