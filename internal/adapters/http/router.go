package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hillslab/lawcounsel/internal/core/domain"
	"github.com/hillslab/lawcounsel/internal/core/ports"
	"github.com/hillslab/lawcounsel/internal/observability/metrics"
)

type Router struct {
	questions ports.QuestionService
	corpus    *domain.Corpus
	metrics   *metrics.Metrics
}

func NewRouter(questions ports.QuestionService, corpus *domain.Corpus, m *metrics.Metrics) *Router {
	return &Router{
		questions: questions,
		corpus:    corpus,
		metrics:   m,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/ask", rt.ask)
	mux.HandleFunc("/v1/corpus", rt.corpusStats)
	mux.Handle("/metrics", rt.metrics.Handler())
	return requestIDMiddleware(accessLogMiddleware(rt.metrics.Middleware(mux)))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return
	}

	start := time.Now()
	answer, err := rt.questions.Ask(r.Context(), req.Question)
	if err != nil {
		rt.metrics.ObserveQuestion("error", nil, time.Since(start))
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	rt.metrics.ObserveQuestion("ok", answer.Sources, time.Since(start))
	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) corpusStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": rt.corpus.Len(),
		"articles":  rt.corpus.CountByKind(domain.KindArticle),
		"tables":    rt.corpus.CountByKind(domain.KindTable),
		"sources":   rt.corpus.CountBySource(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
