package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hillslab/lawcounsel/internal/core/domain"
)

// Metrics is the private-registry instrument set for one process.
type Metrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	questionsTotal   *prometheus.CounterVec
	ruleHitsTotal    *prometheus.CounterVec
	noContextTotal   prometheus.Counter
	bundleEntries    prometheus.Histogram
	questionDuration prometheus.Histogram

	corpusDocuments *prometheus.GaugeVec
	buildDuration   prometheus.Gauge
}

func New(service string) *Metrics {
	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: registry,
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "lawqa",
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Total HTTP requests processed.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "lawqa",
			Subsystem:   "http",
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),
		questionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "lawqa",
			Subsystem:   "qa",
			Name:        "questions_total",
			Help:        "Total questions processed by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		ruleHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "lawqa",
			Subsystem:   "qa",
			Name:        "rule_hits_total",
			Help:        "Keyword-rule matches by rule label.",
			ConstLabels: constLabels,
		}, []string{"rule"}),
		noContextTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "lawqa",
			Subsystem:   "qa",
			Name:        "no_context_total",
			Help:        "Questions answered with an empty context bundle.",
			ConstLabels: constLabels,
		}),
		bundleEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "lawqa",
			Subsystem:   "qa",
			Name:        "bundle_entries",
			Help:        "Context bundle size per question.",
			Buckets:     []float64{0, 1, 2, 3, 4, 6, 8},
			ConstLabels: constLabels,
		}),
		questionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   "lawqa",
			Subsystem:   "qa",
			Name:        "question_duration_seconds",
			Help:        "End-to-end retrieve-and-answer duration.",
			Buckets:     []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			ConstLabels: constLabels,
		}),
		corpusDocuments: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "lawqa",
			Subsystem:   "corpus",
			Name:        "documents",
			Help:        "Corpus records by kind.",
			ConstLabels: constLabels,
		}, []string{"kind"}),
		buildDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "lawqa",
			Subsystem:   "corpus",
			Name:        "build_duration_seconds",
			Help:        "Duration of the startup corpus+index build.",
			ConstLabels: constLabels,
		}),
	}

	registry.MustRegister(
		m.requestTotal,
		m.requestDuration,
		m.questionsTotal,
		m.ruleHitsTotal,
		m.noContextTotal,
		m.bundleEntries,
		m.questionDuration,
		m.corpusDocuments,
		m.buildDuration,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per method/path.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(recorder.statusCode)).Inc()
		m.requestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}

// ObserveQuestion records one answered (or failed) question. sources is
// the answer's provenance list; nil on error.
func (m *Metrics) ObserveQuestion(outcome string, sources []domain.Provenance, duration time.Duration) {
	m.questionsTotal.WithLabelValues(outcome).Inc()
	m.questionDuration.Observe(duration.Seconds())
	if outcome != "ok" {
		return
	}

	m.bundleEntries.Observe(float64(len(sources)))
	if len(sources) == 0 {
		m.noContextTotal.Inc()
	}
	for _, source := range sources {
		if source.Origin != domain.OriginSemantic {
			m.ruleHitsTotal.WithLabelValues(source.Origin).Inc()
		}
	}
}

func (m *Metrics) SetCorpus(corpus *domain.Corpus, buildDuration time.Duration) {
	m.corpusDocuments.WithLabelValues(string(domain.KindArticle)).Set(float64(corpus.CountByKind(domain.KindArticle)))
	m.corpusDocuments.WithLabelValues(string(domain.KindTable)).Set(float64(corpus.CountByKind(domain.KindTable)))
	m.buildDuration.Set(buildDuration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
