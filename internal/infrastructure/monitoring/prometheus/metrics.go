package prometheus

import (
	"fmt"
	"time"
)

// AppMetrics holds all application metrics for the analysis pipeline.
type AppMetrics struct {
	// HTTP Layer
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Analysis pipeline
	AnalysisRequestsTotal   CounterVec
	AnalysisDuration        HistogramVec
	AnalysisConfidence      HistogramVec
	AnalysisWarningsTotal   CounterVec
	StructureResolutions    CounterVec
	EnrichmentFetchesTotal  CounterVec
	ValidationLookupsTotal  CounterVec
	ScoringRunsTotal        CounterVec

	// Generative backend
	LLMRequestsTotal   CounterVec
	LLMRequestDuration HistogramVec
	LLMParseFailures   CounterVec
	LLMTokensUsed      CounterVec

	// Outbound sources
	SourceRequestsTotal   CounterVec
	SourceRequestDuration HistogramVec
	SourceRetriesTotal    CounterVec

	// Infrastructure
	CacheHitsTotal    CounterVec
	CacheMissesTotal  CounterVec
	DBQueryDuration   HistogramVec
	EventsPublished   CounterVec
	ArtifactsArchived CounterVec

	// System Health
	HealthCheckStatus GaugeVec
	ErrorsTotal       CounterVec
}

// Default Buckets
var (
	DefaultHTTPDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultAnalysisDurationBuckets = []float64{.5, 1, 2, 5, 10, 20, 30, 60, 120}
	DefaultLLMDurationBuckets      = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
	DefaultSourceDurationBuckets   = []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20}
	DefaultDBDurationBuckets       = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
	DefaultConfidenceBuckets       = []float64{.1, .2, .3, .4, .5, .6, .7, .8, .9, 1}
)

// NewAppMetrics registers all metrics and returns AppMetrics struct.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	// HTTP
	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "Active HTTP requests", "method", "path")

	// Analysis pipeline
	m.AnalysisRequestsTotal = collector.RegisterCounter("analysis_requests_total", "Analysis pipeline runs", "input_kind", "status")
	m.AnalysisDuration = collector.RegisterHistogram("analysis_duration_seconds", "End-to-end analysis duration", DefaultAnalysisDurationBuckets, "input_kind")
	m.AnalysisConfidence = collector.RegisterHistogram("analysis_confidence", "Blended confidence of completed analyses", DefaultConfidenceBuckets, "input_kind")
	m.AnalysisWarningsTotal = collector.RegisterCounter("analysis_warnings_total", "Degradation warnings emitted", "stage")
	m.StructureResolutions = collector.RegisterCounter("structure_resolutions_total", "Structure resolution outcomes", "outcome")
	m.EnrichmentFetchesTotal = collector.RegisterCounter("enrichment_fetches_total", "Structure enrichment sub-fetches", "artifact", "outcome")
	m.ValidationLookupsTotal = collector.RegisterCounter("validation_lookups_total", "Validation source lookups", "source", "outcome")
	m.ScoringRunsTotal = collector.RegisterCounter("scoring_runs_total", "Descriptor scoring runs", "status")

	// Generative backend
	m.LLMRequestsTotal = collector.RegisterCounter("llm_requests_total", "Generative backend requests", "model", "status")
	m.LLMRequestDuration = collector.RegisterHistogram("llm_request_duration_seconds", "Generative request duration", DefaultLLMDurationBuckets, "model")
	m.LLMParseFailures = collector.RegisterCounter("llm_parse_failures_total", "Generative responses with no parseable JSON", "model")
	m.LLMTokensUsed = collector.RegisterCounter("llm_tokens_total", "Generative tokens used", "model", "direction")

	// Outbound sources
	m.SourceRequestsTotal = collector.RegisterCounter("source_requests_total", "Outbound source requests", "source", "status")
	m.SourceRequestDuration = collector.RegisterHistogram("source_request_duration_seconds", "Outbound source request duration", DefaultSourceDurationBuckets, "source")
	m.SourceRetriesTotal = collector.RegisterCounter("source_retries_total", "Outbound source retries", "source")

	// Infrastructure
	m.CacheHitsTotal = collector.RegisterCounter("cache_hits_total", "Cache hits", "cache")
	m.CacheMissesTotal = collector.RegisterCounter("cache_misses_total", "Cache misses", "cache")
	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "db", "operation")
	m.EventsPublished = collector.RegisterCounter("events_published_total", "Analysis events published", "topic", "status")
	m.ArtifactsArchived = collector.RegisterCounter("artifacts_archived_total", "Structure artifacts archived", "kind", "status")

	// System Health
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")
	m.ErrorsTotal = collector.RegisterCounter("errors_total", "Total errors", "component", "error_code")

	return m
}

// RegisterAppMetrics is an alias for NewAppMetrics.
func RegisterAppMetrics(collector MetricsCollector) *AppMetrics {
	return NewAppMetrics(collector)
}

// Helpers

func RecordHTTPRequest(metrics *AppMetrics, method, path string, statusCode int, duration time.Duration) {
	status := fmt.Sprintf("%d", statusCode)
	metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordAnalysis(metrics *AppMetrics, inputKind string, success bool, confidence float64, duration time.Duration) {
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.AnalysisRequestsTotal.WithLabelValues(inputKind, status).Inc()
	metrics.AnalysisDuration.WithLabelValues(inputKind).Observe(duration.Seconds())
	if success {
		metrics.AnalysisConfidence.WithLabelValues(inputKind).Observe(confidence)
	}
}

func RecordLLMCall(metrics *AppMetrics, model string, success bool, duration time.Duration, inputTokens, outputTokens int) {
	status := "success"
	if !success {
		status = "failure"
	}
	metrics.LLMRequestsTotal.WithLabelValues(model, status).Inc()
	metrics.LLMRequestDuration.WithLabelValues(model).Observe(duration.Seconds())
	metrics.LLMTokensUsed.WithLabelValues(model, "input").Add(float64(inputTokens))
	metrics.LLMTokensUsed.WithLabelValues(model, "output").Add(float64(outputTokens))
}

func RecordSourceRequest(metrics *AppMetrics, source string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	metrics.SourceRequestsTotal.WithLabelValues(source, status).Inc()
	metrics.SourceRequestDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func RecordCacheAccess(metrics *AppMetrics, cache string, hit bool) {
	if hit {
		metrics.CacheHitsTotal.WithLabelValues(cache).Inc()
	} else {
		metrics.CacheMissesTotal.WithLabelValues(cache).Inc()
	}
}

func RecordError(metrics *AppMetrics, component, errorCode string) {
	metrics.ErrorsTotal.WithLabelValues(component, errorCode).Inc()
}
