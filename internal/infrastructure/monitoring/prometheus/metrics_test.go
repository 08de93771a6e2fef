package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAppMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c := newTestCollector(t)
	return NewAppMetrics(c), c
}

func TestNewAppMetrics_AllMetricsRegistered(t *testing.T) {
	m, _ := newTestAppMetrics(t)
	require.NotNil(t, m)

	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.AnalysisRequestsTotal)
	assert.NotNil(t, m.AnalysisConfidence)
	assert.NotNil(t, m.StructureResolutions)
	assert.NotNil(t, m.EnrichmentFetchesTotal)
	assert.NotNil(t, m.ValidationLookupsTotal)
	assert.NotNil(t, m.ScoringRunsTotal)
	assert.NotNil(t, m.LLMRequestsTotal)
	assert.NotNil(t, m.LLMParseFailures)
	assert.NotNil(t, m.SourceRequestsTotal)
	assert.NotNil(t, m.CacheHitsTotal)
	assert.NotNil(t, m.EventsPublished)
	assert.NotNil(t, m.ArtifactsArchived)
	assert.NotNil(t, m.ErrorsTotal)
}

func TestRecordHTTPRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordHTTPRequest(m, "POST", "/api/v1/analysis/name", 200, 50*time.Millisecond)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_http_requests_total{method="POST",path="/api/v1/analysis/name",status_code="200"} 1`)
}

func TestRecordAnalysis_SuccessObservesConfidence(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordAnalysis(m, "name", true, 0.85, 2*time.Second)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_analysis_requests_total{input_kind="name",status="success"} 1`)
	assert.Contains(t, out, `test_unit_analysis_confidence_count{input_kind="name"} 1`)
}

func TestRecordAnalysis_FailureSkipsConfidence(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordAnalysis(m, "notation", false, 0, time.Second)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_analysis_requests_total{input_kind="notation",status="failure"} 1`)
	assert.NotContains(t, out, `test_unit_analysis_confidence_count{input_kind="notation"}`)
}

func TestRecordLLMCall(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordLLMCall(m, "gpt-4o-mini", true, 3*time.Second, 120, 480)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_llm_requests_total{model="gpt-4o-mini",status="success"} 1`)
	assert.Contains(t, out, `test_unit_llm_tokens_total{direction="input",model="gpt-4o-mini"} 120`)
	assert.Contains(t, out, `test_unit_llm_tokens_total{direction="output",model="gpt-4o-mini"} 480`)
}

func TestRecordSourceRequest(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordSourceRequest(m, "pubchem", 100*time.Millisecond, nil)
	RecordSourceRequest(m, "pubchem", 100*time.Millisecond, errors.New("timeout"))

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_source_requests_total{source="pubchem",status="success"} 1`)
	assert.Contains(t, out, `test_unit_source_requests_total{source="pubchem",status="failure"} 1`)
}

func TestRecordCacheAccess(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordCacheAccess(m, "resolution", true)
	RecordCacheAccess(m, "resolution", false)
	RecordCacheAccess(m, "resolution", false)

	out := scrapeMetrics(t, c)
	assert.Contains(t, out, `test_unit_cache_hits_total{cache="resolution"} 1`)
	assert.Contains(t, out, `test_unit_cache_misses_total{cache="resolution"} 2`)
}

func TestRecordError(t *testing.T) {
	m, c := newTestAppMetrics(t)
	RecordError(m, "pipeline", "GEN_002")
	assert.Contains(t, scrapeMetrics(t, c), `test_unit_errors_total{component="pipeline",error_code="GEN_002"} 1`)
}
