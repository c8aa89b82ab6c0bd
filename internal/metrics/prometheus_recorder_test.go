package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveSectionDuration("validations", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncSectionResult("validations", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.AddPages("validations", PageWritten, 3)
	pr.AddPages("validations", PageUnchanged, 0)
	pr.SetIndexLinks("validations", 4)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	var written, links, outcome dto.Metric
	require.NoError(t, pr.pages.WithLabelValues("validations", "written").Write(&written))
	assert.InDelta(t, 3, written.GetCounter().GetValue(), 0)
	require.NoError(t, pr.indexLinks.WithLabelValues("validations").Write(&links))
	assert.InDelta(t, 4, links.GetGauge().GetValue(), 0)
	require.NoError(t, pr.buildOutcome.WithLabelValues("success").Write(&outcome))
	assert.InDelta(t, 1, outcome.GetCounter().GetValue(), 0)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveBuildDuration(time.Second)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.AddPages("expectations", PageWritten, 1)
	})
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(BuildOutcomeSuccess)

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "datadocs_build_outcomes_total")
}
