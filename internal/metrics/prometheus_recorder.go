package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "datadocs"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	sectionDuration *prom.HistogramVec
	buildDuration   prom.Histogram
	sectionResults  *prom.CounterVec
	buildOutcome    *prom.CounterVec
	pages           *prom.CounterVec
	indexLinks      *prom.GaugeVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
// A nil reg gets a fresh private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		sectionDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "section_duration_seconds",
			Help:      "Duration of individual site section builds",
			Buckets:   prom.DefBuckets,
		}, []string{"section"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total site build duration",
			Buckets:   prom.DefBuckets,
		}),
		sectionResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "section_results_total",
			Help:      "Section build results by outcome",
		}, []string{"section", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Site builds by final status",
		}, []string{"outcome"}),
		pages: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_total",
			Help:      "Rendered pages by section and write result",
		}, []string{"section", "result"}),
		indexLinks: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "index_links",
			Help:      "Links per section on the last written index",
		}, []string{"section"}),
	}
	reg.MustRegister(pr.sectionDuration, pr.buildDuration, pr.sectionResults, pr.buildOutcome, pr.pages, pr.indexLinks)
	return pr
}

func (p *PrometheusRecorder) ObserveSectionDuration(section string, d time.Duration) {
	if p == nil {
		return
	}
	p.sectionDuration.WithLabelValues(section).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncSectionResult(section string, result ResultLabel) {
	if p == nil {
		return
	}
	p.sectionResults.WithLabelValues(section, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcomeLabel) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPages(section string, label PageLabel, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pages.WithLabelValues(section, string(label)).Add(float64(n))
}

func (p *PrometheusRecorder) SetIndexLinks(section string, n int) {
	if p == nil {
		return
	}
	p.indexLinks.WithLabelValues(section).Set(float64(n))
}
