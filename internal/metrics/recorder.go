package metrics

import "time"

// ResultLabel enumerates section result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// BuildOutcomeLabel enumerates final build outcomes.
type BuildOutcomeLabel string

const (
	BuildOutcomeSuccess  BuildOutcomeLabel = "success"
	BuildOutcomeFailed   BuildOutcomeLabel = "failed"
	BuildOutcomeCanceled BuildOutcomeLabel = "canceled"
)

// PageLabel distinguishes pages written from pages skipped as unchanged.
type PageLabel string

const (
	PageWritten   PageLabel = "written"
	PageUnchanged PageLabel = "unchanged"
)

// Recorder defines observability hooks for site builds. Implementations may
// forward to Prometheus; NoopRecorder is used when metrics are not configured.
type Recorder interface {
	ObserveSectionDuration(section string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncSectionResult(section string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	AddPages(section string, label PageLabel, n int)
	SetIndexLinks(section string, n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveSectionDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)           {}
func (NoopRecorder) IncSectionResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)            {}
func (NoopRecorder) AddPages(string, PageLabel, int)              {}
func (NoopRecorder) SetIndexLinks(string, int)                    {}
