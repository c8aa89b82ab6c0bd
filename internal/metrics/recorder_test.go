package metrics

import (
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveSectionDuration("expectations", time.Millisecond)
	r.ObserveBuildDuration(time.Millisecond)
	r.IncSectionResult("expectations", ResultFailed)
	r.IncBuildOutcome(BuildOutcomeCanceled)
	r.AddPages("expectations", PageUnchanged, 2)
	r.SetIndexLinks("expectations", 1)
}
