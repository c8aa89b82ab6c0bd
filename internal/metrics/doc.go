// Package metrics provides build metrics for datadocs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	b, err := sitebuilder.New(site, stores, sitebuilder.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The watch command serves the registry with HTTPHandler when metrics are
// enabled in the project configuration.
package metrics
