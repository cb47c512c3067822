// Package metrics provides publish metrics for docsite.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so callers never nil-check:
//
//	pub := publish.New(opts, publish.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// A build step has no scrape endpoint, so the Prometheus registry is written
// to a node-exporter textfile with WriteTextfile at the end of the run.
package metrics
