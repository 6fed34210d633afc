// Package metrics provides build observability behind a small Recorder
// interface.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so call sites never check for nil:
//
//	svc := build.NewService(logger)             // NoopRecorder
//	svc = svc.WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors on the supplied registry. The
// registry can be served over HTTP (HTTPHandler, used by the preview server)
// or written once to a node-exporter textfile (WriteTextfile, used by
// `blogbuilder build --metrics-file`).
package metrics
