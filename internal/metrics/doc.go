// Package metrics provides build and stage metrics for kexdocs.
//
// Components receive a Recorder; NoopRecorder is the default and does nothing.
// PrometheusRecorder registers collectors on a private registry and can export
// them as a node_exporter textfile after each build:
//
//	rec := metrics.NewPrometheusRecorder(nil)
//	svc := build.NewService(cfg).WithRecorder(rec)
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/kexdocs.prom")
package metrics
