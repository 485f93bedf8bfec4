// Package metrics records build observations.
//
// Components receive a Recorder through their options; NoopRecorder is the
// default so nothing needs a nil check. PrometheusRecorder registers its
// collectors on a caller-supplied registry which the preview server exposes on
// /metrics and the build command can dump to a textfile for node_exporter.
package metrics
