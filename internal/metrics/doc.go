// Package metrics records batch and stage measurements.
//
// Components take a Recorder. NoopRecorder is the default and does nothing;
// PrometheusRecorder keeps real collectors in a registry that the command line
// can write out as a node_exporter textfile after a batch.
package metrics
