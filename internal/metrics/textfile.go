package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"

	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
)

// WriteTextfile writes the recorder's metrics in the node_exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return ferrors.FileSystemError("write metrics textfile").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return nil
}
