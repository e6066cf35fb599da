package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "wikimatter"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	registry         *prom.Registry
	stageDuration    *prom.HistogramVec
	batchDuration    prom.Histogram
	stageResults     *prom.CounterVec
	documentOutcomes *prom.CounterVec
	duplicateTitles  prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual batch stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.batchDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Total batch duration",
			Buckets:   prom.DefBuckets,
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.documentOutcomes = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents processed per stage by outcome",
		}, []string{"stage", "outcome"})
		pr.duplicateTitles = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "duplicate_titles",
			Help:      "Pages reported with a duplicate title in the last batch",
		})
		reg.MustRegister(pr.stageDuration, pr.batchDuration, pr.stageResults, pr.documentOutcomes, pr.duplicateTitles)
	})
	return pr
}

// Registry returns the registry the collectors were registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBatchDuration(d time.Duration) {
	if p == nil || p.batchDuration == nil {
		return
	}
	p.batchDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result StageResult) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncDocumentOutcome(stage, outcome string) {
	if p == nil || p.documentOutcomes == nil {
		return
	}
	p.documentOutcomes.WithLabelValues(stage, outcome).Inc()
}

func (p *PrometheusRecorder) SetDuplicateTitles(n int) {
	if p == nil || p.duplicateTitles == nil {
		return
	}
	p.duplicateTitles.Set(float64(n))
}
