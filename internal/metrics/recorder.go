package metrics

import "time"

// StageResult enumerates stage result categories for counters.
type StageResult string

const (
	StageSuccess  StageResult = "success"
	StageWarning  StageResult = "warning"
	StageFatal    StageResult = "fatal"
	StageCanceled StageResult = "canceled"
)

// Recorder defines observability hooks for batch and stage metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBatchDuration(d time.Duration)
	IncStageResult(stage string, result StageResult)
	// IncDocumentOutcome counts one document per stage outcome: written|unchanged|staged|skipped|failed.
	IncDocumentOutcome(stage, outcome string)
	SetDuplicateTitles(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBatchDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, StageResult)         {}
func (NoopRecorder) IncDocumentOutcome(string, string)          {}
func (NoopRecorder) SetDuplicateTitles(int)                     {}
