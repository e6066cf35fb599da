package batch

import (
	"log/slog"
	"sort"
	"time"

	"git.home.luguber.info/inful/wikimatter/internal/docs"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/metrics"
	"git.home.luguber.info/inful/wikimatter/internal/outline"
	"git.home.luguber.info/inful/wikimatter/internal/synth"
)

// Document outcomes counted per stage.
const (
	OutcomeWritten   = "written"
	OutcomeUnchanged = "unchanged"
	OutcomeStaged    = "staged"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
)

// State is the context object shared by the stages of one batch.
type State struct {
	Docs     []docs.DocFile
	Depths   map[string]int
	Registry *outline.Registry
	Titles   *synth.Titles
	Report   *Report
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

func (st *State) recorder() metrics.Recorder {
	if st.Recorder == nil {
		return metrics.NoopRecorder{}
	}
	return st.Recorder
}

// Paths returns the candidate paths in batch order.
func (st *State) Paths() []string {
	out := make([]string, len(st.Docs))
	for i, d := range st.Docs {
		out[i] = d.Path
	}
	return out
}

// Failure is a per-document error that did not abort the batch.
type Failure struct {
	Stage StageName
	Path  string
	Err   error
}

// Report summarizes a finished (or aborted) batch.
type Report struct {
	Start          time.Time
	End            time.Time
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.StageResult
	Outcomes       map[StageName]map[string]int
	Failures       []Failure
	Skipped        []synth.SkippedPage
}

func newReport() *Report {
	return &Report{
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.StageResult),
		Outcomes:       make(map[StageName]map[string]int),
	}
}

func (r *Report) recordStage(name StageName, d time.Duration, result metrics.StageResult) {
	r.StageDurations[name] = d
	r.StageResults[name] = result
}

func (r *Report) count(stage StageName, outcome string) {
	m, ok := r.Outcomes[stage]
	if !ok {
		m = make(map[string]int)
		r.Outcomes[stage] = m
	}
	m[outcome]++
}

// Count returns how many documents ended stage with outcome.
func (r *Report) Count(stage StageName, outcome string) int {
	return r.Outcomes[stage][outcome]
}

// Duration returns the wall time of the batch.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// LogSummary writes one line per stage with its outcome counts.
func (r *Report) LogSummary(logger *slog.Logger) {
	stages := make([]StageName, 0, len(r.StageResults))
	for name := range r.StageResults {
		stages = append(stages, name)
	}
	sort.Slice(stages, func(i, j int) bool { return r.order(stages[i]) < r.order(stages[j]) })

	for _, name := range stages {
		attrs := []any{
			logfields.Stage(string(name)),
			slog.String("result", string(r.StageResults[name])),
			logfields.DurationMS(ms(r.StageDurations[name])),
		}
		outcomes := make([]string, 0, len(r.Outcomes[name]))
		for o := range r.Outcomes[name] {
			outcomes = append(outcomes, o)
		}
		sort.Strings(outcomes)
		for _, o := range outcomes {
			attrs = append(attrs, slog.Int(o, r.Outcomes[name][o]))
		}
		logger.Info("Stage summary", attrs...)
	}
	logger.Info("Batch complete",
		slog.Int("failures", len(r.Failures)),
		slog.Int("duplicates", len(r.Skipped)),
		logfields.DurationMS(ms(r.Duration())))
}

func (r *Report) order(name StageName) int {
	for i, s := range []StageName{StageResolve, StageNumber, StageSynthesize, StageOverlay, StageDetect} {
		if s == name {
			return i
		}
	}
	return len(r.StageResults)
}
