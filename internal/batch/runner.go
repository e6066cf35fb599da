package batch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/metrics"
)

// RunStages executes stages in order, recording timing and stopping on the first
// fatal or canceled stage. Warning stages are recorded and the batch continues.
func RunStages(ctx context.Context, st *State, stages []StageDef) error {
	rec := st.recorder()
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(def.Name, ctx.Err())
			st.Report.recordStage(def.Name, 0, metrics.StageCanceled)
			rec.IncStageResult(string(def.Name), metrics.StageCanceled)
			return se
		default:
		}

		t0 := time.Now()
		err := def.Fn(ctx, st)
		dur := time.Since(t0)
		rec.ObserveStageDuration(string(def.Name), dur)

		if err == nil {
			st.Report.recordStage(def.Name, dur, metrics.StageSuccess)
			rec.IncStageResult(string(def.Name), metrics.StageSuccess)
			st.Logger.Debug("Stage complete", logfields.Stage(string(def.Name)), logfields.DurationMS(ms(dur)))
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			se = NewFatalStageError(def.Name, err)
		}
		result := resultFor(se.Kind)
		st.Report.recordStage(def.Name, dur, result)
		rec.IncStageResult(string(def.Name), result)

		if se.Kind == StageErrorWarning {
			st.Logger.Warn("Stage completed with failures",
				logfields.Stage(string(def.Name)),
				logfields.DurationMS(ms(dur)),
				slog.String("detail", se.Err.Error()))
			continue
		}
		return se
	}
	return nil
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }
