// Package batch runs one pass over a set of candidate documents.
//
// A batch is a fixed sequence of stages sharing a State: depths are resolved and
// the whole outline numbered before any document is rewritten, then every
// eligible document gets its publishing block, overlays are applied, and the
// final titles are checked for duplicates. Per-document failures are recorded
// and the batch moves on; only fatal errors abort it.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/wikimatter/internal/docs"
	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/metrics"
	"git.home.luguber.info/inful/wikimatter/internal/outline"
	"git.home.luguber.info/inful/wikimatter/internal/synth"
	"git.home.luguber.info/inful/wikimatter/internal/templates"
)

// Options select which stages run and how.
type Options struct {
	// Numbering resolves depths and prefixes titles with outline numbers.
	Numbering bool
	// Root places the content root's index under an implicit external root.
	Root bool
	// Overlay applies diff overlay files after synthesis.
	Overlay bool
	// Force rewrites documents that already carry the publishing block.
	Force bool
	// MaxDepth bounds depth resolution; zero uses the outline default.
	MaxDepth int
}

// Deps are the collaborators a batch writes through.
type Deps struct {
	Tree                outline.Tree
	PublishKey          string
	OverlaySuffix       string
	Store               *docstore.Store
	FrontmatterTemplate *templates.Template
	OverlayTemplate     *templates.Template
	Recorder            metrics.Recorder
	Logger              *slog.Logger
}

// Processor runs batches with fixed dependencies and options.
type Processor struct {
	deps Deps
	opts Options
}

// New creates a Processor.
func New(deps Deps, opts Options) *Processor {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Recorder == nil {
		deps.Recorder = metrics.NoopRecorder{}
	}
	return &Processor{deps: deps, opts: opts}
}

// Run processes documents and returns the batch report. The report is returned
// even when a fatal stage error aborts the batch.
func (p *Processor) Run(ctx context.Context, documents []docs.DocFile) (*Report, error) {
	st := p.newState(documents)
	stages := NewPipeline().
		AddIf(p.opts.Numbering, StageResolve, p.resolve).
		AddIf(p.opts.Numbering, StageNumber, p.number).
		Add(StageSynthesize, p.synthesize).
		AddIf(p.opts.Overlay, StageOverlay, p.overlay).
		Add(StageDetect, p.detect).
		Build()

	err := RunStages(ctx, st, stages)
	st.Report.End = time.Now()
	p.deps.Recorder.ObserveBatchDuration(st.Report.Duration())
	p.deps.Recorder.SetDuplicateTitles(len(st.Report.Skipped))
	return st.Report, err
}

// Outline resolves depths and numbers documents without rewriting any of them.
func (p *Processor) Outline(ctx context.Context, documents []docs.DocFile) (*outline.Registry, *Report, error) {
	st := p.newState(documents)
	stages := NewPipeline().
		Add(StageResolve, p.resolve).
		Add(StageNumber, p.number).
		Build()

	err := RunStages(ctx, st, stages)
	st.Report.End = time.Now()
	return st.Registry, st.Report, err
}

func (p *Processor) newState(documents []docs.DocFile) *State {
	return &State{
		Docs:     documents,
		Depths:   make(map[string]int, len(documents)),
		Titles:   synth.NewTitles(p.deps.Store),
		Report:   newReport(),
		Logger:   p.deps.Logger,
		Recorder: p.deps.Recorder,
	}
}

// outcome records one document's result for a stage.
func (p *Processor) outcome(st *State, stage StageName, outcome string) {
	st.Report.count(stage, outcome)
	p.deps.Recorder.IncDocumentOutcome(string(stage), outcome)
}

// fail records a per-document failure. Fatal classified errors are returned so
// the stage can abort the batch.
func (p *Processor) fail(st *State, stage StageName, path string, err error) error {
	p.outcome(st, stage, OutcomeFailed)
	st.Report.Failures = append(st.Report.Failures, Failure{Stage: stage, Path: path, Err: err})
	st.Logger.Error("Document failed",
		logfields.Stage(string(stage)),
		logfields.Path(path),
		logfields.Error(err))
	if ferrors.IsFatal(err) {
		return NewFatalStageError(stage, err)
	}
	return nil
}

// stageResult turns the number of failed documents into a warning stage error.
func stageResult(stage StageName, failed int) error {
	if failed == 0 {
		return nil
	}
	return NewWarnStageError(stage, fmt.Errorf("%d document(s) failed", failed))
}

func canceled(ctx context.Context, stage StageName) error {
	if err := ctx.Err(); err != nil {
		return NewCanceledStageError(stage, err)
	}
	return nil
}

func (p *Processor) resolve(ctx context.Context, st *State) error {
	resolver := outline.NewResolver(p.deps.Tree, p.opts.Root)
	if p.opts.MaxDepth > 0 {
		resolver.MaxDepth = p.opts.MaxDepth
	}

	failed := 0
	for _, d := range st.Docs {
		if err := canceled(ctx, StageResolve); err != nil {
			return err
		}
		depth, err := resolver.Resolve(d.Path)
		if err != nil {
			failed++
			if ferr := p.fail(st, StageResolve, d.Path, err); ferr != nil {
				return ferr
			}
			continue
		}
		st.Depths[d.Path] = depth
		p.outcome(st, StageResolve, "resolved")
		st.Logger.Debug("Resolved depth", logfields.Path(d.Path), logfields.Depth(depth))
	}
	return stageResult(StageResolve, failed)
}

func (p *Processor) number(ctx context.Context, st *State) error {
	entries := make([]outline.Entry, 0, len(st.Depths))
	failed := 0
	for _, d := range st.Docs {
		if err := canceled(ctx, StageNumber); err != nil {
			return err
		}
		depth, ok := st.Depths[d.Path]
		if !ok {
			continue
		}
		title, err := st.Titles.RawTitle(d.Path)
		if err != nil {
			failed++
			if ferr := p.fail(st, StageNumber, d.Path, err); ferr != nil {
				return ferr
			}
			continue
		}
		entries = append(entries, outline.Entry{Path: d.Path, Depth: depth, Title: title})
	}

	st.Registry = outline.DepthTransitions{}.Number(entries)
	for _, n := range st.Registry.Entries() {
		p.outcome(st, StageNumber, "numbered")
		st.Logger.Debug("Numbered", logfields.Path(n.Path), logfields.Title(n.String()))
	}
	return stageResult(StageNumber, failed)
}

func (p *Processor) synthesize(ctx context.Context, st *State) error {
	s := synth.New(synth.Deps{
		Tree:       p.deps.Tree,
		PublishKey: p.deps.PublishKey,
		Registry:   st.Registry,
		Titles:     st.Titles,
		Store:      p.deps.Store,
		Template:   p.deps.FrontmatterTemplate,
		Logger:     st.Logger,
	}, synth.Options{Numbering: p.opts.Numbering, Root: p.opts.Root})

	failed := 0
	for _, d := range st.Docs {
		if err := canceled(ctx, StageSynthesize); err != nil {
			return err
		}
		if d.Tagged && !p.opts.Force {
			p.outcome(st, StageSynthesize, OutcomeSkipped)
			st.Logger.Debug("Already tagged; skipping", logfields.Path(d.Path))
			continue
		}
		_, res, err := s.Synthesize(d.Path)
		if err != nil {
			failed++
			if ferr := p.fail(st, StageSynthesize, d.Path, err); ferr != nil {
				return ferr
			}
			continue
		}
		p.outcome(st, StageSynthesize, string(res))
	}
	return stageResult(StageSynthesize, failed)
}

func (p *Processor) overlay(ctx context.Context, st *State) error {
	a := &synth.OverlayApplier{
		PublishKey: p.deps.PublishKey,
		Suffix:     p.deps.OverlaySuffix,
		Store:      p.deps.Store,
		Template:   p.deps.OverlayTemplate,
		Logger:     st.Logger,
	}

	failed := 0
	for _, d := range st.Docs {
		if err := canceled(ctx, StageOverlay); err != nil {
			return err
		}
		res, err := a.Apply(d.Path)
		if err != nil {
			failed++
			if ferr := p.fail(st, StageOverlay, d.Path, err); ferr != nil {
				return ferr
			}
			continue
		}
		if !res.Applied {
			p.outcome(st, StageOverlay, OutcomeSkipped)
			continue
		}
		p.outcome(st, StageOverlay, string(res.Result))
	}
	return stageResult(StageOverlay, failed)
}

func (p *Processor) detect(ctx context.Context, st *State) error {
	if err := canceled(ctx, StageDetect); err != nil {
		return err
	}
	d := &synth.Detector{PublishKey: p.deps.PublishKey, Store: p.deps.Store, Logger: st.Logger}
	st.Report.Skipped = d.Detect(st.Paths())
	for _, s := range st.Report.Skipped {
		p.outcome(st, StageDetect, "duplicate")
		st.Logger.Warn("Duplicate title", logfields.Title(s.Title), logfields.Path(s.Path))
	}
	return nil
}

// IsCanceled reports whether err came from a canceled batch.
func IsCanceled(err error) bool {
	var se *StageError
	return errors.As(err, &se) && se.Kind == StageErrorCanceled
}
