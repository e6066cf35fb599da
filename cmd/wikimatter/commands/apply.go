package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/wikimatter/internal/batch"
	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/metrics"
	"git.home.luguber.info/inful/wikimatter/internal/templates"
	"git.home.luguber.info/inful/wikimatter/internal/watch"
)

// ApplyCmd implements the 'apply' command.
type ApplyCmd struct {
	Posts []string `arg:"" optional:"" help:"Individual pages to add frontmatter to (default: every page of the site)"`

	Numbering       bool   `short:"n" help:"Prefix titles with their outline number"`
	Root            bool   `short:"r" help:"Treat the top index page as a child of an external root page"`
	NoBackup        bool   `name:"nobackup" help:"Do not create backups of modified files"`
	OverwriteBackup bool   `help:"Replace backups left by an earlier run"`
	Force           bool   `short:"f" help:"Also rewrite pages that already have a publishing block"`
	Diff            bool   `help:"Apply .diff overlay files after adding frontmatter"`
	DryRun          bool   `name:"dry-run" aliases:"dryrun" help:"Print the changes that would be made without modifying any file"`
	Template        string `help:"Frontmatter template file (default: built-in)"`
	OverlayTemplate string `help:"Overlay template file (default: built-in)"`
	Watch           bool   `short:"w" help:"Keep running and reapply whenever the content changes (pages that already have a publishing block keep their numbers unless --force is set)"`
	MetricsFile     string `help:"Write Prometheus metrics in textfile format after each run"`
}

// Run executes the apply command.
func (a *ApplyCmd) Run(g *Global, root *CLI) error {
	if a.Watch && a.DryRun {
		return ferrors.ValidationError("--watch cannot be combined with --dry-run").Build()
	}

	t, err := tree(g, root.Dir)
	if err != nil {
		return err
	}
	fm, err := templates.Load(firstNonEmpty(a.Template, g.Config.Templates.Frontmatter), templates.Frontmatter)
	if err != nil {
		return err
	}
	ov, err := templates.Load(firstNonEmpty(a.OverlayTemplate, g.Config.Templates.Overlay), templates.Overlay)
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if a.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	run := func(ctx context.Context) error {
		documents, err := candidates(g, root.Dir, a.Posts)
		if err != nil {
			return err
		}
		if len(documents) == 0 {
			g.Logger.Info("No pages found in input source")
			return nil
		}

		storeOpts := docstore.Options{
			Preview:         a.DryRun,
			NoBackup:        a.NoBackup,
			OverwriteBackup: a.OverwriteBackup,
			BackupSuffix:    g.Config.BackupSuffix,
		}
		if a.DryRun {
			storeOpts.DiffOut = os.Stdout
		}

		p := batch.New(batch.Deps{
			Tree:                t,
			PublishKey:          g.Config.PublishKey,
			OverlaySuffix:       g.Config.OverlaySuffix,
			Store:               docstore.New(storeOpts, g.Logger),
			FrontmatterTemplate: fm,
			OverlayTemplate:     ov,
			Recorder:            recorder,
			Logger:              g.Logger,
		}, batch.Options{
			Numbering: a.Numbering,
			Root:      a.Root,
			Overlay:   a.Diff,
			Force:     a.Force,
			MaxDepth:  g.Config.MaxDepth,
		})

		report, runErr := p.Run(ctx, documents)
		report.LogSummary(g.Logger)
		if err := batch.PrintDuplicates(os.Stdout, report.Skipped, !color.NoColor); err != nil {
			g.Logger.Warn("Cannot print duplicate report", logfields.Error(err))
		}
		if prom != nil {
			if err := prom.WriteTextfile(a.MetricsFile); err != nil {
				g.Logger.Warn("Cannot write metrics", logfields.Error(err))
			}
		}
		return runErr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if batch.IsCanceled(err) {
			return nil
		}
		return err
	}
	if !a.Watch {
		return nil
	}

	w := &watch.Watcher{
		Dir:            t.ContentRoot,
		IgnoreSuffixes: []string{g.Config.BackupSuffix},
		Rebuild:        run,
		Logger:         g.Logger,
	}
	return w.Run(ctx)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
