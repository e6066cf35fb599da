package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/wikimatter/internal/batch"
	"git.home.luguber.info/inful/wikimatter/internal/docstore"
)

// OutlineCmd implements the 'outline' command.
type OutlineCmd struct {
	Posts []string `arg:"" optional:"" help:"Pages to number (default: every page of the site)"`
	Root  bool     `short:"r" help:"Treat the top index page as a child of an external root page"`
}

// Run prints one numbered title per line followed by the page's path.
func (o *OutlineCmd) Run(g *Global, root *CLI) error {
	t, err := tree(g, root.Dir)
	if err != nil {
		return err
	}
	documents, err := candidates(g, root.Dir, o.Posts)
	if err != nil {
		return err
	}

	p := batch.New(batch.Deps{
		Tree:       t,
		PublishKey: g.Config.PublishKey,
		Store:      docstore.New(docstore.Options{Preview: true}, g.Logger),
		Logger:     g.Logger,
	}, batch.Options{Numbering: true, Root: o.Root, MaxDepth: g.Config.MaxDepth})

	reg, report, err := p.Outline(context.Background(), documents)
	if err != nil {
		return err
	}
	for _, n := range reg.Entries() {
		rel, relErr := filepath.Rel(t.ContentRoot, n.Path)
		if relErr != nil {
			rel = n.Path
		}
		fmt.Fprintf(os.Stdout, "%-40s %s\n", n.String(), rel)
	}
	for _, f := range report.Failures {
		fmt.Fprintf(os.Stderr, "not numbered: %s: %v\n", f.Path, f.Err)
	}
	return nil
}
