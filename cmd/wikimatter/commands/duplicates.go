package commands

import (
	"os"

	"github.com/fatih/color"

	"git.home.luguber.info/inful/wikimatter/internal/batch"
	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/synth"
)

// DuplicatesCmd implements the 'duplicates' command.
type DuplicatesCmd struct {
	Posts []string `arg:"" optional:"" help:"Pages to check (default: every page of the site)"`
}

// Run reports pages whose published title repeats an earlier page's title.
func (d *DuplicatesCmd) Run(g *Global, root *CLI) error {
	documents, err := candidates(g, root.Dir, d.Posts)
	if err != nil {
		return err
	}
	paths := make([]string, len(documents))
	for i, doc := range documents {
		paths[i] = doc.Path
	}

	detector := &synth.Detector{
		PublishKey: g.Config.PublishKey,
		Store:      docstore.New(docstore.Options{Preview: true}, g.Logger),
		Logger:     g.Logger,
	}
	skipped := detector.Detect(paths)
	if len(skipped) == 0 {
		g.Logger.Info("No duplicate titles", logfields.Count(len(paths)))
		return nil
	}
	return batch.PrintDuplicates(os.Stdout, skipped, !color.NoColor)
}
