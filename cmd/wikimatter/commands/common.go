package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/wikimatter/internal/config"
	"git.home.luguber.info/inful/wikimatter/internal/docs"
	"git.home.luguber.info/inful/wikimatter/internal/outline"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Config *config.Config
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"wikimatter.yaml"`
	Dir     string           `short:"d" help:"Site directory containing the content directory" default:"." type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Apply      ApplyCmd      `cmd:"" default:"withargs" help:"Add or refresh the publishing frontmatter of pages"`
	Outline    OutlineCmd    `cmd:"" help:"Print the numbered outline without writing anything"`
	Duplicates DuplicatesCmd `cmd:"" help:"Report pages whose published titles collide"`
}

// AfterApply runs after flag parsing; loads configuration and sets up logging once.
func (c *CLI) AfterApply(g *Global) error {
	cfg, err := config.Load(c.Config)
	if err != nil {
		g.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		return err
	}
	g.Config = cfg
	g.Logger = cfg.Logging.NewLogger(os.Stderr, c.Verbose)
	slog.SetDefault(g.Logger)
	return nil
}

// tree returns the content tree layout of the site under dir.
func tree(g *Global, dir string) (outline.Tree, error) {
	root, err := docs.NewDiscovery(g.Config, g.Logger).ContentRoot(dir)
	if err != nil {
		return outline.Tree{}, err
	}
	return outline.Tree{ContentRoot: root, IndexName: g.Config.IndexName}, nil
}

// candidates returns the explicit files when given, otherwise every document of the site.
func candidates(g *Global, dir string, files []string) ([]docs.DocFile, error) {
	d := docs.NewDiscovery(g.Config, g.Logger)
	if len(files) > 0 {
		return d.FromFiles(files)
	}
	return d.FromSite(dir)
}
