package synth

import (
	"log/slog"

	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	ferrors "git.home.luguber.info/inful/wikimatter/internal/foundation/errors"
	"git.home.luguber.info/inful/wikimatter/internal/frontmatter"
	"git.home.luguber.info/inful/wikimatter/internal/logfields"
	"git.home.luguber.info/inful/wikimatter/internal/outline"
	"git.home.luguber.info/inful/wikimatter/internal/templates"
)

// Options select how titles are synthesized.
type Options struct {
	// Numbering prefixes titles with their outline number when one was computed.
	Numbering bool
	// Root treats the content root's index as a child of an external root page:
	// second-tier index documents get it as their parent, and it is numbered.
	Root bool
}

// Deps are the collaborators a Synthesizer writes through.
type Deps struct {
	Tree       outline.Tree
	PublishKey string
	Registry   *outline.Registry
	Titles     TitleSource
	Store      *docstore.Store
	Template   *templates.Template
	Logger     *slog.Logger
}

// Synthesizer renders the primary publishing block for documents.
type Synthesizer struct {
	Deps
	opts Options
}

// New creates a Synthesizer.
func New(deps Deps, opts Options) *Synthesizer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Synthesizer{Deps: deps, opts: opts}
}

// Plan is the title/parent decision for one document.
type Plan struct {
	Path       string
	Title      string
	ParentPath string // empty when no parent is emitted
	Parent     string
}

// Plan decides which title and parent title to emit for path.
//
//   - Pages that are not index documents get the index of their own directory as parent.
//   - Index documents below the content root get the index one directory up as parent,
//     except that the content root's own index is only used as a parent when Root is set.
//   - The content root's own index never has a parent.
func (s *Synthesizer) Plan(path string) (Plan, error) {
	plan := Plan{Path: path}

	if s.Tree.IsIndex(path) && s.Tree.AtRoot(path) {
		title, err := s.Titles.RawTitle(path)
		if err != nil {
			return plan, err
		}
		if s.opts.Numbering && s.opts.Root {
			if numbered, ok := s.Registry.Lookup(path); ok {
				title = numbered
			}
		}
		plan.Title = title
		return plan, nil
	}

	title, err := s.title(path)
	if err != nil {
		return plan, err
	}
	plan.Title = title

	parent := s.Tree.ParentPath(path)
	if s.Tree.IsIndex(path) && s.Tree.AtRoot(parent) && !s.opts.Root {
		return plan, nil
	}

	parentTitle, err := s.title(parent)
	if err != nil {
		return plan, ferrors.MetadataError("cannot read parent document").
			WithCause(err).
			WithContext("path", path).
			WithContext("parent_path", parent).
			Build()
	}
	plan.ParentPath = parent
	plan.Parent = parentTitle
	return plan, nil
}

// Synthesize renders and writes the publishing block for path.
func (s *Synthesizer) Synthesize(path string) (Plan, docstore.Result, error) {
	plan, err := s.Plan(path)
	if err != nil {
		return plan, "", err
	}

	rendered, err := s.Template.Render(map[string]any{
		"key":    s.PublishKey,
		"title":  plan.Title,
		"parent": plan.Parent,
	})
	if err != nil {
		return plan, "", err
	}

	res, err := rewrite(s.Store, path, rendered)
	if err != nil {
		return plan, "", err
	}

	s.Logger.Info("Writing frontmatter",
		logfields.Path(path),
		logfields.Title(plan.Title),
		logfields.Parent(plan.Parent),
		logfields.Outcome(string(res)))
	return plan, res, nil
}

// title returns the numbered title when numbering is on and one exists, else the raw title.
func (s *Synthesizer) title(path string) (string, error) {
	if s.opts.Numbering {
		if numbered, ok := s.Registry.Lookup(path); ok {
			return numbered, nil
		}
	}
	return s.Titles.RawTitle(path)
}

// rewrite merges a rendered block into the document at path and writes it back.
func rewrite(store *docstore.Store, path string, rendered []byte) (docstore.Result, error) {
	content, err := store.Read(path)
	if err != nil {
		return "", err
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return "", ferrors.MetadataError("unreadable frontmatter").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	if err := doc.Merge(rendered); err != nil {
		return "", ferrors.TemplateError("rendered template is not a YAML mapping").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	out, err := doc.Bytes()
	if err != nil {
		return "", ferrors.MetadataError("cannot encode frontmatter").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	return store.Write(path, out)
}
