package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/wikimatter/internal/docs"
	"git.home.luguber.info/inful/wikimatter/internal/docstore"
	"git.home.luguber.info/inful/wikimatter/internal/frontmatter"
	"git.home.luguber.info/inful/wikimatter/internal/outline"
	"git.home.luguber.info/inful/wikimatter/internal/synth"
	"git.home.luguber.info/inful/wikimatter/internal/templates"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	content string
	docs    []docs.DocFile
}

func newFixture(t *testing.T, files map[string]string, order ...string) *fixture {
	t.Helper()
	content := filepath.Join(t.TempDir(), "content")
	for rel, body := range files {
		p := filepath.Join(content, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	f := &fixture{content: content}
	for _, rel := range order {
		p := f.path(rel)
		raw, err := os.ReadFile(p)
		require.NoError(t, err)
		doc, err := frontmatter.Parse(raw)
		require.NoError(t, err)
		f.docs = append(f.docs, docs.DocFile{Path: p, Tagged: doc.HasBlock("wiki")})
	}
	return f
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.content, filepath.FromSlash(rel))
}

func (f *fixture) processor(t *testing.T, store *docstore.Store, opts Options) *Processor {
	t.Helper()
	fm, err := templates.Load("", templates.Frontmatter)
	require.NoError(t, err)
	ov, err := templates.Load("", templates.Overlay)
	require.NoError(t, err)
	return New(Deps{
		Tree:                outline.Tree{ContentRoot: f.content, IndexName: "_index.md"},
		PublishKey:          "wiki",
		Store:               store,
		FrontmatterTemplate: fm,
		OverlayTemplate:     ov,
		Logger:              quietLogger(),
	}, opts)
}

func (f *fixture) wikiTitle(t *testing.T, rel string) string {
	t.Helper()
	raw, err := os.ReadFile(f.path(rel))
	require.NoError(t, err)
	doc, err := frontmatter.Parse(raw)
	require.NoError(t, err)
	title, _ := doc.BlockString("wiki", "title")
	return title
}

var site = map[string]string{
	"_index.md":   "---\ntitle: Home\n---\n",
	"a/_index.md": "---\ntitle: A\n---\n",
	"a/p1.md":     "---\ntitle: P1\n---\n",
	"b/_index.md": "---\ntitle: B\n---\n",
}

func TestRun_NumbersWholeSite(t *testing.T) {
	f := newFixture(t, site, "_index.md", "a/_index.md", "a/p1.md", "b/_index.md")
	store := docstore.New(docstore.Options{}, quietLogger())

	report, err := f.processor(t, store, Options{Numbering: true, Root: true}).Run(context.Background(), f.docs)
	require.NoError(t, err)

	require.Equal(t, "1. Home", f.wikiTitle(t, "_index.md"))
	require.Equal(t, "1.1. A", f.wikiTitle(t, "a/_index.md"))
	require.Equal(t, "1.1.1. P1", f.wikiTitle(t, "a/p1.md"))
	require.Equal(t, "1.2. B", f.wikiTitle(t, "b/_index.md"))

	require.Equal(t, 4, report.Count(StageSynthesize, OutcomeWritten))
	require.Equal(t, 4, report.Count(StageNumber, "numbered"))
	require.Empty(t, report.Failures)
	require.Empty(t, report.Skipped)

	_, err = os.Stat(f.path("a/p1.md") + ".bak")
	require.NoError(t, err, "backup created")
}

func TestRun_TaggedDocumentsSkippedUnlessForced(t *testing.T) {
	files := map[string]string{
		"_index.md": "---\ntitle: Home\n---\n",
		"page.md":   "---\ntitle: Page\nwiki:\n  title: Custom\n---\n",
	}
	f := newFixture(t, files, "_index.md", "page.md")
	store := docstore.New(docstore.Options{NoBackup: true}, quietLogger())

	report, err := f.processor(t, store, Options{}).Run(context.Background(), f.docs)
	require.NoError(t, err)
	require.Equal(t, "Custom", f.wikiTitle(t, "page.md"))
	require.Equal(t, 1, report.Count(StageSynthesize, OutcomeSkipped))

	_, err = f.processor(t, store, Options{Force: true}).Run(context.Background(), f.docs)
	require.NoError(t, err)
	require.Equal(t, "Page", f.wikiTitle(t, "page.md"))
}

func TestRun_DepthFailureOnlyAffectsThatDocument(t *testing.T) {
	files := map[string]string{
		"_index.md":   "---\ntitle: Home\n---\n",
		"a/_index.md": "---\ntitle: A\n---\n",
		"x/y.md":      "---\ntitle: Orphan\n---\n",
	}
	f := newFixture(t, files, "_index.md", "a/_index.md", "x/y.md")
	store := docstore.New(docstore.Options{NoBackup: true}, quietLogger())

	report, err := f.processor(t, store, Options{Numbering: true}).Run(context.Background(), f.docs)
	require.NoError(t, err)

	require.Equal(t, "1. A", f.wikiTitle(t, "a/_index.md"))
	require.Equal(t, 1, report.Count(StageResolve, OutcomeFailed))
	require.NotEmpty(t, report.Failures)
	require.Equal(t, f.path("x/y.md"), report.Failures[0].Path)
	require.True(t, errors.Is(report.Failures[0].Err, outline.ErrMissingIndex))
}

func TestRun_OverlayAndDuplicates(t *testing.T) {
	files := map[string]string{
		"_index.md":          "---\ntitle: Home\n---\n",
		"a/_index.md":        "---\ntitle: A\n---\n",
		"a/overview.md":      "---\ntitle: Overview\n---\n",
		"b/_index.md":        "---\ntitle: B\n---\n",
		"b/overview.md":      "---\ntitle: Overview\n---\n",
		"b/overview.md.diff": "---\nwiki:\n  share: \"True\"\n---\n",
	}
	f := newFixture(t, files, "_index.md", "a/_index.md", "a/overview.md", "b/_index.md", "b/overview.md")
	store := docstore.New(docstore.Options{NoBackup: true}, quietLogger())

	report, err := f.processor(t, store, Options{Overlay: true}).Run(context.Background(), f.docs)
	require.NoError(t, err)

	require.Equal(t, 1, report.Count(StageOverlay, OutcomeWritten))
	require.Equal(t, []synth.SkippedPage{{Title: "Overview", Path: f.path("b/overview.md")}}, report.Skipped)

	raw, err := os.ReadFile(f.path("b/overview.md"))
	require.NoError(t, err)
	require.Contains(t, string(raw), "share: true\n")

	var out bytes.Buffer
	require.NoError(t, PrintDuplicates(&out, report.Skipped, false))
	require.Equal(t, "1 page(s) share a title with an earlier page and may fail to publish:\n  Overview  "+f.path("b/overview.md")+"\n", out.String())
}

func TestRun_PreviewWritesNothing(t *testing.T) {
	f := newFixture(t, site, "_index.md", "a/_index.md", "a/p1.md", "b/_index.md")
	var diff bytes.Buffer
	store := docstore.New(docstore.Options{Preview: true, DiffOut: &diff}, quietLogger())

	report, err := f.processor(t, store, Options{Numbering: true, Root: true}).Run(context.Background(), f.docs)
	require.NoError(t, err)
	require.Equal(t, 4, report.Count(StageSynthesize, OutcomeStaged))
	require.Contains(t, diff.String(), "1.1.1. P1")

	raw, err := os.ReadFile(f.path("a/p1.md"))
	require.NoError(t, err)
	require.Equal(t, site["a/p1.md"], string(raw))
	_, err = os.Stat(f.path("a/p1.md") + ".bak")
	require.True(t, os.IsNotExist(err))
}

func TestRun_Canceled(t *testing.T) {
	f := newFixture(t, site, "_index.md")
	store := docstore.New(docstore.Options{NoBackup: true}, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.processor(t, store, Options{}).Run(ctx, f.docs)
	require.Error(t, err)
	require.True(t, IsCanceled(err))
	require.NotNil(t, report)
}

func TestPrintDuplicates_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, PrintDuplicates(&out, nil, true))
	require.Empty(t, out.String())
}

func TestOutline_NumbersWithoutWriting(t *testing.T) {
	f := newFixture(t, site, "_index.md", "a/_index.md", "a/p1.md", "b/_index.md")
	store := docstore.New(docstore.Options{Preview: true}, quietLogger())

	reg, report, err := f.processor(t, store, Options{Root: true}).Outline(context.Background(), f.docs)
	require.NoError(t, err)
	require.Equal(t, 4, reg.Len())
	require.Equal(t, 4, report.Count(StageResolve, "resolved"))

	title, ok := reg.Lookup(f.path("a/p1.md"))
	require.True(t, ok)
	require.Equal(t, "1.1.1. P1", title)

	raw, err := os.ReadFile(f.path("a/p1.md"))
	require.NoError(t, err)
	require.Equal(t, site["a/p1.md"], string(raw))
}

func TestRun_OverlaySkipsPagesWithoutPublishingBlock(t *testing.T) {
	files := map[string]string{
		"_index.md":        "---\ntitle: Home\n---\n",
		"nodir/p.md":       "---\ntitle: P\n---\n",
		"nodir/p.md.diff":  "---\nwiki:\n  share: \"True\"\n---\n",
		"nodir2/q.md":      "---\ntitle: Q\n---\n",
		"nodir2/q.md.diff": "---\nwiki:\n  share: \"True\"\n---\n",
	}
	f := newFixture(t, files, "_index.md", "nodir/p.md", "nodir2/q.md")
	store := docstore.New(docstore.Options{NoBackup: true}, quietLogger())

	report, err := f.processor(t, store, Options{Numbering: true, Overlay: true}).Run(context.Background(), f.docs)
	require.NoError(t, err)

	for _, rel := range []string{"nodir/p.md", "nodir2/q.md"} {
		raw, err := os.ReadFile(f.path(rel))
		require.NoError(t, err)
		require.Equal(t, files[rel], string(raw), rel)
	}
	require.Equal(t, 0, report.Count(StageOverlay, OutcomeWritten))
	require.Empty(t, report.Skipped)
}
