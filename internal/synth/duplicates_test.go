package synth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindDuplicates_ReportsLaterOccurrences(t *testing.T) {
	skipped := FindDuplicates([]TitledPath{
		{Title: "Overview", Path: "/c/a/overview.md"},
		{Title: "Install", Path: "/c/a/install.md"},
		{Title: "Overview", Path: "/c/b/overview.md"},
		{Title: "Overview", Path: "/c/c/overview.md"},
	})

	require.Equal(t, []SkippedPage{
		{Title: "Overview", Path: "/c/b/overview.md"},
		{Title: "Overview", Path: "/c/c/overview.md"},
	}, skipped)
}

func TestFindDuplicates_NoneWhenUnique(t *testing.T) {
	require.Empty(t, FindDuplicates([]TitledPath{
		{Title: "1. A", Path: "/c/a/_index.md"},
		{Title: "2. A", Path: "/c/b/_index.md"},
	}))
}

func TestDetector_ReadsFinalTitles(t *testing.T) {
	s := newSite(t, map[string]string{
		"a/overview.md": "---\nwiki:\n  title: Overview\n---\n",
		"b/overview.md": "---\nwiki:\n  title: Overview\n---\n",
		"c/plain.md":    "---\ntitle: Overview\n---\n",
	})
	d := &Detector{PublishKey: "wiki", Store: s.store, Logger: quietLogger()}

	skipped := d.Detect([]string{s.path("a/overview.md"), s.path("b/overview.md"), s.path("c/plain.md")})
	require.Equal(t, []SkippedPage{{Title: "Overview", Path: s.path("b/overview.md")}}, skipped)
}
