package outline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func titles(r *Registry) []string {
	var out []string
	for _, n := range r.Entries() {
		out = append(out, n.String())
	}
	return out
}

func TestNumber_SiteExampleRooted(t *testing.T) {
	entries := []Entry{
		{Path: "/s/content/b/_index.md", Depth: 2, Title: "B"},
		{Path: "/s/content/a/p1.md", Depth: 3, Title: "P1"},
		{Path: "/s/content/_index.md", Depth: 1, Title: "Home"},
		{Path: "/s/content/a/_index.md", Depth: 2, Title: "A"},
	}

	reg := DepthTransitions{}.Number(entries)

	expect := map[string]string{
		"/s/content/_index.md":   "1. Home",
		"/s/content/a/_index.md": "1.1. A",
		"/s/content/a/p1.md":     "1.1.1. P1",
		"/s/content/b/_index.md": "1.2. B",
	}
	for path, want := range expect {
		got, ok := reg.Lookup(path)
		require.True(t, ok, path)
		require.Equal(t, want, got, path)
	}
}

func TestNumber_DepthZeroIsUnnumbered(t *testing.T) {
	reg := DepthTransitions{}.Number([]Entry{
		{Path: "/c/_index.md", Depth: 0, Title: "Home"},
		{Path: "/c/a/_index.md", Depth: 1, Title: "A"},
		{Path: "/c/a/p1.md", Depth: 2, Title: "P1"},
		{Path: "/c/b/_index.md", Depth: 1, Title: "B"},
	})

	_, ok := reg.Lookup("/c/_index.md")
	require.False(t, ok)
	require.Equal(t, []string{"1. A", "1.1. P1", "2. B"}, titles(reg))
}

func TestNumber_SiblingsAreConsecutive(t *testing.T) {
	reg := DepthTransitions{}.Number([]Entry{
		{Path: "/c/a/_index.md", Depth: 1, Title: "A"},
		{Path: "/c/a/x.md", Depth: 2, Title: "X"},
		{Path: "/c/a/y.md", Depth: 2, Title: "Y"},
		{Path: "/c/a/z.md", Depth: 2, Title: "Z"},
		{Path: "/c/b/_index.md", Depth: 1, Title: "B"},
		{Path: "/c/b/q.md", Depth: 2, Title: "Q"},
	})

	require.Equal(t, []string{"1. A", "1.1. X", "1.2. Y", "1.3. Z", "2. B", "2.1. Q"}, titles(reg))
}

func TestNumber_ReturnsToShallowerLevel(t *testing.T) {
	reg := DepthTransitions{}.Number([]Entry{
		{Path: "/c/a/_index.md", Depth: 1, Title: "A"},
		{Path: "/c/a/b/_index.md", Depth: 2, Title: "B"},
		{Path: "/c/a/b/c/_index.md", Depth: 3, Title: "C"},
		{Path: "/c/a/b/c/leaf.md", Depth: 4, Title: "Leaf"},
		{Path: "/c/a/z.md", Depth: 2, Title: "Z"},
		{Path: "/c/d/_index.md", Depth: 1, Title: "D"},
	})

	require.Equal(t, []string{"1. A", "1.1. B", "1.1.1. C", "1.1.1.1. Leaf", "1.2. Z", "2. D"}, titles(reg))
}

func TestNumber_ToleratesDepthJumps(t *testing.T) {
	reg := DepthTransitions{}.Number([]Entry{
		{Path: "/c/a.md", Depth: 1, Title: "A"},
		{Path: "/c/b.md", Depth: 4, Title: "B"},
		{Path: "/c/c.md", Depth: 2, Title: "C"},
	})

	require.Equal(t, []string{"1. A", "1.1.1.1. B", "1.2. C"}, titles(reg))
}

func TestNumber_SortIsCaseInsensitiveAndStable(t *testing.T) {
	reg := DepthTransitions{}.Number([]Entry{
		{Path: "/c/Beta.md", Depth: 1, Title: "Beta"},
		{Path: "/c/alpha.md", Depth: 1, Title: "Alpha"},
		{Path: "/c/Gamma.md", Depth: 1, Title: "Gamma"},
	})

	require.Equal(t, []string{"1. Alpha", "2. Beta", "3. Gamma"}, titles(reg))
}

func TestNumber_ChildPrefixedByParent(t *testing.T) {
	tree := Tree{ContentRoot: "/c", IndexName: "_index.md"}
	entries := []Entry{
		{Path: "/c/_index.md", Depth: 1, Title: "Home"},
		{Path: "/c/a/_index.md", Depth: 2, Title: "A"},
		{Path: "/c/a/one.md", Depth: 3, Title: "One"},
		{Path: "/c/a/b/_index.md", Depth: 3, Title: "B"},
		{Path: "/c/a/b/two.md", Depth: 4, Title: "Two"},
		{Path: "/c/c/_index.md", Depth: 2, Title: "C"},
		{Path: "/c/c/three.md", Depth: 3, Title: "Three"},
	}
	reg := DepthTransitions{}.Number(entries)

	dotted := map[string]string{}
	for _, n := range reg.Entries() {
		dotted[n.Path] = n.Dotted()
	}
	for _, e := range entries {
		parent := tree.ParentPath(e.Path)
		if parent == "" {
			continue
		}
		require.True(t, strings.HasPrefix(dotted[e.Path], dotted[parent]+"."),
			"%s (%s) not under %s (%s)", e.Path, dotted[e.Path], parent, dotted[parent])
	}
}

func TestNumber_IsDeterministic(t *testing.T) {
	entries := []Entry{
		{Path: "/c/b/_index.md", Depth: 1, Title: "B"},
		{Path: "/c/a/_index.md", Depth: 1, Title: "A"},
		{Path: "/c/a/x.md", Depth: 2, Title: "X"},
	}
	first := titles(DepthTransitions{}.Number(entries))
	second := titles(DepthTransitions{}.Number(entries))
	require.Equal(t, first, second)
	require.Equal(t, "/c/b/_index.md", entries[0].Path, "input must not be reordered")
}

func TestRegistry_NilAndMiss(t *testing.T) {
	var reg *Registry
	title, ok := reg.Lookup("/c/a.md")
	require.False(t, ok)
	require.Empty(t, title)
	require.Zero(t, reg.Len())
	require.Nil(t, reg.Entries())

	reg = NewRegistry(nil)
	_, ok = reg.Lookup("/c/a.md")
	require.False(t, ok)
}
