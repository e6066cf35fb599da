package outline

import (
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Entry is one page handed to a Numberer.
type Entry struct {
	Path  string
	Depth int
	Title string
}

// Numberer assigns dotted outline numbers to a whole batch of pages at once.
// Numbering state is global to the batch, so implementations must see every
// entry before any number is final.
type Numberer interface {
	Number(entries []Entry) *Registry
}

// DepthTransitions numbers pages from the depth changes between neighbours in
// case-insensitive path order. It trusts that order completely: consecutive
// pages at the same depth become siblings.
type DepthTransitions struct{}

var _ Numberer = DepthTransitions{}

// Number implements Numberer. Entries at depth 0 are outside the hierarchy and
// are left unnumbered.
func (DepthTransitions) Number(entries []Entry) *Registry {
	sorted := SortByPath(entries)

	var state []int
	numbered := make([]Numbered, 0, len(sorted))
	for _, e := range sorted {
		if e.Depth <= 0 {
			continue
		}
		switch d := e.Depth; {
		case d == len(state):
			state[d-1]++
		case d > len(state):
			for len(state) < d {
				state = append(state, 1)
			}
		default:
			state = state[:d]
			state[d-1]++
		}
		numbered = append(numbered, Numbered{Entry: e, Number: slices.Clone(state)})
	}
	return NewRegistry(numbered)
}

// SortByPath returns a copy of entries stably sorted by case-folded path.
func SortByPath(entries []Entry) []Entry {
	caser := cases.Fold()
	type keyed struct {
		key string
		e   Entry
	}
	ks := make([]keyed, len(entries))
	for i, e := range entries {
		ks[i] = keyed{key: caser.String(e.Path), e: e}
	}
	slices.SortStableFunc(ks, func(a, b keyed) int { return strings.Compare(a.key, b.key) })

	out := make([]Entry, len(ks))
	for i, k := range ks {
		out[i] = k.e
	}
	return out
}

// Numbered is an entry with its outline position.
type Numbered struct {
	Entry
	Number []int
}

// Dotted returns the position as "1.2.1".
func (n Numbered) Dotted() string {
	parts := make([]string, len(n.Number))
	for i, v := range n.Number {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ".")
}

// String returns the numbered title, e.g. "1.2.1. Install".
func (n Numbered) String() string {
	return n.Dotted() + ". " + n.Title
}
