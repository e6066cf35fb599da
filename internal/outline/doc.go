// Package outline derives hierarchical outline numbers for a tree of markdown pages.
//
// The tree is never built explicitly. Each page is tagged with a depth computed
// from its path (Resolver), pages are sorted case-insensitively by path, and a
// Numberer turns the depth transitions of that sorted list into dotted numbers
// such as "1.2.1". The result is a read-only Registry keyed by path.
package outline
