package reachability

import (
	"sort"

	"github.com/hannajonsd/component-extractor/parser"
)

// Binding markers re-exported for callers that only import this package.
const (
	DefaultBinding   = parser.DefaultBinding
	NamespaceBinding = parser.NamespaceBinding
)

// BindingSet is a set of binding names. The zero value is not usable; use
// NewBindingSet.
type BindingSet map[string]struct{}

// NewBindingSet returns a set holding names.
func NewBindingSet(names ...string) BindingSet {
	s := make(BindingSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name and reports whether it was new.
func (s BindingSet) Add(name string) bool {
	if _, ok := s[name]; ok {
		return false
	}
	s[name] = struct{}{}
	return true
}

// Has reports whether name is in the set. A nil set has nothing.
func (s BindingSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// WholeModule reports whether the set demands every binding of its module.
func (s BindingSet) WholeModule() bool {
	return s.Has(NamespaceBinding)
}

// Sorted returns the names in lexical order.
func (s BindingSet) Sorted() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ImportEdge is a resolved dependency between two project modules.
type ImportEdge struct {
	From      string
	To        string
	Specifier string
	Kind      parser.ImportKind
	Names     BindingSet // export names of To referenced by From
}

// Graph is the result of one dependency walk.
type Graph struct {
	// Files is the dependency set in discovery order, entries first.
	Files []string
	// UsedBindings maps a module to every export name any importer needs.
	UsedBindings map[string]BindingSet
	Edges        []ImportEdge
	// Exports holds the export table of every parsed module.
	Exports map[string]*ExportTable
	// External maps bare specifiers that did not resolve to the modules
	// importing them.
	External map[string][]string
	// Skipped records files that were discovered but could not be read.
	Skipped map[string]error
	// Entries are the entry files that were readable.
	Entries []string
}

// Used returns the used-binding set for a module, never nil.
func (g *Graph) Used(path string) BindingSet {
	if s, ok := g.UsedBindings[path]; ok {
		return s
	}
	return NewBindingSet()
}

// Contains reports whether path is part of the dependency set.
func (g *Graph) Contains(path string) bool {
	for _, f := range g.Files {
		if f == path {
			return true
		}
	}
	return false
}
