package models

import (
	"sort"
	"strings"
)

// Document is a desired-state schema: an ordered list of collections keyed
// by name.
type Document []Collection

// SortByName orders collections by name in place.
func (d Document) SortByName() {
	sort.SliceStable(d, func(i, j int) bool { return d[i].Name < d[j].Name })
}

// WithoutPrefix returns the collections whose name does not start with prefix.
func (d Document) WithoutPrefix(prefix string) Document {
	out := make(Document, 0, len(d))
	for _, c := range d {
		if strings.HasPrefix(c.Name, prefix) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Names lists collection names in document order.
func (d Document) Names() []string {
	names := make([]string, len(d))
	for i, c := range d {
		names[i] = c.Name
	}
	return names
}

// NameIndex maps collection names to backend identifiers.
type NameIndex map[string]string

// NewNameIndex indexes the given collections by name.
func NewNameIndex(collections []Collection) NameIndex {
	idx := make(NameIndex, len(collections))
	for _, c := range collections {
		idx[c.Name] = c.ID
	}
	return idx
}

// Lookup returns the identifier recorded for name.
func (idx NameIndex) Lookup(name string) (string, bool) {
	id, ok := idx[name]
	return id, ok
}
