package schema

import "github.com/mrchypark/pocketbase-go-skill/internal/models"

// Resolve returns a copy of c whose relation targets given by collection name
// are replaced with the identifier idx maps that name to.
//
// For every field the nested options, when present, are first flattened onto
// the field's top level. A target that is not a key of idx (an identifier
// already, or a collection not created yet) is left untouched; it is not an
// error here.
func Resolve(c models.Collection, idx models.NameIndex) models.Collection {
	out := c.Clone()
	for i := range out.Fields {
		f := &out.Fields[i]
		f.FlattenOptions()

		target := f.Reference()
		if target == "" {
			continue
		}
		if id, ok := idx.Lookup(target); ok {
			f.SetReference(id)
		}
	}
	return out
}

// Unresolved lists the relation targets of c that idx cannot map and that do
// not look like an identifier idx already knows. Apply uses it for logging
// only; unresolved references are still sent as they are.
func Unresolved(c models.Collection, idx models.NameIndex) []string {
	known := make(map[string]struct{}, len(idx))
	for _, id := range idx {
		known[id] = struct{}{}
	}

	var out []string
	for _, f := range c.Fields {
		target := f.Reference()
		if target == "" {
			continue
		}
		if _, ok := idx.Lookup(target); ok {
			continue
		}
		if _, ok := known[target]; ok {
			continue
		}
		out = append(out, target)
	}
	return out
}
