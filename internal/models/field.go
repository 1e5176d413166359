package models

import (
	"encoding/json"
	"fmt"
)

// Field attribute keys the reconciler reads or writes.
const (
	KeyName         = "name"
	KeyType         = "type"
	KeyOptions      = "options"
	KeyCollectionID = "collectionId"
)

// Field is one typed attribute definition of a collection.
//
// Backends disagree on where field configuration lives: newer ones keep it on
// the field itself, older ones nest it under "options". Attrs is the
// canonical top-level view; Options is nil unless the source carried a nested
// options object, in which case it is kept so the legacy shape survives a
// round trip.
type Field struct {
	Name    string
	Type    string
	Attrs   map[string]any
	Options map[string]any
}

// NewField builds a field from a name, a type and extra top-level attributes.
func NewField(name, fieldType string, attrs map[string]any) Field {
	return Field{Name: name, Type: fieldType, Attrs: copyMap(attrs)}
}

// ParseField decodes a single field definition from JSON.
func ParseField(data []byte) (Field, error) {
	var f Field
	if err := json.Unmarshal(data, &f); err != nil {
		return Field{}, err
	}
	return f, nil
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("field must be a JSON object: %w", err)
	}

	*f = Field{Attrs: make(map[string]any, len(raw))}
	for k, v := range raw {
		value, err := decodeValue(v)
		if err != nil {
			return fmt.Errorf("field attribute %q: %w", k, err)
		}
		switch k {
		case KeyName:
			f.Name = stringOf(value)
		case KeyType:
			f.Type = stringOf(value)
		case KeyOptions:
			if opts, ok := value.(map[string]any); ok {
				f.Options = opts
			} else {
				f.Attrs[k] = value
			}
		default:
			f.Attrs[k] = value
		}
	}
	return nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Attrs)+3)
	for k, v := range f.Attrs {
		out[k] = v
	}
	out[KeyName] = f.Name
	if f.Type != "" {
		out[KeyType] = f.Type
	}
	if f.Options != nil {
		out[KeyOptions] = f.Options
	}
	return marshal(out)
}

// Clone returns a deep copy.
func (f Field) Clone() Field {
	return Field{
		Name:    f.Name,
		Type:    f.Type,
		Attrs:   copyMap(f.Attrs),
		Options: copyMap(f.Options),
	}
}

// Attr returns a top-level attribute.
func (f Field) Attr(key string) (any, bool) {
	v, ok := f.Attrs[key]
	return v, ok
}

// SetAttr sets a top-level attribute.
func (f *Field) SetAttr(key string, value any) {
	if f.Attrs == nil {
		f.Attrs = make(map[string]any)
	}
	f.Attrs[key] = value
}

// FlattenOptions copies every nested option onto the top level. Nested values
// win over top-level ones with the same key. Options itself is left in place.
func (f *Field) FlattenOptions() {
	for k, v := range f.Options {
		f.SetAttr(k, copyValue(v))
	}
}

// Reference returns the collection this field points at: the top-level
// collectionId when set, otherwise the nested options one.
func (f Field) Reference() string {
	if ref := stringOf(f.Attrs[KeyCollectionID]); ref != "" {
		return ref
	}
	return stringOf(f.Options[KeyCollectionID])
}

// SetReference writes the canonical top-level collectionId and mirrors it
// into nested options when the field has them.
func (f *Field) SetReference(ref string) {
	f.SetAttr(KeyCollectionID, ref)
	if f.Options != nil {
		f.Options[KeyCollectionID] = ref
	}
}

// Merge overlays other onto f: its attributes replace same-named ones, its
// type replaces f's when set, and its options replace f's when present.
func (f *Field) Merge(other Field) {
	if other.Name != "" {
		f.Name = other.Name
	}
	if other.Type != "" {
		f.Type = other.Type
	}
	for k, v := range other.Attrs {
		f.SetAttr(k, copyValue(v))
	}
	if other.Options != nil {
		f.Options = copyMap(other.Options)
	}
}
