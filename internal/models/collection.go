package models

import (
	"encoding/json"
	"fmt"
)

// CollectionType is the backend collection kind.
type CollectionType string

const (
	TypeBase CollectionType = "base"
	TypeAuth CollectionType = "auth"
	TypeView CollectionType = "view"
)

// Valid reports whether t is one of the known collection kinds.
func (t CollectionType) Valid() bool {
	switch t {
	case TypeBase, TypeAuth, TypeView:
		return true
	}
	return false
}

// Collection keys decoded into dedicated struct fields.
const (
	KeyID     = "id"
	KeyFields = "fields"
)

// Collection is one named schema entity. ID is assigned by the backend and is
// empty until the collection exists remotely.
//
// Fields is nil when the source had no "fields" key; nil fields are omitted
// on encode while an empty, non-nil slice is written as [].
type Collection struct {
	ID     string
	Name   string
	Type   CollectionType
	Fields []Field
	Extra  map[string]any
}

func (c *Collection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("collection must be a JSON object: %w", err)
	}

	*c = Collection{Extra: make(map[string]any)}
	for k, v := range raw {
		switch k {
		case KeyFields:
			var fields []Field
			if err := json.Unmarshal(v, &fields); err != nil {
				return fmt.Errorf("collection fields: %w", err)
			}
			if fields == nil {
				fields = []Field{}
			}
			c.Fields = fields
			continue
		}

		value, err := decodeValue(v)
		if err != nil {
			return fmt.Errorf("collection attribute %q: %w", k, err)
		}
		switch k {
		case KeyID:
			c.ID = stringOf(value)
		case KeyName:
			c.Name = stringOf(value)
		case KeyType:
			c.Type = CollectionType(stringOf(value))
		default:
			c.Extra[k] = value
		}
	}
	return nil
}

func (c Collection) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		out[k] = v
	}
	if c.ID != "" {
		out[KeyID] = c.ID
	}
	out[KeyName] = c.Name
	if c.Type != "" {
		out[KeyType] = c.Type
	}
	if c.Fields != nil {
		out[KeyFields] = c.Fields
	}
	return marshal(out)
}

// Clone returns a deep copy; mutating the copy never touches c.
func (c Collection) Clone() Collection {
	out := Collection{
		ID:    c.ID,
		Name:  c.Name,
		Type:  c.Type,
		Extra: copyMap(c.Extra),
	}
	if c.Fields != nil {
		out.Fields = make([]Field, len(c.Fields))
		for i, f := range c.Fields {
			out.Fields[i] = f.Clone()
		}
	}
	return out
}

// FieldIndex returns the position of the first field called name, or -1.
func (c Collection) FieldIndex(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// HasField reports whether a field called name exists.
func (c Collection) HasField(name string) bool {
	return c.FieldIndex(name) >= 0
}

// FieldNames lists field names in order.
func (c Collection) FieldNames() []string {
	names := make([]string, len(c.Fields))
	for i, f := range c.Fields {
		names[i] = f.Name
	}
	return names
}
