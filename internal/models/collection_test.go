package models

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postsJSON = `{
	"id": "pbc_123",
	"name": "posts",
	"type": "base",
	"system": false,
	"listRule": "",
	"indexes": ["CREATE INDEX idx ON posts (title)"],
	"fields": [
		{"id": "text1", "name": "title", "type": "text", "required": true},
		{"name": "author", "type": "relation", "collectionId": "_pb_users_auth_", "maxSelect": 1}
	]
}`

func TestCollection_DecodeEncodeRoundTrip(t *testing.T) {
	var c Collection
	require.NoError(t, json.Unmarshal([]byte(postsJSON), &c))

	assert.Equal(t, "pbc_123", c.ID)
	assert.Equal(t, "posts", c.Name)
	assert.Equal(t, TypeBase, c.Type)
	assert.Equal(t, []string{"title", "author"}, c.FieldNames())
	assert.Equal(t, false, c.Extra["system"])

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, postsJSON, string(out))
}

func TestCollection_FieldsPresence(t *testing.T) {
	var noFields Collection
	require.NoError(t, json.Unmarshal([]byte(`{"name":"v","type":"view","viewQuery":"SELECT 1"}`), &noFields))
	assert.Nil(t, noFields.Fields)

	out, err := json.Marshal(noFields)
	require.NoError(t, err)
	assert.NotContains(t, string(out), `"fields"`)

	var empty Collection
	require.NoError(t, json.Unmarshal([]byte(`{"name":"p","type":"base","fields":[]}`), &empty))
	require.NotNil(t, empty.Fields)
	assert.Empty(t, empty.Fields)

	out, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"fields":[]`)
}

func TestCollection_OmitsEmptyID(t *testing.T) {
	out, err := json.Marshal(Collection{Name: "posts", Type: TypeBase, Fields: []Field{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"posts","type":"base","fields":[]}`, string(out))
}

func TestCollection_CloneIsDeep(t *testing.T) {
	var c Collection
	require.NoError(t, json.Unmarshal([]byte(postsJSON), &c))

	cp := c.Clone()
	if diff := cmp.Diff(c, cp); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	cp.Fields[0].Name = "changed"
	cp.Fields = append(cp.Fields, NewField("extra", "text", nil))
	cp.Extra["indexes"].([]any)[0] = "changed"

	assert.Equal(t, "title", c.Fields[0].Name)
	assert.Len(t, c.Fields, 2)
	assert.Equal(t, "CREATE INDEX idx ON posts (title)", c.Extra["indexes"].([]any)[0])
}

func TestCollection_FieldLookup(t *testing.T) {
	c := Collection{Fields: []Field{NewField("a", "text", nil), NewField("b", "text", nil)}}

	assert.Equal(t, 1, c.FieldIndex("b"))
	assert.Equal(t, -1, c.FieldIndex("z"))
	assert.True(t, c.HasField("a"))
	assert.False(t, c.HasField("created"))
}

func TestCollectionType_Valid(t *testing.T) {
	assert.True(t, TypeBase.Valid())
	assert.True(t, TypeAuth.Valid())
	assert.True(t, TypeView.Valid())
	assert.False(t, CollectionType("table").Valid())
	assert.False(t, CollectionType("").Valid())
}

func TestDocument_SortAndFilter(t *testing.T) {
	doc := Document{
		{Name: "posts"},
		{Name: "_superusers"},
		{Name: "comments"},
		{Name: "_mfas"},
	}

	out := doc.WithoutPrefix("_")
	out.SortByName()

	assert.Equal(t, []string{"comments", "posts"}, out.Names())
	assert.Len(t, doc, 4)
}

func TestNameIndex(t *testing.T) {
	idx := NewNameIndex([]Collection{{ID: "1", Name: "posts"}, {ID: "2", Name: "tags"}})

	id, ok := idx.Lookup("tags")
	assert.True(t, ok)
	assert.Equal(t, "2", id)

	_, ok = idx.Lookup("missing")
	assert.False(t, ok)
}

func TestCollection_EncodeKeepsRuleOperators(t *testing.T) {
	c := Collection{Name: "stats", Type: TypeView, Extra: map[string]any{"viewQuery": "SELECT 1 WHERE a < b && c > d"}}
	out, err := c.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(out), `"viewQuery":"SELECT 1 WHERE a < b && c > d"`)
}
