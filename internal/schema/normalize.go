package schema

import "github.com/mrchypark/pocketbase-go-skill/internal/models"

// Names of the system-managed timestamp fields.
const (
	FieldCreated = "created"
	FieldUpdated = "updated"
)

const fieldTypeAutodate = "autodate"

// CreatedField is the autodate field stamped on record creation only.
func CreatedField() models.Field {
	return models.NewField(FieldCreated, fieldTypeAutodate, map[string]any{
		"hidden":      false,
		"id":          "autodate_created",
		"onCreate":    true,
		"onUpdate":    false,
		"presentable": false,
		"system":      true,
	})
}

// UpdatedField is the autodate field stamped on creation and on every update.
func UpdatedField() models.Field {
	return models.NewField(FieldUpdated, fieldTypeAutodate, map[string]any{
		"hidden":      false,
		"id":          "autodate_updated",
		"onCreate":    true,
		"onUpdate":    true,
		"presentable": false,
		"system":      true,
	})
}

// Normalize returns a copy of c carrying exactly one "created" and one
// "updated" field. A missing "created" is prepended and a missing "updated"
// appended; fields already present under those names are kept as they are.
// Views have no writable rows and are returned unchanged.
//
// Normalize(Normalize(c)) equals Normalize(c).
func Normalize(c models.Collection) models.Collection {
	out := c.Clone()
	if out.Type == models.TypeView {
		return out
	}

	if !out.HasField(FieldCreated) {
		out.Fields = append([]models.Field{CreatedField()}, out.Fields...)
	}
	// checked after the prepend above
	if !out.HasField(FieldUpdated) {
		out.Fields = append(out.Fields, UpdatedField())
	}
	return out
}
