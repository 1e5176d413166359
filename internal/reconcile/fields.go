package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
	"github.com/mrchypark/pocketbase-go-skill/internal/pocketbase"
)

// FieldAction describes what a field operation did.
type FieldAction string

const (
	FieldAdded    FieldAction = "added"
	FieldReplaced FieldAction = "replaced"
	FieldDeleted  FieldAction = "deleted"
)

// FieldChange is the outcome of AddField or DeleteField.
type FieldChange struct {
	Collection   string
	CollectionID string
	Field        string
	Action       FieldAction
	// Fields lists the collection's field names after the change.
	Fields []string
}

// AddField adds field to a collection. A field with the same name is
// replaced in place with field's attributes laid over the existing ones.
func (r *Reconciler) AddField(ctx context.Context, collection string, field models.Field) (FieldChange, error) {
	if strings.TrimSpace(collection) == "" {
		return FieldChange{}, fmt.Errorf("collection is required: %w", common.ErrInvalidInput)
	}
	if strings.TrimSpace(field.Name) == "" {
		return FieldChange{}, fmt.Errorf("field name is required: %w", common.ErrInvalidInput)
	}

	target, err := r.findCollection(ctx, collection)
	if err != nil {
		return FieldChange{}, err
	}

	fields := target.Clone().Fields
	action := FieldAdded
	if i := target.FieldIndex(field.Name); i >= 0 {
		r.logger.Info(ctx, "field already exists, updating", "collection", target.Name, "field", field.Name)
		fields[i].Merge(field)
		action = FieldReplaced
	} else {
		fields = append(fields, field.Clone())
	}

	return r.patchFields(ctx, target, field.Name, action, fields)
}

// DeleteField removes the named field from a collection. Nothing is sent to
// the backend when the field does not exist.
func (r *Reconciler) DeleteField(ctx context.Context, collection, fieldName string) (FieldChange, error) {
	if strings.TrimSpace(collection) == "" {
		return FieldChange{}, fmt.Errorf("collection is required: %w", common.ErrInvalidInput)
	}
	if strings.TrimSpace(fieldName) == "" {
		return FieldChange{}, fmt.Errorf("field name is required: %w", common.ErrInvalidInput)
	}

	target, err := r.findCollection(ctx, collection)
	if err != nil {
		return FieldChange{}, err
	}

	if !target.HasField(fieldName) {
		return FieldChange{}, fmt.Errorf("field %s in %s: %w", fieldName, target.Name, common.ErrFieldNotFound)
	}

	fields := make([]models.Field, 0, len(target.Fields))
	for _, f := range target.Fields {
		if f.Name != fieldName {
			fields = append(fields, f.Clone())
		}
	}

	return r.patchFields(ctx, target, fieldName, FieldDeleted, fields)
}

func (r *Reconciler) patchFields(ctx context.Context, target models.Collection, field string, action FieldAction, fields []models.Field) (FieldChange, error) {
	if fields == nil {
		fields = []models.Field{}
	}
	if _, err := r.client.UpdateCollection(ctx, target.ID, pocketbase.FieldsPatch{Fields: fields}); err != nil {
		return FieldChange{}, fmt.Errorf("update fields of %s: %w", target.Name, err)
	}

	change := FieldChange{
		Collection:   target.Name,
		CollectionID: target.ID,
		Field:        field,
		Action:       action,
		Fields:       models.Collection{Fields: fields}.FieldNames(),
	}
	r.logger.Info(ctx, "field "+string(action), "collection", target.Name, "field", field)
	return change, nil
}
