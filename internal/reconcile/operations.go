package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
)

// Dump returns the remote schema without system collections, sorted by name.
func (r *Reconciler) Dump(ctx context.Context) (models.Document, error) {
	remote, err := r.client.ListCollections(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("read remote schema: %w", err)
	}

	doc := models.Document(remote).WithoutPrefix(common.SystemPrefix)
	doc.SortByName()
	r.logger.Debug(ctx, "dumped schema", "collections", len(doc), "skipped", len(remote)-len(doc))
	return doc, nil
}

// CreateCollection creates an empty collection of the given type.
func (r *Reconciler) CreateCollection(ctx context.Context, name string, typ models.CollectionType) (models.Collection, error) {
	if strings.TrimSpace(name) == "" {
		return models.Collection{}, fmt.Errorf("collection name is required: %w", common.ErrInvalidInput)
	}
	if !typ.Valid() {
		return models.Collection{}, fmt.Errorf("unknown collection type %q: %w", typ, common.ErrInvalidInput)
	}

	created, err := r.client.CreateCollection(ctx, models.Collection{
		Name:   name,
		Type:   typ,
		Fields: []models.Field{},
	})
	if err != nil {
		return models.Collection{}, fmt.Errorf("create collection %s: %w", name, err)
	}
	r.logger.Info(ctx, "collection created", "collection", name, "id", created.ID)
	return created, nil
}

// findCollection resolves a name or identifier to the full remote
// collection. The direct endpoint is tried first; on any error the listing
// is searched by exact name.
func (r *Reconciler) findCollection(ctx context.Context, nameOrID string) (models.Collection, error) {
	c, err := r.client.GetCollection(ctx, nameOrID)
	if err == nil {
		return c, nil
	}
	r.logger.Debug(ctx, "direct lookup failed, searching by name", "collection", nameOrID, "error", err)

	items, listErr := r.client.ListCollections(ctx, nameFilter(nameOrID))
	if listErr != nil {
		return models.Collection{}, fmt.Errorf("find collection %s: %w", nameOrID, errors.Join(err, listErr))
	}
	for _, it := range items {
		if it.Name == nameOrID || it.ID == nameOrID {
			return it, nil
		}
	}
	return models.Collection{}, fmt.Errorf("collection %s: %w", nameOrID, common.ErrCollectionNotFound)
}

// nameFilter builds the backend filter expression matching one name.
func nameFilter(name string) string {
	escaped := strings.ReplaceAll(name, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `'`, `\'`)
	return fmt.Sprintf("name='%s'", escaped)
}
