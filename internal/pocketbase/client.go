package pocketbase

import (
	"context"

	"github.com/mrchypark/pocketbase-go-skill/internal/models"
)

// Client is the set of backend operations the reconciler needs.
type Client interface {
	// Health probes the backend without credentials.
	Health(ctx context.Context) error
	// Authenticate obtains an admin token and keeps it for later calls.
	Authenticate(ctx context.Context, identity, secret string) (Token, error)
	// ListCollections returns every collection, optionally narrowed by a
	// backend filter expression.
	ListCollections(ctx context.Context, filter string) ([]models.Collection, error)
	// GetCollection fetches one collection by identifier or name.
	GetCollection(ctx context.Context, idOrName string) (models.Collection, error)
	// CreateCollection creates c and returns it with its assigned identifier.
	CreateCollection(ctx context.Context, c models.Collection) (models.Collection, error)
	// UpdateCollection sends a partial payload merged server-side.
	UpdateCollection(ctx context.Context, id string, payload any) (models.Collection, error)
}

// FieldsPatch is the update payload that replaces only a collection's fields.
type FieldsPatch struct {
	Fields []models.Field `json:"fields"`
}
