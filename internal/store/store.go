package store

import (
	"context"
	"strings"

	"github.com/mrchypark/pocketbase-go-skill/internal/models"
)

// Store loads and saves schema documents at a location.
type Store interface {
	Load(ctx context.Context, location string) (models.Document, error)
	Save(ctx context.Context, location string, doc models.Document) error
}

// Router dispatches to the S3 store for s3:// locations and to the file
// store for everything else.
type Router struct {
	Files  Store
	Bucket Store
}

// Open returns a Router. The S3 side is built on first use so plain file
// locations never touch AWS configuration.
func Open(cfg S3Config) *Router {
	return &Router{
		Files:  FileStore{},
		Bucket: &lazyS3{cfg: cfg},
	}
}

func (r *Router) pick(location string) Store {
	if strings.HasPrefix(location, s3Scheme) {
		return r.Bucket
	}
	return r.Files
}

func (r *Router) Load(ctx context.Context, location string) (models.Document, error) {
	return r.pick(location).Load(ctx, location)
}

func (r *Router) Save(ctx context.Context, location string, doc models.Document) error {
	return r.pick(location).Save(ctx, location, doc)
}
