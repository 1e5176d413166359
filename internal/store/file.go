package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/filex"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
)

// FileStore keeps documents on the local filesystem.
type FileStore struct{}

func (FileStore) Load(_ context.Context, location string) (models.Document, error) {
	data, err := os.ReadFile(location)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", location, common.ErrSchemaNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", location, err)
	}

	doc, err := codecFor(location).Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", location, err)
	}
	return doc, nil
}

func (FileStore) Save(_ context.Context, location string, doc models.Document) error {
	data, err := codecFor(location).Encode(doc)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(location, data, 0o644)
}
