package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/mrchypark/pocketbase-go-skill/internal/common"
	"github.com/mrchypark/pocketbase-go-skill/internal/models"
	"gopkg.in/yaml.v3"
)

type codec interface {
	Encode(doc models.Document) ([]byte, error)
	Decode(data []byte) (models.Document, error)
}

func codecFor(location string) codec {
	switch strings.ToLower(path.Ext(location)) {
	case ".yaml", ".yml":
		return yamlCodec{}
	default:
		return jsonCodec{}
	}
}

type jsonCodec struct{}

// Encode writes the document indented by four spaces, without HTML escaping
// so rule expressions stay readable.
func (jsonCodec) Encode(doc models.Document) ([]byte, error) {
	if doc == nil {
		doc = models.Document{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return buf.Bytes(), nil
}

func (jsonCodec) Decode(data []byte) (models.Document, error) {
	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema must be a JSON array of collections: %w: %w", common.ErrInvalidInput, err)
	}
	return doc, nil
}

// yamlCodec goes through generic values and JSON so collections keep a
// single decoding path.
type yamlCodec struct{}

func (yamlCodec) Encode(doc models.Document) ([]byte, error) {
	if doc == nil {
		doc = models.Document{}
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func (yamlCodec) Decode(data []byte) (models.Document, error) {
	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("parse yaml: %w: %w", common.ErrInvalidInput, err)
	}
	raw, err := json.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("yaml schema must use string keys: %w: %w", common.ErrInvalidInput, err)
	}
	return jsonCodec{}.Decode(raw)
}
