// Package store reads and writes schema documents.
//
// A location is either a local path or an s3://bucket/key URL. The encoding
// follows the extension: .yaml and .yml are YAML, anything else is JSON.
package store
