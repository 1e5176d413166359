// Package models defines the schema document types exchanged with the
// backend: collections, their fields, and whole documents.
//
// Collection and Field decode only the attributes pbmigrate reasons about
// (name, type, id, fields, relation target). Every other attribute is kept
// verbatim and written back on encode, so a dumped document can be applied
// again without losing rules, indexes or type-specific field options.
package models
