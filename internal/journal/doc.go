// Package journal records what each mutating command did to the backend.
//
// Runs are kept in a local SQLite database whose schema is migrated on open.
// The journal is an audit trail only; nothing reads it back to decide what
// to apply.
package journal
