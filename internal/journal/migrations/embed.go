// Package migrations embeds the journal database schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
