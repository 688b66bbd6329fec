package migrations

import "embed"

// FS contains embedded SQLite migrations for the key registry.
//
//go:embed *.sql
var FS embed.FS
