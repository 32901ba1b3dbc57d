package migrations

import "embed"

// FS contains embedded SQLite migrations for grimoire storage.
//
//go:embed *.sql
var FS embed.FS
