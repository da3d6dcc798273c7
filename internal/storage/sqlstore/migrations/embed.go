package migrations

import "embed"

// FS contains embedded goose migrations, one directory per SQL dialect.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
