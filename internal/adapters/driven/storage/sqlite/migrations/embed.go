// Package migrations embeds the SQL files that build the chunk store schema.
//
// Files are named NNN_description.up.sql and applied in order; there are no
// down migrations. Every file must be safe to re-run against a database
// created by older indexing tools, so statements use IF NOT EXISTS.
package migrations

import "embed"

// FS contains all SQL migration files embedded at compile time.
//
//go:embed *.up.sql
var FS embed.FS
