// Package migrations holds the schema for every supported dialect. Each
// dialect lives in its own directory and is applied with golang-migrate.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite3/*.sql
var FS embed.FS
