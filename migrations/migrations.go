// Package migrations embeds the SQL schema migrations for every supported
// database driver. Each driver has its own directory of golang-migrate files.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
