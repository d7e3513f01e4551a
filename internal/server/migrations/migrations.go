// Package migrations embeds the goose migrations of the shared note store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
