// Package migrations embeds the goose migrations of the local note store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
