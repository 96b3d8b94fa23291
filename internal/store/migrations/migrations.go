// Package migrations embeds the goose migrations for the database tier.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
