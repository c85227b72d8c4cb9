// Package migrations embeds the goose migration files for the local
// sqlite database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
