// Package migrations embeds the goose SQL migrations for the vault
// server's PostgreSQL database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
