// Package migrations embeds the goose SQL migrations for all services.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
