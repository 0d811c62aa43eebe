// Package migrations holds the goose SQL migrations compiled into cmd/migrate.
package migrations

import "embed"

// FS contains every *.sql migration in this directory
//
//go:embed *.sql
var FS embed.FS
