// Package migrations embeds the goose migrations for the identity directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
