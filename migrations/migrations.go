// Package migrations embeds the SQL schema migrations for the quote request store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
