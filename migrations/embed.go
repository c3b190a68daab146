package migrations

import "embed"

// FS holds the PostgreSQL schema migrations, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
