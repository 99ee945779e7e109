package migrations

import "embed"

// Migrations holds the embedded SQL migrations applied at startup.
//
//go:embed *.sql
var Migrations embed.FS
