// Package migrations provides embedded SQL migration files.
package migrations

import (
	_ "embed"
)

// InitialSQL creates every table. Statements are idempotent.
//
//go:embed sql/001_initial.sql
var InitialSQL string
