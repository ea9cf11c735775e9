// Package migrations embeds the SQL migrations for the activity log.
package migrations

import "embed"

// FS holds the *.sql files read by golang-migrate through the iofs source.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the worker migrates to.
const Version = 1
