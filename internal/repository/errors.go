// Package repository contains data access logic separated from HTTP
// handlers.  This file defines sentinel errors shared by repositories so
// higher layers can tell failure cases apart.
package repository

import "errors"

// ErrNotConfigured is returned by repositories built without a database.
// Handlers render it as "not configured" rather than as a failure.
var ErrNotConfigured = errors.New("database not configured")
