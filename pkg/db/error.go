package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsDuplicateKeyErr reports whether err is a unique-constraint violation. The
// unique indexes on subdomains and custom domains are the authoritative
// mutual-exclusion point for tenant allocation, so callers treat this error as
// "recompute and retry" rather than a failure.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, marker := range []string{
		"duplicate key value violates unique constraint", // postgres 23505
		"Error 1062",                // mysql
		"UNIQUE constraint failed",  // sqlite
		"constraint failed: UNIQUE", // glebarez sqlite
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}
