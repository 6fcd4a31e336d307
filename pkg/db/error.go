package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Substrings the supported drivers emit on a unique index violation:
// Postgres SQLSTATE 23505, MySQL error 1062, SQLite error 2067.
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint",
	"Error 1062",
	"UNIQUE constraint failed",
}

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
