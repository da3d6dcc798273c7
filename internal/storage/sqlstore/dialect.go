package sqlstore

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// pgUniqueViolation is the SQLSTATE for unique_violation
const pgUniqueViolation = "23505"

// Dialect captures the differences between the supported SQL engines
type Dialect struct {
	Name string
	// DriverName is the database/sql driver registered for the dialect
	DriverName string
	// GooseDialect is passed to goose.SetDialect
	GooseDialect string
	// MigrationDir is the directory inside migrations.FS
	MigrationDir string

	numberedPlaceholders bool
	uniqueViolation      func(err error) bool
}

// SQLite is the modernc.org/sqlite dialect
var SQLite = Dialect{
	Name:            "sqlite",
	DriverName:      "sqlite",
	GooseDialect:    "sqlite3",
	MigrationDir:    "sqlite",
	uniqueViolation: isSQLiteUniqueViolation,
}

// Postgres is the pgx stdlib dialect
var Postgres = Dialect{
	Name:                 "postgres",
	DriverName:           "pgx",
	GooseDialect:         "postgres",
	MigrationDir:         "postgres",
	numberedPlaceholders: true,
	uniqueViolation:      isPostgresUniqueViolation,
}

// Rebind rewrites '?' placeholders into the dialect's bind syntax.
// Statements must not contain literal question marks.
func (d Dialect) Rebind(query string) string {
	if !d.numberedPlaceholders {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsUniqueViolation reports whether err is a unique constraint failure
func (d Dialect) IsUniqueViolation(err error) bool {
	if err == nil || d.uniqueViolation == nil {
		return false
	}
	return d.uniqueViolation(err)
}

func isSQLiteUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

func isPostgresUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}
