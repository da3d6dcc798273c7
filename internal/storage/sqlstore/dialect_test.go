package sqlstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestRebind(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "sqlite keeps question marks",
			dialect:  SQLite,
			query:    "UPDATE kapal SET nama_kapal = ? WHERE id_kapal = ?",
			expected: "UPDATE kapal SET nama_kapal = ? WHERE id_kapal = ?",
		},
		{
			name:     "postgres numbers placeholders",
			dialect:  Postgres,
			query:    "UPDATE kapal SET nama_kapal = ?, jenis_kapal = ? WHERE id_kapal = ?",
			expected: "UPDATE kapal SET nama_kapal = $1, jenis_kapal = $2 WHERE id_kapal = $3",
		},
		{
			name:     "postgres without placeholders",
			dialect:  Postgres,
			query:    "SELECT 1",
			expected: "SELECT 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.dialect.Rebind(tt.query))
		})
	}
}

func TestPostgresUniqueViolation(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, Postgres.IsUniqueViolation(wrapped))
	assert.False(t, Postgres.IsUniqueViolation(&pgconn.PgError{Code: "23502"}))
	assert.False(t, Postgres.IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, Postgres.IsUniqueViolation(nil))
}

func TestSQLiteUniqueViolationFallsBackToMessage(t *testing.T) {
	assert.True(t, SQLite.IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.username (2067)")))
	assert.False(t, SQLite.IsUniqueViolation(errors.New("disk I/O error")))
}
