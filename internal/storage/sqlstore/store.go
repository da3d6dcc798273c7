// Package sqlstore is the relational storage backend. Every operation is a
// single statement; nothing is wrapped in a transaction.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mcoot/kapal-registry/internal/model"
	"github.com/mcoot/kapal-registry/internal/storage"
	"github.com/mcoot/kapal-registry/internal/storage/sqlstore/migrations"
)

// Store persists users and ships through database/sql
type Store struct {
	sqlDB   *sql.DB
	db      DBTX
	dialect Dialect
}

// Ensure Store implements the interface
var _ storage.Storage = (*Store)(nil)

// New wraps an already opened database. Migrations are not run.
func New(sqlDB *sql.DB, dialect Dialect) *Store {
	return &Store{sqlDB: sqlDB, db: sqlDB, dialect: dialect}
}

// OpenSQLite opens a SQLite database file and applies embedded migrations.
func OpenSQLite(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open(SQLite.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite serializes writers; one connection avoids SQLITE_BUSY churn
	sqlDB.SetMaxOpenConns(1)
	return open(ctx, sqlDB, SQLite)
}

// OpenPostgres connects to PostgreSQL and applies embedded migrations.
func OpenPostgres(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres dsn is required")
	}
	sqlDB, err := sql.Open(Postgres.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres db: %w", err)
	}
	return open(ctx, sqlDB, Postgres)
}

func open(ctx context.Context, sqlDB *sql.DB, dialect Dialect) (*Store, error) {
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s db: %w", dialect.Name, err)
	}
	s := New(sqlDB, dialect)
	if err := s.Migrate(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return s, nil
}

// Migrate applies the dialect's embedded goose migrations.
func (s *Store) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(s.dialect.GooseDialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, s.sqlDB, s.dialect.MigrationDir)
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// User operations

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	query := s.dialect.Rebind(
		`INSERT INTO users (username, password, role)
		 VALUES (?, ?, ?)
		 RETURNING id_user`)

	var id int64
	err := s.db.QueryRowContext(ctx, query, user.Username, user.PasswordHash, string(user.Role)).Scan(&id)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return model.ErrUsernameTaken
		}
		return fmt.Errorf("db error: %w", err)
	}

	user.ID = model.UserID(id)
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := s.dialect.Rebind(
		`SELECT id_user, username, password, role FROM users
		 WHERE username = ?`)

	var (
		user model.User
		id   int64
		role string
	)
	err := s.db.QueryRowContext(ctx, query, username).Scan(&id, &user.Username, &user.PasswordHash, &role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = model.UserID(id)
	user.Role = model.Role(role)
	return &user, nil
}

// Ship operations

func (s *Store) ListShips(ctx context.Context) ([]model.Ship, error) {
	query := `SELECT id_kapal, nama_kapal, jenis_kapal, kapasitas_muatan, waktu_terdaftar FROM kapal
		 ORDER BY id_kapal`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer func() { _ = rows.Close() }()

	ships := make([]model.Ship, 0)
	for rows.Next() {
		var (
			ship       model.Ship
			id         int64
			registered int64
		)
		if err := rows.Scan(&id, &ship.Name, &ship.Type, &ship.CargoCapacity, &registered); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ship.ID = model.ShipID(id)
		ship.RegisteredAt = fromMillis(registered)
		ships = append(ships, ship)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ships, nil
}

func (s *Store) CreateShip(ctx context.Context, ship *model.Ship) error {
	query := s.dialect.Rebind(
		`INSERT INTO kapal (nama_kapal, jenis_kapal, kapasitas_muatan, waktu_terdaftar)
		 VALUES (?, ?, ?, ?)
		 RETURNING id_kapal`)

	var id int64
	err := s.db.QueryRowContext(ctx, query,
		ship.Name, ship.Type, ship.CargoCapacity, toMillis(ship.RegisteredAt)).Scan(&id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	ship.ID = model.ShipID(id)
	return nil
}

func (s *Store) UpdateShip(ctx context.Context, id model.ShipID, fields model.ShipFields) (int64, error) {
	query := s.dialect.Rebind(
		`UPDATE kapal SET nama_kapal = ?, jenis_kapal = ?, kapasitas_muatan = ?
		 WHERE id_kapal = ?`)

	res, err := s.db.ExecContext(ctx, query, fields.Name, fields.Type, fields.CargoCapacity, int64(id))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

func (s *Store) DeleteShip(ctx context.Context, id model.ShipID) (int64, error) {
	query := s.dialect.Rebind(`DELETE FROM kapal WHERE id_kapal = ?`)

	res, err := s.db.ExecContext(ctx, query, int64(id))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
