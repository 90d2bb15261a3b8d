package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/kyros/internal/platform/domain"
	"github.com/aussiebroadwan/kyros/internal/platform/store"
	"github.com/aussiebroadwan/kyros/internal/platform/store/drivers/sqlite/gen"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Store struct {
	db *sql.DB
	q  *gen.Queries
}

// DSN builds a modernc connection string for path with foreign keys on, a
// busy timeout and WAL journaling. Pragmas are per connection, so they go in
// the DSN rather than a one-off exec.
func DSN(path string) string {
	return "file:" + path +
		"?_pragma=foreign_keys(1)" +
		"&_pragma=busy_timeout(5000)" +
		"&_pragma=journal_mode(WAL)"
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return NewStoreFromDB(db), nil
}

// NewStoreFromDB wraps an already opened handle. The Store takes ownership
// and closes db on Close.
func NewStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db, q: gen.New(db)}
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, committing on success.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback() // no-op after commit
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) Users() store.Users             { return &usersRepo{q: s.q} }
func (s *Store) Tenants() store.Tenants         { return &tenantsRepo{q: s.q} }
func (s *Store) Memberships() store.Memberships { return &membershipsRepo{q: s.q} }
func (s *Store) Dashboards() store.Dashboards   { return &dashboardsRepo{q: s.q} }
func (s *Store) Exchanges() store.Exchanges     { return &exchangesRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates sqlite constraint failures into store sentinels.
// A foreign key failure means a referenced row is missing.
func mapConstraint(err error) error {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return err
	}
	switch code := se.Code(); {
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		strings.Contains(se.Error(), "UNIQUE constraint failed"):
		return errors.Join(store.ErrAlreadyExists, err)
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		strings.Contains(se.Error(), "FOREIGN KEY constraint failed"):
		return errors.Join(store.ErrNotFound, err)
	default:
		return err
	}
}

func mapNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func mapStringNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// mapConfig returns the stored config as a JSON object. Rows holding anything
// else come back as {}.
func mapConfig(raw string) json.RawMessage {
	var obj map[string]json.RawMessage
	if raw == "" || json.Unmarshal([]byte(raw), &obj) != nil || obj == nil {
		return json.RawMessage("{}")
	}
	return json.RawMessage(raw)
}

func configString(cfg json.RawMessage) string {
	if len(cfg) == 0 {
		return "{}"
	}
	return string(cfg)
}

func mapUser(row gen.User) domain.User {
	return domain.User{
		ID:        row.UserID,
		Email:     row.Email,
		CreatedAt: row.CreatedAt,
	}
}

func mapTenant(row gen.Tenant) domain.Tenant {
	return domain.Tenant{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		IsActive:  row.IsActive,
		Config:    mapConfig(row.ConfigJson),
		CreatedAt: row.CreatedAt,
	}
}

func mapDashboard(row gen.Dashboard) domain.Dashboard {
	return domain.Dashboard{
		Slug:        row.Slug,
		Title:       row.Title,
		Description: mapNullString(row.Description),
		Config:      mapConfig(row.ConfigJson),
	}
}

func mapTokenExchange(row gen.TokenExchange) domain.TokenExchange {
	return domain.TokenExchange{
		ID:               row.ID,
		UserID:           row.UserID,
		TenantID:         row.TenantID,
		Outcome:          row.Outcome,
		Role:             mapNullString(row.Role),
		TokenFingerprint: mapNullString(row.TokenFingerprint),
		CreatedAt:        time.Unix(row.CreatedAt, 0).UTC(),
	}
}
