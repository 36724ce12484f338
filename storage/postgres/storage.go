package postgres

import (
	"context"
	"embed"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/authkit"
	"github.com/dmitrymomot/authkit/pkg/pg"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Storage is a PostgreSQL implementation of authkit.Storage backed by a pgx
// connection pool. Uniqueness (email, provider identity, one provider per
// user) and cascade deletes are enforced by the schema, so the implementation
// translates constraint violations into the authkit sentinels instead of
// pre-checking.
type Storage struct {
	pool *pgxpool.Pool
}

// New creates a Storage on top of an existing connection pool, typically one
// opened with pg.Connect.
func New(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// Migrate applies the embedded schema migrations. Call it once on startup
// before handing the storage to authkit.New.
func (s *Storage) Migrate(ctx context.Context, log logger) error {
	return pg.MigrateFS(ctx, s.pool, migrationsFS, "migrations", "authkit_schema_migrations", log)
}

// logger matches the slog methods pg.MigrateFS reports through.
type logger interface {
	InfoContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

// Compile-time interface assertion
var _ authkit.Storage = (*Storage)(nil)
