// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin layer over connection pooling, schema
// migrations, health checks, and common error helpers so applications can
// bootstrap a resilient database layer with a few lines of code.
//
// The package keeps a small API surface and relies on battle-tested upstream
// libraries (pgx/v5 for connectivity, goose/v3 for migrations) so callers are
// never locked in and can extend the behaviour where needed.
//
// # Building Blocks
//
//   - Config is a declarative struct whose fields are populated from
//     environment variables via github.com/caarlos0/env. It controls pool
//     limits, retry cadence, and migration paths.
//
//   - Connect opens a *pgxpool.Pool based on Config, retrying with growing
//     back-off until the database becomes available.
//
//   - Migrate and MigrateFS run goose migrations against the same pool,
//     guaranteeing the schema is current before the service serves traffic.
//     MigrateFS reads from an fs.FS, which lets storage packages embed their
//     migrations with go:embed.
//
// # Usage
//
//	var cfg pg.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	ctx := context.Background()
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.MigrateFS(ctx, pool, migrationsFS, "migrations", "", slog.Default()); err != nil {
//	    panic(err)
//	}
//
//	// expose a health endpoint
//	health := pg.Healthcheck(pool)
//	if err := health(ctx); err != nil {
//	    panic(err)
//	}
//
// # Error Handling
//
// Helpers such as [IsDuplicateKeyError] and [IsForeignKeyViolationError]
// unwrap *pgconn.PgError values returned by pgx and make error classification
// trivial inside storage code, while [IsNotFoundError] detects empty query
// results.
package pg
