// Package postgres implements authkit.Storage on PostgreSQL using the pgx/v5
// driver.
//
// The schema does the heavy lifting: unique indexes enforce email and
// provider-identity uniqueness, foreign keys cascade account and session
// deletes, and refresh token rotation is a single compare-and-swap UPDATE so
// concurrent refreshes of the same token produce exactly one winner.
// Constraint violations are translated into the authkit sentinel errors the
// engine expects (authkit.ErrEmailAlreadyExists, authkit.ErrAccountAlreadyLinked,
// authkit.ErrSessionNotFound, ...).
//
// Migrations ship embedded in the package and are applied with goose through
// pkg/pg, tracked in their own authkit_schema_migrations table so they never
// collide with the application's migrations.
//
// # Usage
//
//	pool, err := pg.Connect(ctx, pgConfig)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close()
//
//	store := postgres.New(pool)
//	if err := store.Migrate(ctx, slog.Default()); err != nil {
//	    log.Fatal(err)
//	}
//
//	auth, err := authkit.New(store, authkit.Config{SigningKey: key})
package postgres
