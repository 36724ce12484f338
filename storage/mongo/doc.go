// Package mongo implements authkit.Storage on MongoDB using the official
// mongo-driver.
//
// Unique indexes enforce email and provider-identity uniqueness, and refresh
// token rotation is a single findAndModify compare-and-swap so concurrent
// refreshes of the same token produce exactly one winner. MongoDB has no
// cascading deletes, so removing a user deletes its accounts and sessions
// explicitly. Constraint violations are translated into the authkit sentinel
// errors the engine expects.
//
// UUIDs are stored in their canonical string form to keep documents readable
// in the shell and queryable without binary subtype handling.
//
// # Usage
//
//	db, err := pkgmongo.NewWithDatabase(ctx, cfg, "auth")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := mongostorage.New(db)
//	if err := store.EnsureIndexes(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	auth, err := authkit.New(store, authkit.Config{SigningKey: key})
package mongo
