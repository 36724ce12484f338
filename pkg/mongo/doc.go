// Package mongo provides MongoDB connection management with retry logic,
// environment-driven configuration, and health check integration.
//
// The package wraps the official mongo-driver and adds:
//
//   - New, which connects with retries so services can start before the
//     server is reachable, and NewWithDatabase for callers bound to a single
//     database.
//   - Healthcheck helpers to wire MongoDB into HTTP liveness and readiness
//     probes.
//
// Configuration is described by the Config struct whose fields can be
// populated from environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	import (
//		"context"
//		"github.com/dmitrymomot/authkit/pkg/mongo"
//	)
//
//	func main() {
//		cfg := mongo.Config{
//			ConnectionURL: "mongodb://localhost:27017",
//		}
//
//		client, err := mongo.New(context.Background(), cfg)
//		if err != nil {
//			log.Fatal(err)
//		}
//		defer client.Disconnect(context.Background())
//
//		db, _ := mongo.NewWithDatabase(context.Background(), cfg, "mydb")
//
//		// Wire health check
//		health := mongo.Healthcheck(client)
//		if err := health(context.Background()); err != nil {
//			log.Println("mongo is unavailable:", err)
//		}
//	}
//
// # Error Handling
//
// Connection failures are wrapped in package sentinels with errors.Join, so
// callers can classify with errors.Is and still unwrap the driver error.
package mongo
