// Package httpserver wraps net/http with graceful shutdown, lifecycle hooks,
// and probe handlers, so binaries start and stop a server the same way.
//
// Run starts the listener and blocks until the context is canceled, an
// interrupt or TERM signal arrives, or the listener fails. Either way the
// server drains in-flight requests through http.Server.Shutdown, bounded by
// the configured shutdown timeout. Startup problems come back wrapped with
// ErrStart and shutdown problems with ErrShutdown; inspect them with
// errors.Is.
//
// Construction goes through New with functional options, or NewFromConfig
// when settings arrive from the environment. WithStartHook and WithStopHook
// run callbacks around the lifecycle, which the tests also use to detect a
// running server without polling.
//
// HealthCheckHandler serves both probe styles: mounted bare it is a liveness
// endpoint, mounted with probe functions it reports readiness.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthCheckHandler(log))
//	r.Get("/readyz", httpserver.HealthCheckHandler(log, pg.Healthcheck(pool)))
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, r); err != nil {
//		log.ErrorContext(ctx, "server stopped", logger.Error(err))
//	}
package httpserver
