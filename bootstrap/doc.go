// Package bootstrap runs a trascrivi service: it applies and validates the
// typed config, initialises the logger, starts the registered components in
// order, runs lifecycle hooks, waits for SIGINT/SIGTERM or context
// cancellation and shuts everything down within a graceful timeout.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.RegisterComponent(storageComponent)
//	app.RegisterComponent(server.NewComponent(srv))
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
