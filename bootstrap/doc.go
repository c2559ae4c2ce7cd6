// Package bootstrap runs asreval commands with a uniform lifecycle:
// typed configuration, logger initialization, start/stop hooks and
// signal-driven cancellation.
//
//	app, err := bootstrap.NewApp(&cfg)
//	app.OnStart(setupTelemetry)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    return transcribeFolder(ctx)
//	})
package bootstrap
