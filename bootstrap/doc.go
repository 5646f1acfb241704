// Package bootstrap runs an itemfeed binary through its lifecycle: load
// and validate configuration, initialize logging, start the registered
// components, run the task, then stop everything in reverse order.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	_ = app.RegisterComponent(source)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return printItems(ctx, source.Items())
//	})
//
// SIGINT and SIGTERM cancel the task context; shutdown is bounded by the
// graceful timeout.
package bootstrap
