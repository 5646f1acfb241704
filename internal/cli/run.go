package cli

import (
	"context"
	"syscall"
	"time"

	"github.com/kbukum/itemfeed/bootstrap"
	"github.com/kbukum/itemfeed/collector"
	"github.com/kbukum/itemfeed/component"
	"github.com/kbukum/itemfeed/config"
	"github.com/kbukum/itemfeed/header"
	"github.com/kbukum/itemfeed/lifecycle"
	"github.com/kbukum/itemfeed/logger"
	"github.com/kbukum/itemfeed/observability"
	"github.com/kbukum/itemfeed/reader"
	"github.com/kbukum/itemfeed/store"
	"github.com/kbukum/itemfeed/version"
)

// shutdownTimeout bounds stopping the source and the final export of
// metrics and spans.
const shutdownTimeout = 5 * time.Second

func run(ctx context.Context, env Env, f flags, cfg *config.FeedConfig) error {
	if ctx == nil {
		ctx = context.Background()
	}

	// SIGPIPE is handled so a closed stdout ends the task instead of the
	// process, which still lets the source kill its command.
	appOpts := []bootstrap.Option{
		bootstrap.WithGracefulTimeout(shutdownTimeout),
		bootstrap.WithSignals(syscall.SIGINT, syscall.SIGTERM, syscall.SIGPIPE),
	}
	if env.Logger != nil {
		appOpts = append(appOpts, bootstrap.WithLogger(env.Logger))
	}
	app, err := bootstrap.NewApp(cfg, appOpts...)
	if err != nil {
		return err
	}
	logger.RegisterComponents(app.Logger, logger.FeedComponents...)
	log := app.Logger.WithComponent("cli")

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		if err := app.RegisterComponent(newTelemetry(cfg)); err != nil {
			return err
		}
		// Instruments on the global meter start exporting once the
		// telemetry component has installed its provider.
		if metrics, err = observability.NewMetrics(observability.Meter("github.com/kbukum/itemfeed")); err != nil {
			return err
		}
	}

	rd := reader.FromConfig(cfg, reader.WithMetrics(metrics))
	tracker := lifecycle.NewTracker(lifecycle.WithMetrics(metrics))
	src := reader.NewSource("source", rd, input(env, f, cfg), tracker)
	if err := app.RegisterComponent(src); err != nil {
		return err
	}
	app.OnReady(func(ctx context.Context) error {
		h := src.Health(ctx)
		log.Debug("source ready", logger.Fields(
			logger.FieldSource, h.Name,
			logger.FieldStatus, string(h.Status),
			"details", src.Describe().Details,
		))
		return nil
	})
	app.OnStop(func(context.Context) error {
		log.Debug("stopping source", logger.Fields(
			logger.FieldActive, tracker.Active(),
			logger.FieldDuration, app.StartupDuration().Milliseconds(),
		))
		return nil
	})

	pool := store.New()
	pool.Reserve(cfg.HeaderLines)
	p := &printer{
		out:         env.Stdout,
		sep:         '\n',
		original:    f.original,
		headerLines: cfg.HeaderLines,
		pool:        pool,
		header:      header.New(cfg.Header, header.WithPool(pool), header.WithReverse(true)),
		width:       defaultWidth,
	}
	if f.print0 {
		p.sep = 0
	}
	if env.Width != nil {
		p.width = env.Width()
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		n, err := p.run(ctx, src.Items())
		log.Debug("items printed", logger.Fields(logger.FieldItems, n))
		return err
	})
}

// input picks the source: an explicit command, stdin when something is
// piped in, and the default command otherwise.
func input(env Env, f flags, cfg *config.FeedConfig) collector.Input {
	if f.command != "" {
		return collector.Command(f.command)
	}
	if env.StdinIsTerminal == nil || !env.StdinIsTerminal() {
		return collector.Pipe(env.Stdin)
	}
	if cfg.DefaultCommand != "" {
		return collector.Command(cfg.DefaultCommand)
	}
	return collector.Command(DefaultCommand)
}

// newTelemetry installs the OTLP meter and tracer providers on Start and
// flushes them on Stop.
func newTelemetry(cfg *config.FeedConfig) *component.BaseLazyComponent {
	var shutdown []func(context.Context) error

	c := component.NewBaseLazyComponent("telemetry", func(ctx context.Context) error {
		ver := version.Get().Short()

		mc := observability.DefaultMeterConfig(cfg.Name)
		mc.ServiceVersion = ver
		mc.Endpoint = cfg.Metrics.Endpoint
		mc.Insecure = cfg.Metrics.Insecure
		mc.Interval = cfg.Metrics.ExportInterval
		mp, err := observability.InitMeter(ctx, &mc)
		if err != nil {
			return err
		}
		shutdown = append(shutdown, mp.Shutdown)

		tc := observability.DefaultTracerConfig(cfg.Name)
		tc.ServiceVersion = ver
		tc.Endpoint = cfg.Metrics.Endpoint
		tc.Insecure = cfg.Metrics.Insecure
		tp, err := observability.InitTracer(ctx, &tc)
		if err != nil {
			return err
		}
		shutdown = append(shutdown, tp.Shutdown)
		return nil
	})

	return c.WithCloser(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var first error
		for _, fn := range shutdown {
			if err := fn(ctx); err != nil && first == nil {
				first = err
			}
		}
		shutdown = nil
		return first
	})
}
