// Package bhttpfx assembles a wex.App using go.uber.org/fx, wiring
// together config, logging, and tracing before a routing function
// registers routes and the server starts.
package bhttpfx

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/arjunvbhat/wex"
	"github.com/arjunvbhat/wex/config"
	"github.com/arjunvbhat/wex/zapadapter"
)

// AppConfig accumulates Options before building the fx.App.
type AppConfig struct {
	FxOptions []fx.Option
}

// Option configures the fx.App assembled by [New].
type Option func(*AppConfig)

// WithFx adds extra fx options, e.g. fx.Provide for a host's own handler
// constructors.
func WithFx(opts ...fx.Option) Option {
	return func(c *AppConfig) {
		c.FxOptions = append(c.FxOptions, opts...)
	}
}

// App wraps an fx.App for lifecycle management.
type App struct {
	fx *fx.App
}

// RoutingParams holds everything a routing function may need to register
// routes and middleware.
type RoutingParams struct {
	fx.In

	App        *wex.App
	Logger     *zap.Logger
	Tracer     trace.TracerProvider
	Propagator propagation.TextMapPropagator
	Config     config.Config
}

// RoutingFunc is invoked once the DI graph is built, to register routes
// and middleware before the server starts.
type RoutingFunc = func(RoutingParams)

// New assembles an fx.App that builds config.Config from the environment,
// a zap.Logger at the configured level, an OpenTelemetry TracerProvider
// and propagator, and a *wex.App — then invokes routing to register
// routes before starting the listener.
func New(routing RoutingFunc, opts ...Option) *App {
	var cfg AppConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	baseOpts := []fx.Option{
		fx.NopLogger,
		fx.Provide(config.Load),
		fx.Provide(newZapLogger),
		fx.Provide(NewTracerProvider),
		fx.Provide(NewPropagator),
		fx.Provide(newWexApp),
		fx.Invoke(routing),
		fx.Invoke(startServerHook),
	}
	baseOpts = append(baseOpts, cfg.FxOptions...)

	return &App{fx: fx.New(baseOpts...)}
}

// NewPropagator returns the default W3C TraceContext + Baggage composite
// propagator.
func NewPropagator() propagation.TextMapPropagator {
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() { a.fx.Run() }

// Start starts the application with the given context, blocking until ctx
// is cancelled and then shutting down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.fx.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.fx.StopTimeout())
	defer cancel()

	return a.fx.Stop(stopCtx)
}

func newZapLogger(cfg config.Config) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	return zcfg.Build()
}

func newWexApp(l *zap.Logger) *wex.App {
	app := wex.NewApp()
	app.SetLogger(zapadapter.New(l))
	return app
}

const tracingInitTimeout = 5 * time.Second

// NewTracerProvider builds a stdout-exporting TracerProvider named after
// cfg.ServiceName.
func NewTracerProvider(lc fx.Lifecycle, cfg config.Config) (trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(context.Background(), tracingInitTimeout)
	defer cancel()

	exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

// startServerHook wires app's ServeHTTP into an *http.Server bound to
// cfg.Addr, starting it on fx's OnStart and shutting it down gracefully on
// OnStop — wex.App.Listen itself blocks, so fx's non-blocking lifecycle
// needs its own *http.Server rather than calling Listen directly.
func startServerHook(lc fx.Lifecycle, app *wex.App, cfg config.Config) {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      app,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				_ = srv.ListenAndServe()
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
