// Package httpserverfx wires the traced HTTP server, the leak guard and the
// agent configuration into an fx application.
package httpserverfx

import (
	"context"
	"time"

	"go.uber.org/fx"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/httpserver"
	"github.com/JailtonJunior94/tracekit/pkg/leakguard"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// Module provides the server, a leak guard and the lifecycle hooks. The
// application supplies an observability.Observability and, optionally, a
// Config and an *agentconfig.AgentTracerConfig.
//
//	fx.New(
//	    httpserverfx.Module,
//	    fx.Provide(func() observability.Observability { return provider }),
//	    fx.Supply(httpserverfx.Config{Port: "8080", TestMode: true}),
//	    fx.Provide(fx.Annotate(
//	        httpserverfx.ProvideRoute("GET", "/api", h.Get),
//	        fx.ResultTags(`group:"routes"`),
//	    )),
//	)
var Module = fx.Module("httpserver",
	fx.Provide(ProvideGuard, ProvideServer),
	fx.Invoke(RegisterLifecycle),
)

type GuardParams struct {
	fx.In

	Observability observability.Observability
}

// ProvideGuard builds the leak guard on the application's provider.
func ProvideGuard(p GuardParams) *leakguard.Guard {
	return leakguard.New(p.Observability)
}

type ServerParams struct {
	fx.In

	Config        Config `optional:"true"`
	Observability observability.Observability
	AgentConfig   *agentconfig.AgentTracerConfig `optional:"true"`
	Guard         *leakguard.Guard
	Routes        []httpserver.Route      `group:"routes"`
	Middlewares   []httpserver.Middleware `group:"middlewares"`
	ErrorHandler  httpserver.ErrorHandler `optional:"true"`
}

type ServerResult struct {
	fx.Out

	Server httpserver.Server
}

// ProvideServer creates the server. The leak guard wraps every request and
// is active only in test mode.
func ProvideServer(p ServerParams) ServerResult {
	opts := []httpserver.Option{
		httpserver.WithObservability(p.Observability),
		httpserver.WithAgentConfig(p.AgentConfig),
		httpserver.WithLeakGuard(p.Guard, p.Config.TestMode),
	}
	if p.Config.Port != "" {
		opts = append(opts, httpserver.WithPort(p.Config.Port))
	}
	if p.Config.ServerName != "" {
		opts = append(opts, httpserver.WithServerName(p.Config.ServerName))
	}
	for _, d := range []struct {
		value time.Duration
		set   func(time.Duration) httpserver.Option
	}{
		{p.Config.ReadTimeout, httpserver.WithReadTimeout},
		{p.Config.WriteTimeout, httpserver.WithWriteTimeout},
		{p.Config.IdleTimeout, httpserver.WithIdleTimeout},
		{p.Config.ReadHeaderTimeout, httpserver.WithReadHeaderTimeout},
		{p.Config.ShutdownTimeout, httpserver.WithShutdownTimeout},
	} {
		if d.value > 0 {
			opts = append(opts, d.set(d.value))
		}
	}
	if len(p.Routes) > 0 {
		opts = append(opts, httpserver.WithRoutes(p.Routes...))
	}
	if len(p.Middlewares) > 0 {
		opts = append(opts, httpserver.WithMiddlewares(p.Middlewares...))
	}
	if p.ErrorHandler != nil {
		opts = append(opts, httpserver.WithErrorHandler(p.ErrorHandler))
	}

	return ServerResult{Server: httpserver.New(opts...)}
}

type LifecycleParams struct {
	fx.In

	Server httpserver.Server
	LC     fx.Lifecycle
}

// RegisterLifecycle starts the server with the application and shuts it
// down within the configured shutdown timeout.
func RegisterLifecycle(p LifecycleParams) {
	var shutdown httpserver.Shutdown

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			shutdown = p.Server.Run()
			return nil
		},
		OnStop: func(context.Context) error {
			ctx, cancel := p.Server.ShutdownContext()
			defer cancel()
			return shutdown(ctx)
		},
	})
}

// ProvideRoute adapts a route for the "routes" value group.
func ProvideRoute(method, path string, handler httpserver.Handler, middlewares ...httpserver.Middleware) func() httpserver.Route {
	return func() httpserver.Route {
		return httpserver.NewRoute(method, path, handler, middlewares...)
	}
}

// ProvideMiddleware adapts a middleware for the "middlewares" value group.
func ProvideMiddleware(m httpserver.Middleware) func() httpserver.Middleware {
	return func() httpserver.Middleware {
		return m
	}
}
