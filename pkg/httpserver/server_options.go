package httpserver

import (
	"time"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/leakguard"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/observability/noop"
)

const (
	defaultHTTPPort        = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultReadHeaderTime  = 5 * time.Second
	defaultMaxHeaderBytes  = 1 << 20
	defaultShutdownTimeout = 30 * time.Second
)

type (
	Option   func(s settings) settings
	settings struct {
		port              string
		serverName        string
		readTimeout       time.Duration
		writeTimeout      time.Duration
		idleTimeout       time.Duration
		readHeaderTimeout time.Duration
		maxHeaderBytes    int
		shutdownTimeout   time.Duration
		routes            []Route
		globalMiddlewares []Middleware
		errorHandler      ErrorHandler

		o11y         observability.Observability
		agentConfig  *agentconfig.AgentTracerConfig
		guard        *leakguard.Guard
		guardEnabled bool
	}
)

func defaultSettings() settings {
	return settings{
		port:              defaultHTTPPort,
		readTimeout:       defaultReadTimeout,
		writeTimeout:      defaultWriteTimeout,
		idleTimeout:       defaultIdleTimeout,
		readHeaderTimeout: defaultReadHeaderTime,
		maxHeaderBytes:    defaultMaxHeaderBytes,
		shutdownTimeout:   defaultShutdownTimeout,
		o11y:              noop.NewProvider(),
	}
}

// WithPort sets the listen port. Default: "8080".
func WithPort(port string) Option {
	return func(s settings) settings {
		s.port = port
		return s
	}
}

// WithServerName sets http.server_name on server spans.
func WithServerName(name string) Option {
	return func(s settings) settings {
		s.serverName = name
		return s
	}
}

// WithReadTimeout bounds reading the whole request, body included.
// Default: 15s.
func WithReadTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.readTimeout = timeout
		return s
	}
}

// WithWriteTimeout bounds writing the response. Default: 15s.
func WithWriteTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.writeTimeout = timeout
		return s
	}
}

// WithIdleTimeout bounds the wait for the next keep-alive request.
// Default: 60s.
func WithIdleTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.idleTimeout = timeout
		return s
	}
}

func WithReadHeaderTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.readHeaderTimeout = timeout
		return s
	}
}

func WithMaxHeaderBytes(size int) Option {
	return func(s settings) settings {
		s.maxHeaderBytes = size
		return s
	}
}

// WithShutdownTimeout sets the timeout used by ShutdownContext.
// Default: 30s.
func WithShutdownTimeout(timeout time.Duration) Option {
	return func(s settings) settings {
		s.shutdownTimeout = timeout
		return s
	}
}

// WithRoutes registers routes at construction.
func WithRoutes(routes ...Route) Option {
	return func(s settings) settings {
		s.routes = append(s.routes, routes...)
		return s
	}
}

// WithMiddlewares appends middlewares applied to every request, inside the
// built-in tracing middlewares.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(s settings) settings {
		s.globalMiddlewares = append(s.globalMiddlewares, middlewares...)
		return s
	}
}

// WithErrorHandler replaces the handler for errors returned by routes.
func WithErrorHandler(handler ErrorHandler) Option {
	return func(s settings) settings {
		s.errorHandler = handler
		return s
	}
}

// WithObservability sets the provider used for logging and server spans.
func WithObservability(o11y observability.Observability) Option {
	return func(s settings) settings {
		if o11y != nil {
			s.o11y = o11y
		}
		return s
	}
}

// WithAgentConfig lets the agent configuration switch server spans off
// through the "http-server" instrumentation name.
func WithAgentConfig(config *agentconfig.AgentTracerConfig) Option {
	return func(s settings) settings {
		s.agentConfig = config
		return s
	}
}

// WithLeakGuard wraps every request in guard, outside every other
// middleware.
func WithLeakGuard(guard *leakguard.Guard, enabled bool) Option {
	return func(s settings) settings {
		s.guard = guard
		s.guardEnabled = enabled
		return s
	}
}
