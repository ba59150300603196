// Package httpserver is a chi based HTTP server whose requests are traced
// with typed server spans and can be wrapped in a leak guard.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/responses"
)

type (
	// Server is an HTTP server with late route registration.
	Server interface {
		// Run starts listening in the background and returns the shutdown
		// function.
		Run() Shutdown
		// RegisterRoute adds a route. Safe to call after Run.
		RegisterRoute(route Route)
		// ShutdownListener receives the listen error, or nil after a clean
		// shutdown.
		ShutdownListener() chan error
		// ShutdownContext returns a context bounded by the shutdown timeout.
		ShutdownContext() (context.Context, context.CancelFunc)
		ServeHTTP(http.ResponseWriter, *http.Request)
	}

	server struct {
		http.Server
		router           *chi.Mux
		shutdownListener chan error
		shutdownTimeout  time.Duration
		errorHandler     ErrorHandler
		mu               sync.Mutex
	}

	Shutdown   func(ctx context.Context) error
	Middleware func(handler http.Handler) http.Handler
	// Handler serves a request. A returned error goes to the ErrorHandler.
	Handler      func(w http.ResponseWriter, req *http.Request) error
	ErrorHandler func(ctx context.Context, w http.ResponseWriter, err error)

	Route struct {
		Path        string
		Method      string
		Handler     Handler
		Middlewares []Middleware
	}
)

// New builds a server. Every request passes, outermost first, through the
// leak guard (when configured), RequestID, ServerSpan, Recovery and then the
// middlewares given through WithMiddlewares.
func New(options ...Option) Server {
	s := defaultSettings()
	for _, option := range options {
		s = option(s)
	}

	logger := s.o11y.Logger().With(observability.String("component", "httpserver"))
	if s.errorHandler == nil {
		s.errorHandler = logErrorHandler(logger)
	}

	router := chi.NewRouter()

	var chain []Middleware
	if s.guard != nil {
		chain = append(chain, LeakGuard(s.guard, s.guardEnabled))
	}
	chain = append(chain,
		RequestID,
		ServerSpan(s.o11y.Tracer(), s.agentConfig, s.serverName),
		Recovery(logger),
	)
	chain = append(chain, s.globalMiddlewares...)

	srv := &server{
		Server: http.Server{
			Addr:              fmt.Sprintf(":%s", s.port),
			Handler:           Middlewares(router, chain...),
			ReadTimeout:       s.readTimeout,
			WriteTimeout:      s.writeTimeout,
			IdleTimeout:       s.idleTimeout,
			ReadHeaderTimeout: s.readHeaderTimeout,
			MaxHeaderBytes:    s.maxHeaderBytes,
		},
		router:           router,
		shutdownListener: make(chan error, 1),
		shutdownTimeout:  s.shutdownTimeout,
		errorHandler:     s.errorHandler,
	}

	for _, route := range s.routes {
		srv.registerRoute(route)
	}
	return srv
}

func (s *server) ShutdownListener() chan error {
	return s.shutdownListener
}

func (s *server) ShutdownContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.shutdownTimeout)
}

func (s *server) Run() Shutdown {
	go func() {
		err := s.Server.ListenAndServe()
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			s.shutdownListener <- nil
			return
		}
		s.shutdownListener <- err
	}()
	return s.Server.Shutdown
}

func (s *server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.Server.Handler.ServeHTTP(w, req)
}

// NewRoute creates a Route.
func NewRoute(method, path string, handler Handler, middlewares ...Middleware) Route {
	return Route{
		Path:        path,
		Method:      method,
		Handler:     handler,
		Middlewares: middlewares,
	}
}

// Middlewares wraps main so that the first middleware is the outermost.
func Middlewares(main http.Handler, middlewares ...Middleware) http.Handler {
	handler := main
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

func (s *server) RegisterRoute(route Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registerRoute(route)
}

func (s *server) registerRoute(route Route) {
	s.router.Method(
		route.Method,
		route.Path,
		Middlewares(withErrorHandler(s.errorHandler, route.Handler), route.Middlewares...),
	)
}

// logErrorHandler logs route errors and answers 500 with a JSON body.
func logErrorHandler(logger observability.Logger) ErrorHandler {
	return func(ctx context.Context, w http.ResponseWriter, err error) {
		requestID := GetRequestID(ctx)
		logger.Error(ctx, "http handler failed",
			observability.String("request_id", requestID),
			observability.Error(err),
		)
		_ = responses.Error(w, http.StatusInternalServerError, responses.ErrorBody{
			Message:   http.StatusText(http.StatusInternalServerError),
			RequestID: requestID,
		})
	}
}

func withErrorHandler(errorHandler ErrorHandler, handler Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if err := handler(w, req); err != nil {
			errorHandler(req.Context(), w, err)
		}
	})
}
