package httpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/leakguard"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/typedspan"
)

type ContextKey string

const (
	ContextKeyRequestID ContextKey = "request-id"
	HeaderRequestID                = "X-Request-ID"
)

// RequestID stores a UUIDv7 request id in the context and echoes it in the
// X-Request-ID response header. An incoming X-Request-ID is kept.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(HeaderRequestID)
		if requestID == "" {
			requestID = newRequestID()
		}

		w.Header().Set(HeaderRequestID, requestID)
		ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

// GetRequestID returns the request id, or "" when none was set.
func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	requestID, _ := ctx.Value(ContextKeyRequestID).(string)
	return requestID
}

// Recovery turns a handler panic into a 500 and logs it with the stack.
func Recovery(logger observability.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				logger.Error(r.Context(), "panic recovered",
					observability.String("request_id", GetRequestID(r.Context())),
					observability.String("panic", fmt.Sprint(recovered)),
					observability.String("stack", string(debug.Stack())),
				)
				// The client already holds the handler's status line.
				if !recorder.wroteHeader {
					recorder.WriteHeader(http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(recorder, r)
		})
	}
}

// LeakGuard runs every request inside guard. Install it outermost so the
// marker span is the root of the request's trace.
func LeakGuard(guard *leakguard.Guard, enabled bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = guard.Run(r.Context(), enabled, func(ctx context.Context) error {
				next.ServeHTTP(w, r.WithContext(ctx))
				return nil
			})
		})
	}
}

// ServerSpan wraps every request in an HTTPServer span named after the
// method. It is a pass-through when the agent configuration disables the
// "http-server" instrumentation.
func ServerSpan(tracer observability.Tracer, config *agentconfig.AgentTracerConfig, serverName string) Middleware {
	if config != nil && !config.InstrumentationEnabled(agentconfig.InstrumentationHTTPServer) {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := typedspan.StartHTTPServer(r.Context(), tracer, "HTTP "+r.Method)
			defer span.End()
			setRequestAttributes(span, r, serverName)

			// chi fills a route context found in the request instead of
			// allocating its own, which leaves the pattern readable here.
			routeCtx := chi.NewRouteContext()
			ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r.WithContext(ctx))

			span.SetHTTPStatusCode(int64(recorder.status))
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				span.SetHTTPRoute(pattern)
			}
			if recorder.status >= http.StatusInternalServerError {
				span.Span().SetStatus(observability.StatusCodeError, http.StatusText(recorder.status))
			}
		})
	}
}

func setRequestAttributes(span *typedspan.HTTPServer, r *http.Request, serverName string) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	span.SetHTTPMethod(r.Method).
		SetHTTPScheme(scheme).
		SetHTTPHost(r.Host).
		SetHTTPTarget(r.URL.RequestURI()).
		SetHTTPURL(scheme + "://" + r.Host + r.URL.RequestURI()).
		SetHTTPFlavor(strings.TrimPrefix(r.Proto, "HTTP/")).
		SetHTTPClientIP(clientIP(r))

	if ua := r.UserAgent(); ua != "" {
		span.SetHTTPUserAgent(ua)
	}
	if r.ContentLength > 0 {
		span.SetHTTPRequestContentLength(r.ContentLength)
	}
	if serverName != "" {
		span.SetHTTPServerName(serverName)
	}

	if host, port, ok := splitHostPort(r.Host); ok {
		span.SetNetHostName(host).SetNetHostPort(port)
	} else if r.Host != "" {
		span.SetNetHostName(r.Host)
	}
	if ip, port, ok := splitHostPort(r.RemoteAddr); ok {
		span.SetNetPeerIP(ip).SetNetPeerPort(port)
	}
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the
// remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func splitHostPort(hostport string) (string, int64, bool) {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return "", 0, false
	}
	p, err := strconv.ParseInt(port, 10, 64)
	if err != nil {
		return "", 0, false
	}
	return host, p, true
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wroteHeader {
		r.status = code
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
