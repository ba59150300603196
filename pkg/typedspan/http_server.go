package typedspan

import (
	"context"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// HTTPServer builds spans following the HTTP server convention.
type HTTPServer struct {
	span observability.Span
}

var _ Convention = (*HTTPServer)(nil)

// NewHTTPServer wraps an existing span.
func NewHTTPServer(span observability.Span) *HTTPServer {
	return &HTTPServer{span: span}
}

// StartHTTPServer starts a server span and wraps it.
func StartHTTPServer(ctx context.Context, tracer observability.Tracer, name string, opts ...observability.SpanOption) (context.Context, *HTTPServer) {
	opts = append([]observability.SpanOption{observability.WithSpanKind(observability.SpanKindServer)}, opts...)
	ctx, span := tracer.Start(ctx, name, opts...)
	return ctx, NewHTTPServer(span)
}

func (b *HTTPServer) End() {
	b.span.End()
}

func (b *HTTPServer) Span() observability.Span {
	return b.span
}

func (b *HTTPServer) setString(key, value string) *HTTPServer {
	b.span.SetAttributes(observability.String(key, value))
	return b
}

func (b *HTTPServer) setInt(key string, value int64) *HTTPServer {
	b.span.SetAttributes(observability.Int64(key, value))
	return b
}

// SetHTTPMethod sets http.method.
func (b *HTTPServer) SetHTTPMethod(httpMethod string) *HTTPServer {
	return b.setString(HTTPMethodKey, httpMethod)
}

// SetHTTPURL sets http.url, the full request URL.
func (b *HTTPServer) SetHTTPURL(httpURL string) *HTTPServer {
	return b.setString(HTTPURLKey, httpURL)
}

// SetHTTPTarget sets http.target, the path and query of the request.
func (b *HTTPServer) SetHTTPTarget(httpTarget string) *HTTPServer {
	return b.setString(HTTPTargetKey, httpTarget)
}

// SetHTTPHost sets http.host, the Host header value.
func (b *HTTPServer) SetHTTPHost(httpHost string) *HTTPServer {
	return b.setString(HTTPHostKey, httpHost)
}

// SetHTTPScheme sets http.scheme.
func (b *HTTPServer) SetHTTPScheme(httpScheme string) *HTTPServer {
	return b.setString(HTTPSchemeKey, httpScheme)
}

// SetHTTPStatusCode sets http.status_code.
func (b *HTTPServer) SetHTTPStatusCode(httpStatusCode int64) *HTTPServer {
	return b.setInt(HTTPStatusCodeKey, httpStatusCode)
}

// SetHTTPFlavor sets http.flavor, e.g. "1.1" or "2".
func (b *HTTPServer) SetHTTPFlavor(httpFlavor string) *HTTPServer {
	return b.setString(HTTPFlavorKey, httpFlavor)
}

// SetHTTPUserAgent sets http.user_agent.
func (b *HTTPServer) SetHTTPUserAgent(httpUserAgent string) *HTTPServer {
	return b.setString(HTTPUserAgentKey, httpUserAgent)
}

// SetHTTPRequestContentLength sets http.request_content_length.
func (b *HTTPServer) SetHTTPRequestContentLength(length int64) *HTTPServer {
	return b.setInt(HTTPRequestContentLengthKey, length)
}

// SetHTTPServerName sets http.server_name.
func (b *HTTPServer) SetHTTPServerName(httpServerName string) *HTTPServer {
	return b.setString(HTTPServerNameKey, httpServerName)
}

// SetHTTPRoute sets http.route, the matched route template.
func (b *HTTPServer) SetHTTPRoute(httpRoute string) *HTTPServer {
	return b.setString(HTTPRouteKey, httpRoute)
}

// SetHTTPClientIP sets http.client_ip, the original client address.
func (b *HTTPServer) SetHTTPClientIP(httpClientIP string) *HTTPServer {
	return b.setString(HTTPClientIPKey, httpClientIP)
}

// SetNetHostName sets net.host.name.
func (b *HTTPServer) SetNetHostName(netHostName string) *HTTPServer {
	return b.setString(NetHostNameKey, netHostName)
}

// SetNetHostPort sets net.host.port.
func (b *HTTPServer) SetNetHostPort(netHostPort int64) *HTTPServer {
	return b.setInt(NetHostPortKey, netHostPort)
}

// SetNetPeerIP sets net.peer.ip.
func (b *HTTPServer) SetNetPeerIP(netPeerIP string) *HTTPServer {
	return b.setString(NetPeerIPKey, netPeerIP)
}

// SetNetPeerPort sets net.peer.port.
func (b *HTTPServer) SetNetPeerPort(netPeerPort int64) *HTTPServer {
	return b.setInt(NetPeerPortKey, netPeerPort)
}
