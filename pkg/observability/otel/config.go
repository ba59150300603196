package otel

import (
	"crypto/tls"
	"errors"
	"strings"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
)

// OTLPProtocol is the transport used to export telemetry.
type OTLPProtocol string

const (
	// ProtocolGRPC exports over gRPC (default port 4317).
	ProtocolGRPC OTLPProtocol = "grpc"
	// ProtocolHTTP exports over HTTP/protobuf (default port 4318).
	ProtocolHTTP OTLPProtocol = "http"
)

var (
	ErrNilConfig            = errors.New("otel: config cannot be nil")
	ErrInsecureInProduction = errors.New("otel: insecure connections are not allowed in production environment")
	ErrTLSVersionTooLow     = errors.New("otel: minimum TLS version must be 1.2 or higher")
	ErrEmptyServiceName     = errors.New("otel: service name cannot be empty")
)

// Config configures the OpenTelemetry provider.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	OTLPEndpoint   string
	OTLPProtocol   OTLPProtocol

	// Insecure disables transport security. Rejected in production.
	Insecure  bool
	TLSConfig *tls.Config

	// TraceSampleRate is clamped to [0, 1].
	TraceSampleRate float64

	LogLevel  observability.LogLevel
	LogFormat observability.LogFormat

	ResourceAttributes map[string]string
}

// DefaultConfig returns a configuration exporting to a local collector over
// gRPC, sampling every trace.
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName:     serviceName,
		ServiceVersion:  "unknown",
		Environment:     "development",
		OTLPEndpoint:    "localhost:4317",
		OTLPProtocol:    ProtocolGRPC,
		TraceSampleRate: 1.0,
		LogLevel:        observability.LogLevelInfo,
		LogFormat:       observability.LogFormatJSON,
	}
}

// ParseProtocol maps "http" and "http/protobuf" to ProtocolHTTP and anything
// else to ProtocolGRPC.
func ParseProtocol(protocol string) OTLPProtocol {
	switch strings.ToLower(protocol) {
	case "http", "http/protobuf":
		return ProtocolHTTP
	default:
		return ProtocolGRPC
	}
}

func isProduction(environment string) bool {
	switch strings.ToLower(environment) {
	case "production", "prod":
		return true
	default:
		return false
	}
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return ErrEmptyServiceName
	}
	if c.Insecure && isProduction(c.Environment) {
		return ErrInsecureInProduction
	}
	if c.TLSConfig != nil && c.TLSConfig.MinVersion > 0 && c.TLSConfig.MinVersion < tls.VersionTLS12 {
		return ErrTLSVersionTooLow
	}
	return nil
}
