// Package agentconfig holds the agent's tracer configuration: which
// instrumentations are switched off and which annotations opt methods into
// custom tracing. Instrumentations read it and never change it.
package agentconfig

import (
	"strings"

	"github.com/JailtonJunior94/tracekit/pkg/observability"
	tkotel "github.com/JailtonJunior94/tracekit/pkg/observability/otel"
)

// Sampler types.
const (
	SamplerAll  = "all"
	SamplerRate = "rate"
)

// Writer types.
const (
	WriterOTLP    = "otlp"
	WriterLogging = "logging"
)

// Instrumentation names understood by the instrumentations in this module.
const (
	InstrumentationRedis      = "redis"
	InstrumentationSQL        = "sql"
	InstrumentationHTTPServer = "http-server"
)

// WriterConfig selects where finished spans are written.
type WriterConfig struct {
	Type     string `mapstructure:"type"`
	Endpoint string `mapstructure:"endpoint"`
	Protocol string `mapstructure:"protocol"`
	Insecure bool   `mapstructure:"insecure"`
}

// SamplerConfig selects which traces are kept.
type SamplerConfig struct {
	Type string  `mapstructure:"type"`
	Rate float64 `mapstructure:"rate"`
}

// TracerConfig is the part of the configuration shared by every tracer.
type TracerConfig struct {
	ServiceName    string        `mapstructure:"service_name"`
	ServiceVersion string        `mapstructure:"service_version"`
	Environment    string        `mapstructure:"environment"`
	LogLevel       string        `mapstructure:"log_level"`
	Writer         WriterConfig  `mapstructure:"writer"`
	Sampler        SamplerConfig `mapstructure:"sampler"`
}

// AgentTracerConfig extends TracerConfig with the agent's instrumentation
// switches. Both lists are never nil.
type AgentTracerConfig struct {
	TracerConfig `mapstructure:",squash"`

	DisabledInstrumentations          []string `mapstructure:"disabled_instrumentations"`
	EnableCustomAnnotationTracingOver []string `mapstructure:"enable_custom_annotation_tracing_over"`
}

// Default returns a configuration with every instrumentation enabled, no
// custom annotations and all traces sampled.
func Default() *AgentTracerConfig {
	return &AgentTracerConfig{
		TracerConfig: TracerConfig{
			ServiceName:    "unnamed-service",
			ServiceVersion: "unknown",
			Environment:    "development",
			LogLevel:       string(observability.LogLevelInfo),
			Writer: WriterConfig{
				Type:     WriterOTLP,
				Endpoint: "localhost:4317",
				Protocol: string(tkotel.ProtocolGRPC),
			},
			Sampler: SamplerConfig{
				Type: SamplerAll,
				Rate: 1.0,
			},
		},
		DisabledInstrumentations:          []string{},
		EnableCustomAnnotationTracingOver: []string{},
	}
}

// InstrumentationEnabled reports whether the named instrumentation is not in
// the disabled list. Names compare case-insensitively.
func (c *AgentTracerConfig) InstrumentationEnabled(name string) bool {
	for _, disabled := range c.DisabledInstrumentations {
		if strings.EqualFold(strings.TrimSpace(disabled), name) {
			return false
		}
	}
	return true
}

// CustomAnnotationTraced reports whether methods carrying the named
// annotation are traced.
func (c *AgentTracerConfig) CustomAnnotationTraced(annotation string) bool {
	for _, name := range c.EnableCustomAnnotationTracingOver {
		if strings.TrimSpace(name) == annotation {
			return true
		}
	}
	return false
}

// SampleRate returns the effective trace sample rate.
func (c *TracerConfig) SampleRate() float64 {
	if strings.EqualFold(c.Sampler.Type, SamplerRate) {
		return c.Sampler.Rate
	}
	return 1.0
}

// OTelConfig maps the tracer configuration onto the OpenTelemetry provider
// configuration. The logging writer maps to a console-only log format.
func (c *TracerConfig) OTelConfig() *tkotel.Config {
	config := tkotel.DefaultConfig(c.ServiceName)
	config.ServiceVersion = c.ServiceVersion
	config.Environment = c.Environment
	config.OTLPEndpoint = c.Writer.Endpoint
	config.OTLPProtocol = tkotel.ParseProtocol(c.Writer.Protocol)
	config.Insecure = c.Writer.Insecure
	config.TraceSampleRate = c.SampleRate()
	if c.LogLevel != "" {
		config.LogLevel = observability.LogLevel(strings.ToLower(c.LogLevel))
	}
	if strings.EqualFold(c.Writer.Type, WriterLogging) {
		config.LogFormat = observability.LogFormatText
	}
	return config
}

func (c *AgentTracerConfig) validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return ErrEmptyServiceName
	}
	if c.Sampler.Rate < 0 || c.Sampler.Rate > 1 {
		return ErrInvalidSampler
	}
	return nil
}
