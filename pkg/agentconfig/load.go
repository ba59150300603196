package agentconfig

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables that override file values,
// e.g. TRACEKIT_WRITER_ENDPOINT for writer.endpoint.
const EnvPrefix = "TRACEKIT"

// Load reads the configuration file at path (YAML, JSON or TOML, chosen by
// extension) on top of Default, then applies environment overrides. An empty
// path skips the file.
func Load(path string) (*AgentTracerConfig, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AgentTracerConfig, error) {
	config := Default()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeConfig, err)
	}

	config.DisabledInstrumentations = normalizeList(config.DisabledInstrumentations)
	config.EnableCustomAnnotationTracingOver = normalizeList(config.EnableCustomAnnotationTracingOver)

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// setDefaults registers every key so that environment overrides apply even
// when the file does not mention the key.
func setDefaults(v *viper.Viper, d *AgentTracerConfig) {
	v.SetDefault("service_name", d.ServiceName)
	v.SetDefault("service_version", d.ServiceVersion)
	v.SetDefault("environment", d.Environment)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("writer.type", d.Writer.Type)
	v.SetDefault("writer.endpoint", d.Writer.Endpoint)
	v.SetDefault("writer.protocol", d.Writer.Protocol)
	v.SetDefault("writer.insecure", d.Writer.Insecure)
	v.SetDefault("sampler.type", d.Sampler.Type)
	v.SetDefault("sampler.rate", d.Sampler.Rate)
	v.SetDefault("disabled_instrumentations", d.DisabledInstrumentations)
	v.SetDefault("enable_custom_annotation_tracing_over", d.EnableCustomAnnotationTracingOver)
}

// normalizeList trims entries, drops empty ones and never returns nil.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	return out
}
