package httpserverfx

import (
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
)

// Config configures the server. Zero durations keep the server defaults.
type Config struct {
	Port       string
	ServerName string
	// TestMode activates the leak guard on every request.
	TestMode          bool
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// ConfigModule provides Config from TRACEKIT_HTTP_* environment variables:
// PORT, SERVER_NAME, TEST_MODE and the READ, WRITE, IDLE, READ_HEADER and
// SHUTDOWN timeouts as Go durations ("15s").
var ConfigModule = fx.Provide(ConfigFromEnv)

// ConfigFromEnv reads Config from the environment.
func ConfigFromEnv() Config {
	v := viper.New()
	v.SetEnvPrefix("TRACEKIT_HTTP")
	v.AutomaticEnv()
	v.SetDefault("port", "8080")

	return Config{
		Port:              v.GetString("port"),
		ServerName:        v.GetString("server_name"),
		TestMode:          v.GetBool("test_mode"),
		ReadTimeout:       v.GetDuration("read_timeout"),
		WriteTimeout:      v.GetDuration("write_timeout"),
		IdleTimeout:       v.GetDuration("idle_timeout"),
		ReadHeaderTimeout: v.GetDuration("read_header_timeout"),
		ShutdownTimeout:   v.GetDuration("shutdown_timeout"),
	}
}

// AgentConfigModule provides the agent configuration loaded from path.
func AgentConfigModule(path string) fx.Option {
	return fx.Provide(func() (*agentconfig.AgentTracerConfig, error) {
		return agentconfig.Load(path)
	})
}
