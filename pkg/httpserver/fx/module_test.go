package httpserverfx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/JailtonJunior94/tracekit/pkg/agentconfig"
	"github.com/JailtonJunior94/tracekit/pkg/httpserver"
	httpserverfx "github.com/JailtonJunior94/tracekit/pkg/httpserver/fx"
	"github.com/JailtonJunior94/tracekit/pkg/leakguard"
	"github.com/JailtonJunior94/tracekit/pkg/observability"
	"github.com/JailtonJunior94/tracekit/pkg/observability/fake"
)

func hello(w http.ResponseWriter, _ *http.Request) error {
	_, err := w.Write([]byte("hello"))
	return err
}

func TestModule(t *testing.T) {
	provider := fake.NewProvider()
	var (
		server httpserver.Server
		guard  *leakguard.Guard
	)

	app := fxtest.New(t,
		httpserverfx.Module,
		fx.Provide(func() observability.Observability { return provider }),
		fx.Supply(httpserverfx.Config{Port: "0", TestMode: true, ShutdownTimeout: time.Second}),
		fx.Provide(fx.Annotate(
			httpserverfx.ProvideRoute(http.MethodGet, "/hello", hello),
			fx.ResultTags(`group:"routes"`),
		)),
		fx.Provide(fx.Annotate(
			httpserverfx.ProvideMiddleware(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					w.Header().Set("X-Wired", "yes")
					next.ServeHTTP(w, r)
				})
			}),
			fx.ResultTags(`group:"middlewares"`),
		)),
		fx.Populate(&server, &guard),
	)
	app.RequireStart()
	defer app.RequireStop()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "yes", rec.Header().Get("X-Wired"))

	markers := provider.FakeTracer().SpansNamed(leakguard.DefaultSpanName)
	require.Len(t, markers, 1)
	assert.True(t, markers[0].Ended())
	assert.Zero(t, guard.Leaks())
}

func TestModuleHonorsAgentConfig(t *testing.T) {
	provider := fake.NewProvider()
	config := agentconfig.Default()
	config.DisabledInstrumentations = []string{agentconfig.InstrumentationHTTPServer}
	var server httpserver.Server

	app := fxtest.New(t,
		httpserverfx.Module,
		fx.Provide(func() observability.Observability { return provider }),
		fx.Supply(config, httpserverfx.Config{Port: "0"}),
		fx.Provide(fx.Annotate(
			httpserverfx.ProvideRoute(http.MethodGet, "/hello", hello),
			fx.ResultTags(`group:"routes"`),
		)),
		fx.Populate(&server),
	)
	app.RequireStart()
	defer app.RequireStop()

	server.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))

	assert.Empty(t, provider.FakeTracer().GetSpans())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("TRACEKIT_HTTP_PORT", "9090")
	t.Setenv("TRACEKIT_HTTP_SERVER_NAME", "orders")
	t.Setenv("TRACEKIT_HTTP_TEST_MODE", "true")
	t.Setenv("TRACEKIT_HTTP_SHUTDOWN_TIMEOUT", "5s")

	config := httpserverfx.ConfigFromEnv()

	assert.Equal(t, "9090", config.Port)
	assert.Equal(t, "orders", config.ServerName)
	assert.True(t, config.TestMode)
	assert.Equal(t, 5*time.Second, config.ShutdownTimeout)
	assert.Zero(t, config.ReadTimeout)
}

func TestConfigFromEnvDefaults(t *testing.T) {
	config := httpserverfx.ConfigFromEnv()

	assert.Equal(t, "8080", config.Port)
	assert.False(t, config.TestMode)
}
