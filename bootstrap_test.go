package bootstrap_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/bootstrap"
	"github.com/gocrud/bootstrap/config"
	"github.com/gocrud/bootstrap/core"
	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"
)

type windowOptions struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type window struct {
	di.Singleton
	Options windowOptions
	Logger  logging.Logger
	Opened  bool
}

func (w *window) Open() { w.Opened = true }

func newWindow(cfg config.Configuration, logger logging.Logger) (*window, error) {
	opts, err := config.Load[windowOptions](cfg, "window")
	if err != nil {
		return nil, err
	}
	return &window{Options: opts, Logger: logger}, nil
}

type windowModule struct{}

func (windowModule) Name() string { return "window" }

func (windowModule) Services(config.Configuration) []*di.ServiceDefinition {
	return []*di.ServiceDefinition{di.Provide(newWindow)}
}

func captureLogs(buf *bytes.Buffer) core.Option {
	return core.WithLogging(func(b *logging.LoggingBuilder) {
		b.AddConsole(logging.ConsoleLoggerOptions{Output: buf})
	})
}

func TestBoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bootstrap:
  logging:
    level: debug
  container:
    hook: Open
window:
  width: 1280
  height: 720
  title: demo
`), 0o644))
	t.Setenv("BOOTTEST_WINDOW_TITLE", "from-env")

	var buf bytes.Buffer
	rt, err := bootstrap.Boot(
		core.WithConfigFile(path),
		core.WithEnvironment("BOOTTEST_"),
		core.WithModules(windowModule{}),
		captureLogs(&buf),
	)
	require.NoError(t, err)

	w := di.MustResolve[*window](rt.Container)
	assert.Equal(t, windowOptions{Width: 1280, Height: 720, Title: "from-env"}, w.Options)
	assert.True(t, w.Opened)
	assert.Same(t, rt, di.MustResolve[*core.Runtime](rt.Container))
	assert.Same(t, rt.Configuration, di.MustResolve[config.Configuration](rt.Container))

	logs := buf.String()
	assert.Contains(t, logs, "DEBUG [bootstrap] module loaded {module=window, services=1}")
	assert.Contains(t, logs, "DEBUG [di] registered service {service=*bootstrap_test.window")
	assert.Contains(t, logs, "INFO [bootstrap] bootstrap completed {container="+rt.Container.ID())
}

type brokenA struct {
	di.Singleton
	B *brokenB
}

type brokenB struct {
	di.Singleton
	A *brokenA
}

func TestBoot_FailsFast(t *testing.T) {
	var buf bytes.Buffer
	rt, err := bootstrap.Boot(
		core.WithServices(
			di.Provide(func(b *brokenB) *brokenA { return &brokenA{B: b} }),
			di.Provide(func(a *brokenA) *brokenB { return &brokenB{A: a} }),
		),
		captureLogs(&buf),
	)
	require.ErrorIs(t, err, di.ErrCircularDependency)
	assert.Nil(t, rt)
	assert.True(t, strings.HasPrefix(err.Error(), "bootstrap: di: circular dependency"))
	assert.Contains(t, buf.String(), "ERROR [bootstrap] bootstrap failed")

	assert.Panics(t, func() {
		bootstrap.MustBoot(core.WithSettings(map[string]any{
			"bootstrap": map[string]any{"logging": map[string]any{"level": "loud"}},
		}))
	})
}
