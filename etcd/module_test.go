package etcd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/bootstrap/config"
	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"
)

func TestClientOptions_Validate(t *testing.T) {
	opts := ClientOptions{}
	assert.ErrorContains(t, opts.Validate(), "name is required")

	opts.Name = "default"
	assert.ErrorContains(t, opts.Validate(), "endpoints are required")

	opts.Endpoints = []string{"localhost:2379"}
	opts.DialTimeout = -time.Second
	assert.Error(t, opts.Validate())

	opts.DialTimeout = 0
	require.NoError(t, opts.Validate())
	assert.Equal(t, 5*time.Second, opts.clientConfig().DialTimeout)
}

func TestModule_Services(t *testing.T) {
	assert.Nil(t, Module{}.Services(config.New(nil)))

	cfg := config.New(map[string]any{
		"etcd": map[string]any{
			"clients": []any{
				map[string]any{"name": "default", "endpoints": []any{"localhost:2379"}, "dialTimeout": "2s"},
				map[string]any{"name": "assets", "endpoints": []any{"localhost:2380"}},
			},
		},
	})
	defs := Module{}.Services(cfg)
	require.Len(t, defs, 2)
	assert.Equal(t, di.TypeOf[*ClientFactory](), defs[0].Type)

	settings, err := config.Load[Settings](cfg, Section)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, settings.Clients[0].DialTimeout)
}

func TestModule_InvalidClientFailsInit(t *testing.T) {
	cfg := config.New(map[string]any{
		"etcd": map[string]any{
			"clients": []any{map[string]any{"name": "broken"}},
		},
	})

	defs := Module{}.Services(cfg)
	require.Len(t, defs, 1)

	c := di.New()
	err := c.Init(append(defs, di.Value(logging.Discard(), di.As[logging.Logger]()))...)
	assert.ErrorIs(t, err, di.ErrServiceCreation)
	assert.ErrorContains(t, err, "endpoints are required")
}

func TestClientFactory_Empty(t *testing.T) {
	f := NewClientFactory()
	_, err := f.Get("default")
	assert.Error(t, err)
	assert.Empty(t, f.Names())
	assert.NoError(t, f.Close())
}
