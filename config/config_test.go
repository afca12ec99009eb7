package config_test

import (
	"testing"
	"time"

	"github.com/arjunvbhat/wex/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "wex", c.ServiceName)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "stdout", c.OtelExporter)
	assert.Equal(t, 5*time.Second, c.ReadTimeout)
	assert.Equal(t, 10*time.Second, c.WriteTimeout)
	assert.Equal(t, 120*time.Second, c.IdleTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("WEX_SERVICE_NAME", "checkout")
	t.Setenv("WEX_ADDR", ":9090")
	t.Setenv("WEX_LOG_LEVEL", "debug")

	c, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "checkout", c.ServiceName)
	assert.Equal(t, ":9090", c.Addr)
	assert.Equal(t, "debug", c.LogLevel.String())
}
