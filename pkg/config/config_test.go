package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wms-ingresos/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 30*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 10*1024*1024, cfg.Gateway.MaxPayloadBytes)
	assert.Equal(t, 1000, cfg.Gateway.MaxFieldLength)
	assert.Equal(t, 3, cfg.Gateway.ReadRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.Gateway.RetryBaseDelay)
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvGana(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GATEWAY_TIMEOUT", "5s")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x?sslmode=disable")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Gateway.Timeout)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.Migrate)
	assert.Equal(t, "postgres://u:p@db:5432/x?sslmode=disable", cfg.DB.ConnectionString())
}

func TestLoad_TimeoutInvalido(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GATEWAY_TIMEOUT", "0s")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "h", Port: 5432, User: "u", Password: "p@ss/word", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%2Fword@h:5432/d?sslmode=disable", c.DSN())
}

func TestLoad_RetardoReintentoInvalido(t *testing.T) {
	for _, delay := range []string{"0s", "-1s"} {
		t.Run(delay, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("GATEWAY_RETRY_BASE_DELAY", delay)

			_, err := config.Load()
			assert.ErrorContains(t, err, "GATEWAY_RETRY_BASE_DELAY")
		})
	}
}

func TestLoad_SinReintentosAceptaRetardoCero(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GATEWAY_READ_RETRIES", "0")
	t.Setenv("GATEWAY_RETRY_BASE_DELAY", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.Gateway.ReadRetries)
}
