package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	// GIVEN: No config file in the test directory and no env
	t.Setenv("BILLBOARD_PORT", "")

	cfg, err := load(viper.New())

	require.NoError(t, err)
	def := Defaults()
	assert.Equal(t, def.Port, cfg.Port)
	assert.Equal(t, def.DBPath, cfg.DBPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "@every 1h", cfg.Pricing.RefreshSchedule)
	assert.Equal(t, def.CORS.AllowedOrigins, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "د.ل", cfg.Currency)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BILLBOARD_PORT", "9090")
	t.Setenv("BILLBOARD_DB", ":memory:")
	t.Setenv("BILLBOARD_LOG_FORMAT", "console")
	t.Setenv("BILLBOARD_PRICING_REFRESH_SCHEDULE", "*/15 * * * *")

	cfg, err := load(viper.New())

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBPath)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "*/15 * * * *", cfg.Pricing.RefreshSchedule)
}

func TestLoad_InvalidSchedule(t *testing.T) {
	t.Setenv("BILLBOARD_PRICING_REFRESH_SCHEDULE", "every so often")

	_, err := load(viper.New())

	assert.ErrorContains(t, err, "refresh_schedule")
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())

	cfg.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = Defaults()
	cfg.Pricing.RefreshSchedule = ""
	assert.NoError(t, cfg.Validate(), "empty schedule disables refresh")
}
