package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SUPPORTDESK_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "supportdesk", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.True(t, decimal.RequireFromString("20").Equal(cfg.Booking.SameDayFee))
	assert.True(t, decimal.RequireFromString("30").Equal(cfg.Booking.FutureDayFee))
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "supportdesk.yaml")
	content := []byte(`
http:
  addr: ":9090"
pricing:
  timezone: America/New_York
booking:
  same_day_fee: 25.5
  future_day_fee: "35"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("SUPPORTDESK_LOG_LEVEL", "debug")
	t.Setenv("SUPPORTDESK_BOOKING_FUTURE_DAY_FEE", "40.25")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "25.5", cfg.Booking.SameDayFee.String())
	assert.Equal(t, "40.25", cfg.Booking.FutureDayFee.String())
	assert.Equal(t, "America/New_York", cfg.Location().String())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("SUPPORTDESK_DATABASE_DRIVER", "oracle")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsNegativeFee(t *testing.T) {
	t.Setenv("SUPPORTDESK_BOOKING_SAME_DAY_FEE", "-1")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRejectsUnknownTimezone(t *testing.T) {
	t.Setenv("SUPPORTDESK_PRICING_TIMEZONE", "America/NewYork")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricing.timezone")
}
