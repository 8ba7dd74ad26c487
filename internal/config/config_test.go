package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("WALLETS_TO_TRACK", "0xwhale,0xshark")
	t.Setenv("YOUR_WALLET", "0xme")
	t.Setenv("PRIVATE_KEY", strings.Repeat("a", 64))
}

// TestLoad_Defaults tests that every tunable falls back to its documented
// default when the environment is silent
func TestLoad_Defaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"0xwhale", "0xshark"}, cfg.WalletsToTrack)
	assert.Equal(t, "https://api.polymarket.com", cfg.PolymarketAPI)
	assert.Equal(t, "wss://ws-subscriptions-clob.polymarket.com/ws", cfg.WSURL)

	assert.Equal(t, SizingFixed, cfg.SizingMode)
	assert.InDelta(t, 25.0, cfg.FixedStake, 1e-9)
	assert.InDelta(t, 0.02, cfg.ProportionalRatio, 1e-9)
	assert.InDelta(t, 5.0, cfg.MinStake, 1e-9)
	assert.InDelta(t, 100.0, cfg.MaxStake, 1e-9)

	assert.InDelta(t, 500.0, cfg.MaxExposurePerEvent, 1e-9)
	assert.InDelta(t, 2000.0, cfg.MaxDailyVolume, 1e-9)
	assert.InDelta(t, 1000.0, cfg.MinLiquidity, 1e-9)
	assert.Equal(t, 3, cfg.CBConsecutiveTrigger)
	assert.InDelta(t, 100.0, cfg.CBMinDepthUSD, 1e-9)

	assert.Equal(t, 4, cfg.RetryAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)

	assert.Equal(t, 9090, cfg.Monitoring.PrometheusPort)
	assert.Equal(t, 9091, cfg.Monitoring.HealthPort)
	assert.Equal(t, "reports", cfg.JournalDir)
}

// TestLoad_Overrides tests that environment values win over defaults
func TestLoad_Overrides(t *testing.T) {
	validEnv(t)
	t.Setenv("SIZING_MODE", "proportional")
	t.Setenv("FIXED_STAKE", "50")
	t.Setenv("RETRY_ATTEMPTS", "2")
	t.Setenv("RETRY_DELAY_MS", "250")
	t.Setenv("API_TIMEOUT", "5s")
	t.Setenv("PROMETHEUS_PORT", "19090")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, SizingProportional, cfg.SizingMode)
	assert.InDelta(t, 50.0, cfg.FixedStake, 1e-9)
	assert.Equal(t, 2, cfg.RetryAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, 19090, cfg.Monitoring.PrometheusPort)
}

// TestLoad_MalformedNumbersFallBack tests that unparsable numeric values
// fall back to defaults instead of failing the load
func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	validEnv(t)
	t.Setenv("RETRY_ATTEMPTS", "many")
	t.Setenv("FIXED_STAKE", "a lot")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.RetryAttempts)
	assert.InDelta(t, 25.0, cfg.FixedStake, 1e-9)
}

func TestParseSizingMode(t *testing.T) {
	assert.Equal(t, SizingFixed, parseSizingMode("fixed"))
	assert.Equal(t, SizingProportional, parseSizingMode("Proportional"))
	assert.Equal(t, SizingTierBased, parseSizingMode("tier"))
	assert.Equal(t, SizingTierBased, parseSizingMode("TierBased"))
	assert.Equal(t, SizingFixed, parseSizingMode("unknown"))
	assert.Equal(t, SizingFixed, parseSizingMode(""))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList("  "))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b , "))
}

// TestValidate tests each startup precondition in isolation
func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			WalletsToTrack: []string{"0xwhale"},
			YourWallet:     "0xme",
			PrivateKey:     strings.Repeat("a", 64),
			FixedStake:     25,
			MinStake:       5,
			MaxStake:       100,
			RetryAttempts:  4,
		}
	}

	require.NoError(t, base().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"no wallets", func(c *Config) { c.WalletsToTrack = nil }, "WALLETS_TO_TRACK"},
		{"no own wallet", func(c *Config) { c.YourWallet = "" }, "YOUR_WALLET"},
		{"short private key", func(c *Config) { c.PrivateKey = "abc" }, "PRIVATE_KEY"},
		{"fixed stake below min", func(c *Config) { c.FixedStake = 1 }, "FIXED_STAKE"},
		{"max below min", func(c *Config) { c.MaxStake = 1 }, "MAX_STAKE"},
		{"zero retries", func(c *Config) { c.RetryAttempts = 0 }, "RETRY_ATTEMPTS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
