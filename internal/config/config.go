package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// SizingMode selects how mirrored positions are sized
type SizingMode string

const (
	SizingFixed        SizingMode = "fixed"
	SizingProportional SizingMode = "proportional"
	SizingTierBased    SizingMode = "tier"
)

// Config holds the complete bot configuration, loaded once at startup
type Config struct {
	// Accounts
	WalletsToTrack []string
	YourWallet     string
	PrivateKey     string

	// Endpoints
	PolymarketAPI string
	WSURL         string
	RPCURL        string

	// Sizing
	SizingMode        SizingMode
	FixedStake        float64
	ProportionalRatio float64
	MinStake          float64
	MaxStake          float64

	// Risk
	MaxExposurePerEvent  float64
	MaxDailyVolume       float64
	MinLiquidity         float64
	CBConsecutiveTrigger int
	CBMinDepthUSD        float64

	// Execution
	RetryAttempts int
	RetryDelay    time.Duration

	// HTTP client timeout for exchange API calls
	APITimeout time.Duration

	Monitoring struct {
		PrometheusPort int
		HealthPort     int
	}

	Notifications struct {
		TelegramToken  string
		TelegramChatID string
	}

	// Trade journal output directory
	JournalDir string
}

// Load reads configuration from the environment. A .env file at envFile is
// loaded first when present; real environment variables win over it.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		// Missing .env is fine, the environment may carry everything
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{
		WalletsToTrack: splitList(getEnv("WALLETS_TO_TRACK", "")),
		YourWallet:     getEnv("YOUR_WALLET", ""),
		PrivateKey:     getEnv("PRIVATE_KEY", ""),

		PolymarketAPI: getEnv("POLYMARKET_API", "https://api.polymarket.com"),
		WSURL:         getEnv("WS_URL", "wss://ws-subscriptions-clob.polymarket.com/ws"),
		RPCURL:        getEnv("RPC_URL", ""),

		SizingMode:        parseSizingMode(getEnv("SIZING_MODE", "fixed")),
		FixedStake:        getEnvFloat("FIXED_STAKE", 25.0),
		ProportionalRatio: getEnvFloat("PROPORTIONAL_RATIO", 0.02),
		MinStake:          getEnvFloat("MIN_STAKE", 5.0),
		MaxStake:          getEnvFloat("MAX_STAKE", 100.0),

		MaxExposurePerEvent:  getEnvFloat("MAX_EXPOSURE_PER_EVENT", 500.0),
		MaxDailyVolume:       getEnvFloat("MAX_DAILY_VOLUME", 2000.0),
		MinLiquidity:         getEnvFloat("MIN_LIQUIDITY", 1000.0),
		CBConsecutiveTrigger: getEnvInt("CB_CONSECUTIVE_TRIGGER", 3),
		CBMinDepthUSD:        getEnvFloat("CB_MIN_DEPTH_USD", 100.0),

		RetryAttempts: getEnvInt("RETRY_ATTEMPTS", 4),
		RetryDelay:    time.Duration(getEnvInt("RETRY_DELAY_MS", 500)) * time.Millisecond,

		APITimeout: getEnvDuration("API_TIMEOUT", 10*time.Second),

		JournalDir: getEnv("JOURNAL_DIR", "reports"),
	}

	cfg.Monitoring.PrometheusPort = getEnvInt("PROMETHEUS_PORT", 9090)
	cfg.Monitoring.HealthPort = getEnvInt("HEALTH_PORT", 9091)
	cfg.Notifications.TelegramToken = getEnv("TELEGRAM_TOKEN", "")
	cfg.Notifications.TelegramChatID = getEnv("TELEGRAM_CHAT_ID", "")

	return cfg, nil
}

// Validate checks the configuration before any watcher starts
func (c *Config) Validate() error {
	if len(c.WalletsToTrack) == 0 {
		return fmt.Errorf("no wallets to track configured (WALLETS_TO_TRACK)")
	}
	if c.YourWallet == "" {
		return fmt.Errorf("YOUR_WALLET not configured")
	}
	if len(c.PrivateKey) < 64 {
		return fmt.Errorf("invalid PRIVATE_KEY: must be at least 64 characters")
	}
	if c.FixedStake < c.MinStake {
		return fmt.Errorf("FIXED_STAKE (%.2f) must be >= MIN_STAKE (%.2f)", c.FixedStake, c.MinStake)
	}
	if c.MaxStake < c.MinStake {
		return fmt.Errorf("MAX_STAKE (%.2f) must be >= MIN_STAKE (%.2f)", c.MaxStake, c.MinStake)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	return nil
}

func parseSizingMode(s string) SizingMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "proportional":
		return SizingProportional
	case "tier", "tierbased":
		return SizingTierBased
	default:
		return SizingFixed
	}
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}
