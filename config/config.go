package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// External service configurations
	Alpaca  AlpacaConfig
	Tradier TradierConfig

	// Analytics engine configuration
	Engine EngineConfig

	// Daily picks scheduler configuration
	Scheduler SchedulerConfig

	// HTTP configuration
	HTTP HTTPConfig

	// Production toggles JSON log output
	Production bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// AlpacaConfig holds Alpaca API configuration (price history, quotes, clock)
type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

// TradierConfig holds Tradier API configuration (option chains)
type TradierConfig struct {
	Token       string
	BaseURL     string
	Expirations int // how many near expirations to fetch per chain
}

// EngineConfig holds the analytics engine parameters
type EngineConfig struct {
	RiskFreeRate  float64  // annualized, as a fraction (default 0.05)
	LegsPerSymbol int      // cheapest legs considered per symbol (default 2)
	ScenarioLegs  int      // legs evaluated by the trade-scenario surface
	TopK          int      // global result truncation (default 10)
	LookbackDays  int      // price history window for indicators
	Watchlist     []string // symbols scanned by top10/scanner/daily picks
}

// SchedulerConfig holds the daily picks job configuration
type SchedulerConfig struct {
	Enabled  bool
	CronExpr string // weekday-morning schedule for daily picks
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Addr               string
	CORSAllowedOrigins string
	TimeoutSeconds     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Alpaca: AlpacaConfig{
			APIKey:    os.Getenv("ALPACA_API_KEY"),
			APISecret: os.Getenv("ALPACA_API_SECRET"),
			BaseURL:   getEnvString("ALPACA_BASE_URL", "https://paper-api.alpaca.markets"),
		},
		Tradier: TradierConfig{
			Token:       os.Getenv("TRADIER_TOKEN"),
			BaseURL:     getEnvString("TRADIER_BASE_URL", "https://api.tradier.com/v1"),
			Expirations: getEnvInt("TRADIER_EXPIRATIONS", 5),
		},
		Engine: EngineConfig{
			RiskFreeRate:  getEnvFloat("ENGINE_RISK_FREE_RATE", 0.05),
			LegsPerSymbol: getEnvInt("ENGINE_LEGS_PER_SYMBOL", 2),
			ScenarioLegs:  getEnvInt("ENGINE_SCENARIO_LEGS", 5),
			TopK:          getEnvInt("ENGINE_TOP_K", 10),
			LookbackDays:  getEnvInt("ENGINE_LOOKBACK_DAYS", 250),
			Watchlist:     getEnvList("ENGINE_WATCHLIST", []string{"SPY", "QQQ", "GLD", "SLV"}),
		},
		Scheduler: SchedulerConfig{
			Enabled: getEnvBool("SCHEDULER_ENABLED", true),
			// weekdays at 08:30, before the market opens
			CronExpr: getEnvString("SCHEDULER_CRON", "30 8 * * 1-5"),
		},
		HTTP: HTTPConfig{
			Addr:               getEnvString("HTTP_ADDR", ":8080"),
			CORSAllowedOrigins: getEnvString("CORS_ALLOWED_ORIGINS", "*"),
			TimeoutSeconds:     getEnvInt("HTTP_TIMEOUT_SECONDS", 60),
		},
		Production: getEnvString("ENV", "development") == "production",
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Engine.RiskFreeRate < 0 || c.Engine.RiskFreeRate > 1 {
		return fmt.Errorf("ENGINE_RISK_FREE_RATE must be between 0 and 1, got %.4f", c.Engine.RiskFreeRate)
	}
	if c.Engine.LegsPerSymbol <= 0 {
		return fmt.Errorf("ENGINE_LEGS_PER_SYMBOL must be positive, got %d", c.Engine.LegsPerSymbol)
	}
	if c.Engine.ScenarioLegs <= 0 {
		return fmt.Errorf("ENGINE_SCENARIO_LEGS must be positive, got %d", c.Engine.ScenarioLegs)
	}
	if c.Engine.TopK <= 0 {
		return fmt.Errorf("ENGINE_TOP_K must be positive, got %d", c.Engine.TopK)
	}
	if c.Engine.LookbackDays < 2 {
		return fmt.Errorf("ENGINE_LOOKBACK_DAYS must be at least 2, got %d", c.Engine.LookbackDays)
	}
	if len(c.Engine.Watchlist) == 0 {
		return fmt.Errorf("ENGINE_WATCHLIST must not be empty")
	}
	if c.Tradier.Expirations <= 0 {
		return fmt.Errorf("TRADIER_EXPIRATIONS must be positive, got %d", c.Tradier.Expirations)
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive, got %d", c.HTTP.TimeoutSeconds)
	}
	return nil
}

// HasDatabase returns true if database configuration is available
func (c *Config) HasDatabase() bool {
	return c.Database.URL != ""
}

// HasAlpaca returns true if Alpaca configuration is available
func (c *Config) HasAlpaca() bool {
	return c.Alpaca.APIKey != "" && c.Alpaca.APISecret != ""
}

// HasTradier returns true if Tradier configuration is available
func (c *Config) HasTradier() bool {
	return c.Tradier.Token != ""
}

func getEnvString(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultValue
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, strings.ToUpper(s))
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// NewTestConfig creates a Config with default values for testing
func NewTestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL: "",
		},
		Alpaca: AlpacaConfig{
			APIKey:    "",
			APISecret: "",
			BaseURL:   "https://paper-api.alpaca.markets",
		},
		Tradier: TradierConfig{
			Token:       "",
			BaseURL:     "https://api.tradier.com/v1",
			Expirations: 5,
		},
		Engine: EngineConfig{
			RiskFreeRate:  0.05,
			LegsPerSymbol: 2,
			ScenarioLegs:  5,
			TopK:          10,
			LookbackDays:  250,
			Watchlist:     []string{"SPY", "QQQ", "GLD", "SLV"},
		},
		Scheduler: SchedulerConfig{
			Enabled:  false,
			CronExpr: "30 8 * * 1-5",
		},
		HTTP: HTTPConfig{
			Addr:               ":8080",
			CORSAllowedOrigins: "*",
			TimeoutSeconds:     60,
		},
	}
}
